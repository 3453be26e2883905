package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/spatnaik17/scenario-agent-testing-sub000/events"
)

// ErrInjected is returned by RecordingReporter for injected failures.
var ErrInjected = errors.New("injected delivery failure")

// RecordingReporter records delivered events. The first FailFirst attempts
// fail with ErrInjected, or every attempt when FailAlways is set.
type RecordingReporter struct {
	FailFirst  int
	FailAlways bool

	mu       sync.Mutex
	attempts int
	events   []events.Event
}

// Report implements events.Reporter.
func (r *RecordingReporter) Report(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
	if r.FailAlways || r.attempts <= r.FailFirst {
		return ErrInjected
	}
	r.events = append(r.events, ev)
	return nil
}

// Attempts returns the number of Report calls.
func (r *RecordingReporter) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// Events returns the successfully delivered events in order.
func (r *RecordingReporter) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the types of the delivered events in order.
func (r *RecordingReporter) Types() []events.EventType {
	evs := r.Events()
	out := make([]events.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Meta().Type
	}
	return out
}

// RecordingPublisher captures published events synchronously.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

// Publish implements events.Publisher.
func (p *RecordingPublisher) Publish(ev events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

// Events returns the published events in order.
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the types of the published events in order.
func (p *RecordingPublisher) Types() []events.EventType {
	evs := p.Events()
	out := make([]events.EventType, len(evs))
	for i, ev := range evs {
		out[i] = ev.Meta().Type
	}
	return out
}

// Last returns the most recently published event, or nil.
func (p *RecordingPublisher) Last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}
