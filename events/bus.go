package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
)

// Default delivery settings.
const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 500 * time.Millisecond
)

// ErrBusClosed is returned by Drain when the bus was closed before the
// stream completed.
var ErrBusClosed = errors.New("event bus closed")

// BusOptions configures a Bus.
type BusOptions struct {
	// MaxRetries is the maximum number of delivery attempts per event.
	MaxRetries int
	// BaseDelay is the wait after the first failed attempt; it doubles on
	// every further attempt.
	BaseDelay time.Duration
	Logger    logging.Logger
	Metrics   *Metrics
	// Sleep overrides how the worker waits between attempts (tests).
	Sleep func(ctx context.Context, d time.Duration) error
}

// Bus is the per-run event stream. Publish never blocks: events go into an
// unbounded FIFO queue drained by a single worker goroutine, started lazily
// on the first event. The worker exits once RunFinished has been published
// and the queue is empty, so per-run delivery order equals publish order.
//
// Delivery failures never reach the publisher. Each event is attempted up to
// MaxRetries times with exponential backoff, then logged and dropped.
type Bus struct {
	reporter Reporter
	opts     BusOptions
	logger   logging.Logger

	mu       sync.Mutex
	queue    []Event
	started  bool
	finished bool
	notify   chan struct{}
	done     chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a bus delivering to reporter. A nil reporter consumes events
// without delivering them.
func NewBus(reporter Reporter, optFns ...func(o *BusOptions)) *Bus {
	opts := BusOptions{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Logger:     logging.NoOpLogger{},
		Sleep:      sleepCtx,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bus{
		reporter: reporter,
		opts:     opts,
		logger:   logging.OrNoOp(opts.Logger),
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish enqueues ev for delivery. Publishing a RunFinished event marks the
// stream complete; events published afterwards are discarded.
func (b *Bus) Publish(ev Event) {
	if ev == nil {
		return
	}
	meta := ev.Meta()

	b.mu.Lock()
	if b.finished {
		b.mu.Unlock()
		b.logger.Warn("Event published after run finished, dropping", "event_type", string(meta.Type))
		return
	}
	b.queue = append(b.queue, ev)
	b.opts.Metrics.recordPublished(meta.Type)
	if meta.Type == TypeRunFinished {
		b.finished = true
	}
	if !b.started {
		b.started = true
		go b.worker()
	}
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// IsCompleted reports whether RunFinished has been published and every
// queued event has been attempted.
func (b *Bus) IsCompleted() bool {
	b.mu.Lock()
	finished := b.finished
	b.mu.Unlock()
	if !finished {
		return false
	}
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Drain blocks until the stream completes or ctx is done. It returns
// ErrBusClosed when the bus was closed before every event was attempted, and
// returns immediately when nothing was ever published.
func (b *Bus) Drain(ctx context.Context) error {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-b.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.mu.Lock()
	complete := b.finished && len(b.queue) == 0
	b.mu.Unlock()
	if !complete {
		return ErrBusClosed
	}
	return nil
}

// Close aborts pending retries and stops the worker without waiting for
// undelivered events.
func (b *Bus) Close() { b.cancel() }

func (b *Bus) worker() {
	defer close(b.done)
	for {
		ev, ok := b.next()
		if !ok {
			return
		}
		b.deliver(ev)
	}
}

// next pops the head of the queue, waiting for more events while the stream
// is still open. It reports false once the stream is complete and empty or
// the bus is closed.
func (b *Bus) next() (Event, bool) {
	for {
		if b.ctx.Err() != nil {
			return nil, false
		}
		b.mu.Lock()
		if len(b.queue) > 0 {
			ev := b.queue[0]
			b.queue[0] = nil
			b.queue = b.queue[1:]
			b.mu.Unlock()
			b.opts.Metrics.recordDequeued()
			return ev, true
		}
		finished := b.finished
		b.mu.Unlock()

		if finished {
			return nil, false
		}

		select {
		case <-b.notify:
		case <-b.ctx.Done():
			return nil, false
		}
	}
}

func (b *Bus) deliver(ev Event) {
	t := ev.Meta().Type
	if b.reporter == nil {
		return
	}

	delay := b.opts.BaseDelay
	for attempt := 1; attempt <= b.opts.MaxRetries; attempt++ {
		err := b.reporter.Report(b.ctx, ev)
		b.opts.Metrics.recordAttempt(t, err)
		if err == nil {
			b.opts.Metrics.recordDelivered(t)
			return
		}
		logging.LogEventDelivery(b.logger, string(t), attempt, err)

		if attempt == b.opts.MaxRetries {
			break
		}
		if err := b.opts.Sleep(b.ctx, delay); err != nil {
			break
		}
		delay *= 2
	}

	b.opts.Metrics.recordDropped(t)
	b.logger.Warn("Giving up on event delivery", "event_type", string(t), "scenario_run_id", ev.Meta().ScenarioRunID, "max_retries", b.opts.MaxRetries)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
