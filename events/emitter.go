package events

import (
	"sync"
	"time"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// Publisher accepts events for delivery. *Bus implements it.
type Publisher interface {
	Publish(ev Event)
}

// Emitter stamps lifecycle events with the correlation ids of one run and
// publishes them. Timestamps it produces never decrease.
type Emitter struct {
	pub        Publisher
	batchRunID string
	runID      string
	scenarioID string
	setID      string
	now        func() time.Time

	mu   sync.Mutex
	last int64
}

// EmitterOptions configures an Emitter.
type EmitterOptions struct {
	BatchRunID string
	SetID      string
	// Now overrides the clock (tests).
	Now func() time.Time
}

// NewEmitter creates an Emitter for the run runID of the scenario scenarioID.
func NewEmitter(pub Publisher, scenarioID, runID string, optFns ...func(o *EmitterOptions)) *Emitter {
	opts := EmitterOptions{
		BatchRunID: BatchRunID(),
		SetID:      DefaultSetID,
		Now:        time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.SetID == "" {
		opts.SetID = DefaultSetID
	}
	return &Emitter{
		pub:        pub,
		batchRunID: opts.BatchRunID,
		runID:      runID,
		scenarioID: scenarioID,
		setID:      opts.SetID,
		now:        opts.Now,
	}
}

// RunID returns the run id stamped on every event.
func (e *Emitter) RunID() string { return e.runID }

// BatchRunID returns the batch id stamped on every event.
func (e *Emitter) BatchRunID() string { return e.batchRunID }

func (e *Emitter) base(t EventType) BaseEvent {
	e.mu.Lock()
	ts := e.now().UnixMilli()
	if ts < e.last {
		ts = e.last
	}
	e.last = ts
	e.mu.Unlock()

	return BaseEvent{
		Type:          t,
		BatchRunID:    e.batchRunID,
		ScenarioID:    e.scenarioID,
		ScenarioRunID: e.runID,
		ScenarioSetID: e.setID,
		Timestamp:     ts,
	}
}

// RunStarted publishes the start of the run.
func (e *Emitter) RunStarted(name, description string) {
	e.pub.Publish(&RunStarted{
		BaseEvent: e.base(TypeRunStarted),
		Metadata:  RunMetadata{Name: name, Description: description},
	})
}

// MessageSnapshot publishes the full message log.
func (e *Emitter) MessageSnapshot(msgs []core.Message) {
	snapshot := make([]core.Message, len(msgs))
	for i, m := range msgs {
		snapshot[i] = m.Clone()
	}
	e.pub.Publish(&MessageSnapshot{BaseEvent: e.base(TypeMessageSnapshot), Messages: snapshot})
}

// RunFinished publishes the end of the run. A non-nil runErr reports an
// ERROR status regardless of res.
func (e *Emitter) RunFinished(res *core.Result, runErr error) {
	ev := &RunFinished{BaseEvent: e.base(TypeRunFinished)}
	switch {
	case runErr != nil:
		ev.Status = StatusError
		ev.Results = &RunResults{Verdict: VerdictFailure, MetCriteria: []string{}, UnmetCriteria: []string{}, Error: runErr.Error()}
	case res == nil:
		ev.Status = StatusError
		ev.Results = &RunResults{Verdict: VerdictInconclusive, MetCriteria: []string{}, UnmetCriteria: []string{}}
	default:
		ev.Status = StatusFailed
		verdict := VerdictFailure
		if res.Success {
			ev.Status = StatusSuccess
			verdict = VerdictSuccess
		}
		ev.Results = &RunResults{
			Verdict:       verdict,
			Reasoning:     res.Reasoning,
			MetCriteria:   nonNil(res.PassedCriteria),
			UnmetCriteria: nonNil(res.FailedCriteria),
		}
	}
	e.pub.Publish(ev)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
