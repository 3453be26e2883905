// Package events delivers scenario lifecycle events (run started, message
// snapshots, run finished) to an external observer without blocking the
// executor. Events are published into a per-run Bus that drains them on a
// single background worker, retrying failed deliveries with exponential
// backoff.
package events

import "github.com/spatnaik17/scenario-agent-testing-sub000/core"

// EventType is the wire discriminator of an event.
type EventType string

const (
	// TypeRunStarted marks the beginning of a scenario run.
	TypeRunStarted EventType = "SCENARIO_RUN_STARTED"
	// TypeRunFinished marks the end of a scenario run. Publishing it completes the stream.
	TypeRunFinished EventType = "SCENARIO_RUN_FINISHED"
	// TypeMessageSnapshot carries the full conversation at a point in time.
	TypeMessageSnapshot EventType = "SCENARIO_MESSAGE_SNAPSHOT"
)

// DefaultSetID is the scenario set id used when none is configured.
const DefaultSetID = "default"

// RunStatus is the terminal status reported in a RunFinished event.
type RunStatus string

const (
	StatusSuccess RunStatus = "SUCCESS"
	StatusFailed  RunStatus = "FAILED"
	StatusError   RunStatus = "ERROR"
)

// Verdict is the summarized outcome reported in a RunFinished event.
type Verdict string

const (
	VerdictSuccess      Verdict = "success"
	VerdictFailure      Verdict = "failure"
	VerdictInconclusive Verdict = "inconclusive"
)

// Event is the closed set of lifecycle events: *RunStarted, *MessageSnapshot
// and *RunFinished. Events are immutable once published.
type Event interface {
	Meta() BaseEvent
}

// BaseEvent holds the correlation fields shared by every event.
type BaseEvent struct {
	Type          EventType `json:"type"`
	BatchRunID    string    `json:"batch_run_id"`
	ScenarioID    string    `json:"scenario_id"`
	ScenarioRunID string    `json:"scenario_run_id"`
	ScenarioSetID string    `json:"scenario_set_id"`
	Timestamp     int64     `json:"timestamp"` // epoch milliseconds
}

// Meta returns the shared event fields.
func (b BaseEvent) Meta() BaseEvent { return b }

// RunMetadata describes the scenario in a RunStarted event.
type RunMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RunStarted is published once at the beginning of a run.
type RunStarted struct {
	BaseEvent
	Metadata RunMetadata `json:"metadata"`
}

// MessageSnapshot carries the complete message log at emission time.
type MessageSnapshot struct {
	BaseEvent
	Messages []core.Message `json:"messages"`
}

// RunResults summarizes the verdict in a RunFinished event.
type RunResults struct {
	Verdict       Verdict  `json:"verdict"`
	Reasoning     string   `json:"reasoning,omitempty"`
	MetCriteria   []string `json:"met_criteria"`
	UnmetCriteria []string `json:"unmet_criteria"`
	Error         string   `json:"error,omitempty"`
}

// RunFinished is published exactly once at the end of a run.
type RunFinished struct {
	BaseEvent
	Status  RunStatus   `json:"status"`
	Results *RunResults `json:"results,omitempty"`
}

var (
	_ Event = (*RunStarted)(nil)
	_ Event = (*MessageSnapshot)(nil)
	_ Event = (*RunFinished)(nil)
)

// IsRunFinished reports whether ev terminates its stream.
func IsRunFinished(ev Event) bool {
	return ev != nil && ev.Meta().Type == TypeRunFinished
}
