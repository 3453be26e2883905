package core

import (
	"slices"
	"time"
)

// Result is the terminal verdict of a run. Treat it as immutable once built;
// helpers that adjust it return copies.
type Result struct {
	Success        bool          `json:"success"`
	Messages       []Message     `json:"messages"`
	Reasoning      string        `json:"reasoning,omitempty"`
	PassedCriteria []string      `json:"passed_criteria"`
	FailedCriteria []string      `json:"failed_criteria"`
	TotalTime      time.Duration `json:"total_time,omitempty"`
	AgentTime      time.Duration `json:"agent_time,omitempty"`
}

// NewSuccessResult builds a passing verdict over a snapshot of messages.
func NewSuccessResult(messages []Message, reasoning string) *Result {
	return &Result{Success: true, Messages: cloneMessages(messages), Reasoning: reasoning, PassedCriteria: []string{}, FailedCriteria: []string{}}
}

// NewFailureResult builds a failing verdict over a snapshot of messages.
func NewFailureResult(messages []Message, reasoning string) *Result {
	return &Result{Success: false, Messages: cloneMessages(messages), Reasoning: reasoning, PassedCriteria: []string{}, FailedCriteria: []string{}}
}

// WithCriteria returns a copy of r carrying the given criteria breakdown.
func (r *Result) WithCriteria(passed, failed []string) *Result {
	c := r.clone()
	c.PassedCriteria = slices.Clone(passed)
	c.FailedCriteria = slices.Clone(failed)
	return c
}

// WithMessages returns a copy of r holding a snapshot of msgs.
func (r *Result) WithMessages(msgs []Message) *Result {
	c := r.clone()
	c.Messages = cloneMessages(msgs)
	return c
}

// WithTiming returns a copy of r stamped with wall and agent time.
func (r *Result) WithTiming(total, agent time.Duration) *Result {
	c := r.clone()
	c.TotalTime = total
	c.AgentTime = agent
	return c
}

func (r *Result) clone() *Result {
	c := *r
	c.Messages = cloneMessages(r.Messages)
	c.PassedCriteria = slices.Clone(r.PassedCriteria)
	c.FailedCriteria = slices.Clone(r.FailedCriteria)
	return &c
}
