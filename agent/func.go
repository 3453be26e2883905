package agent

import (
	"context"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// Func adapts an ordinary function to core.Agent, typically to wrap the
// agent under test.
type Func struct {
	role core.AgentRole
	fn   func(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error)
}

var _ core.Agent = (*Func)(nil)

// NewFunc creates an agent playing role backed by fn.
func NewFunc(role core.AgentRole, fn func(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error)) *Func {
	return &Func{role: role, fn: fn}
}

// Role implements core.Agent.
func (f *Func) Role() core.AgentRole { return f.role }

// Call implements core.Agent.
func (f *Func) Call(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	return f.fn(ctx, in)
}
