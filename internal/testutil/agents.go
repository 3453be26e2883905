package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// ErrScriptExhausted is returned by a ScriptedAgent called more often than
// it has replies and no fallback.
var ErrScriptExhausted = errors.New("scripted agent has no more replies")

// ScriptedAgent replays a fixed list of replies and records every input it
// was called with. When replies run out it returns Fallback, or
// ErrScriptExhausted if Fallback is nil.
type ScriptedAgent struct {
	AgentRole core.AgentRole
	Replies   []core.AgentReturn
	Errs      []error // optional error per call index
	Fallback  core.AgentReturn

	mu     sync.Mutex
	inputs []core.AgentInput
}

// NewScriptedAgent creates a ScriptedAgent for role with the given replies.
func NewScriptedAgent(role core.AgentRole, replies ...core.AgentReturn) *ScriptedAgent {
	return &ScriptedAgent{AgentRole: role, Replies: replies}
}

// Echo returns an agent of role answering every call with the same text.
func Echo(role core.AgentRole, text string) *ScriptedAgent {
	return &ScriptedAgent{AgentRole: role, Fallback: core.Text(text)}
}

// Role implements core.Agent.
func (a *ScriptedAgent) Role() core.AgentRole { return a.AgentRole }

// Call implements core.Agent.
func (a *ScriptedAgent) Call(_ context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.inputs)
	a.inputs = append(a.inputs, *in)

	if n < len(a.Errs) && a.Errs[n] != nil {
		return nil, a.Errs[n]
	}
	if n < len(a.Replies) {
		return a.Replies[n], nil
	}
	if a.Fallback != nil {
		return a.Fallback, nil
	}
	return nil, ErrScriptExhausted
}

// Calls returns how many times the agent was called.
func (a *ScriptedAgent) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inputs)
}

// Inputs returns a copy of every recorded input.
func (a *ScriptedAgent) Inputs() []core.AgentInput {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.AgentInput, len(a.inputs))
	copy(out, a.inputs)
	return out
}

// FuncAgent adapts a function to core.Agent.
type FuncAgent struct {
	AgentRole core.AgentRole
	Fn        func(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error)
}

// NewFuncAgent creates a FuncAgent for role.
func NewFuncAgent(role core.AgentRole, fn func(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error)) *FuncAgent {
	return &FuncAgent{AgentRole: role, Fn: fn}
}

// Role implements core.Agent.
func (a *FuncAgent) Role() core.AgentRole { return a.AgentRole }

// Call implements core.Agent.
func (a *FuncAgent) Call(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	return a.Fn(ctx, in)
}

// CriteriaJudge is a ScriptedAgent judge that also reports criteria.
type CriteriaJudge struct {
	*ScriptedAgent
	List []string
}

// Criteria implements core.CriteriaProvider.
func (j *CriteriaJudge) Criteria() []string { return j.List }
