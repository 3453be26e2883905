// Package script provides deterministic step sequences that take over the
// conversation from autonomous role cycling. A Script is a list of Steps run
// in order; each step either lets the script continue or terminates the run
// with a verdict.
//
// Steps talk to the conversation through a Controller, implemented by the
// executor, so the same script can drive any roster of agents:
//
//	scenario.Run(ctx, "refund", "user asks for a refund", agents,
//	    func(o *scenario.Options) {
//	        o.Script = script.Script{
//	            script.User("I want my money back"),
//	            script.Agent(),
//	            script.Proceed(script.Turns(2)),
//	            script.Judge(),
//	        }
//	    })
package script

import (
	"context"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// Outcome is the tagged result of a step: either Continue or Terminate.
type Outcome struct {
	result *core.Result
}

// Continue lets the script move on to its next step.
func Continue() Outcome { return Outcome{} }

// Terminate ends the run with r.
func Terminate(r *core.Result) Outcome { return Outcome{result: r} }

// Result returns the verdict carried by a terminating outcome.
func (o Outcome) Result() (*core.Result, bool) { return o.result, o.result != nil }

// IsTerminal reports whether the outcome ends the run.
func (o Outcome) IsTerminal() bool { return o.result != nil }

// fromResult maps an optional verdict to an outcome.
func fromResult(r *core.Result) Outcome {
	if r == nil {
		return Continue()
	}
	return Terminate(r)
}

// Callback is invoked with the live state; a non-nil error aborts the run.
type Callback func(ctx context.Context, state *core.State) error

// ProceedOptions configures an autonomous proceed step.
type ProceedOptions struct {
	// Turns limits how many turns run, counted from the turn active when the
	// step started (inclusive). Nil means until a verdict or max turns.
	Turns *int
	// OnTurn fires at every turn boundary before the max-turn check.
	OnTurn Callback
	// OnStep fires after every successful agent call.
	OnStep Callback
}

// Controller exposes the executor primitives available to script steps.
type Controller interface {
	// State returns the live conversation state.
	State() *core.State
	// AddMessage appends a literal message on behalf of no agent.
	AddMessage(ctx context.Context, msg core.Message) error
	// Seed appends a message to the log without delivering it to any agent
	// as a new message.
	Seed(ctx context.Context, msg core.Message) error
	// CallRole resolves the next unconsumed agent of role in the current turn
	// (forcing a new turn once if needed). With content, the message is
	// appended literally and no agent is called. A missing role yields a
	// *core.ConfigError.
	CallRole(ctx context.Context, role core.AgentRole, content *core.Message, judgmentRequest bool) (*core.Result, error)
	// Proceed runs the conversation autonomously. It returns a nil result
	// when the requested turns elapsed without a verdict.
	Proceed(ctx context.Context, opts ProceedOptions) (*core.Result, error)
	// Succeed and Fail build explicit verdicts over the current messages.
	Succeed(reasoning string) *core.Result
	Fail(reasoning string) *core.Result
}

// Step is one entry of a script.
type Step func(ctx context.Context, c Controller) (Outcome, error)

// Script is an ordered list of steps.
type Script []Step

// Default is the script used when none is given: proceed until a verdict.
func Default() Script { return Script{Proceed()} }
