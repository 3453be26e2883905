package script

import (
	"context"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// Message appends msg verbatim to the conversation.
func Message(msg core.Message) Step {
	return func(ctx context.Context, c Controller) (Outcome, error) {
		if err := c.AddMessage(ctx, msg); err != nil {
			return Outcome{}, err
		}
		return Continue(), nil
	}
}

// Seed appends msgs to the log as harness context (a system prompt, prior
// history). Agents find them in their history, not among new messages.
func Seed(msgs ...core.Message) Step {
	return func(ctx context.Context, c Controller) (Outcome, error) {
		for _, msg := range msgs {
			if err := c.Seed(ctx, msg); err != nil {
				return Outcome{}, err
			}
		}
		return Continue(), nil
	}
}

// User makes the user simulator speak. With content the text is appended as
// a user message instead of calling the agent; at most one content is used.
func User(content ...string) Step {
	return roleStep(core.AgentRoleUser, content, false)
}

// Agent makes the agent under test respond, or appends content as its reply.
func Agent(content ...string) Step {
	return roleStep(core.AgentRoleAgent, content, false)
}

// Judge forces the judge to produce a verdict, or appends content as a judge
// message.
func Judge(content ...string) Step {
	return roleStep(core.AgentRoleJudge, content, true)
}

// UserMessage appends msg as the user's turn without calling the simulator.
func UserMessage(msg core.Message) Step {
	return literalStep(core.AgentRoleUser, msg)
}

// AgentMessage appends msg (for example one carrying tool calls) as the
// agent's turn without calling the agent under test.
func AgentMessage(msg core.Message) Step {
	return literalStep(core.AgentRoleAgent, msg)
}

func roleStep(role core.AgentRole, content []string, judgment bool) Step {
	return func(ctx context.Context, c Controller) (Outcome, error) {
		var msg *core.Message
		if len(content) > 0 {
			m := core.Message{Role: role.MessageRole(), Content: content[0]}
			msg = &m
		}
		res, err := c.CallRole(ctx, role, msg, judgment && msg == nil)
		if err != nil {
			return Outcome{}, err
		}
		return fromResult(res), nil
	}
}

func literalStep(role core.AgentRole, msg core.Message) Step {
	return func(ctx context.Context, c Controller) (Outcome, error) {
		res, err := c.CallRole(ctx, role, &msg, false)
		if err != nil {
			return Outcome{}, err
		}
		return fromResult(res), nil
	}
}

// ProceedOption customizes a Proceed step.
type ProceedOption func(o *ProceedOptions)

// Turns limits a proceed step to n turns.
func Turns(n int) ProceedOption {
	return func(o *ProceedOptions) { o.Turns = &n }
}

// OnTurn registers a callback fired at every new turn.
func OnTurn(cb Callback) ProceedOption {
	return func(o *ProceedOptions) { o.OnTurn = cb }
}

// OnStep registers a callback fired after every agent call.
func OnStep(cb Callback) ProceedOption {
	return func(o *ProceedOptions) { o.OnStep = cb }
}

// Proceed lets the agents converse autonomously until a verdict, the max
// turn limit, or the optional turn budget is reached.
func Proceed(opts ...ProceedOption) Step {
	var po ProceedOptions
	for _, fn := range opts {
		fn(&po)
	}
	return func(ctx context.Context, c Controller) (Outcome, error) {
		res, err := c.Proceed(ctx, po)
		if err != nil {
			return Outcome{}, err
		}
		return fromResult(res), nil
	}
}

// Succeed ends the run with a passing verdict.
func Succeed(reasoning ...string) Step {
	reason := firstOr(reasoning, "Scenario marked as successful with scenario.succeed()")
	return func(_ context.Context, c Controller) (Outcome, error) {
		return Terminate(c.Succeed(reason)), nil
	}
}

// Fail ends the run with a failing verdict.
func Fail(reasoning ...string) Step {
	reason := firstOr(reasoning, "Scenario marked as failed with scenario.fail()")
	return func(_ context.Context, c Controller) (Outcome, error) {
		return Terminate(c.Fail(reason)), nil
	}
}

// Func wraps a custom check over the live state. Returning an error aborts
// the run; use Expect to turn a boolean check into a failing verdict.
func Func(fn func(ctx context.Context, state *core.State) error) Step {
	return func(ctx context.Context, c Controller) (Outcome, error) {
		if err := fn(ctx, c.State()); err != nil {
			return Outcome{}, err
		}
		return Continue(), nil
	}
}

// Expect fails the run with reasoning when check returns false.
func Expect(check func(state core.StateView) bool, reasoning string) Step {
	return func(_ context.Context, c Controller) (Outcome, error) {
		if check(c.State()) {
			return Continue(), nil
		}
		return Terminate(c.Fail(reasoning)), nil
	}
}

func firstOr(s []string, def string) string {
	if len(s) > 0 && s[0] != "" {
		return s[0]
	}
	return def
}
