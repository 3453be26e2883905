package core

import (
	"context"
	"fmt"
)

// AgentRole is the closed set of participant categories an agent can play.
type AgentRole int

const (
	// AgentRoleUser simulates the human talking to the agent under test.
	AgentRoleUser AgentRole = iota
	// AgentRoleAgent is the agent under test.
	AgentRoleAgent
	// AgentRoleJudge evaluates the conversation and produces the verdict.
	AgentRoleJudge
)

// TurnOrder is the fixed role visitation order within a turn.
var TurnOrder = [...]AgentRole{AgentRoleUser, AgentRoleAgent, AgentRoleJudge}

// String returns the lowercase role name.
func (r AgentRole) String() string {
	switch r {
	case AgentRoleUser:
		return "user"
	case AgentRoleAgent:
		return "agent"
	case AgentRoleJudge:
		return "judge"
	default:
		return fmt.Sprintf("AgentRole(%d)", int(r))
	}
}

// MessageRole returns the conversation role used for plain text produced by
// an agent of this role: the user simulator speaks as the user, everyone else
// as the assistant.
func (r AgentRole) MessageRole() Role {
	switch r {
	case AgentRoleUser:
		return RoleUser
	case AgentRoleAgent, AgentRoleJudge:
		return RoleAssistant
	default:
		return RoleAssistant
	}
}

// Agent is the single capability every participant of a scenario exposes.
//
// Call is invoked by the executor at most once per turn slot and is awaited
// to completion before the conversation advances. Implementations may block;
// they should honour ctx cancellation. Agents may keep private state between
// calls but must not mutate the State they are handed.
type Agent interface {
	Role() AgentRole
	Call(ctx context.Context, input *AgentInput) (AgentReturn, error)
}

// AgentInput bundles everything an agent sees when it is called.
type AgentInput struct {
	ThreadID string
	// Messages is the full conversation history.
	Messages []Message
	// NewMessages holds only the messages appended by others since this
	// agent was last called.
	NewMessages []Message
	// JudgmentRequest is true when a script explicitly forces a verdict.
	JudgmentRequest bool
	// State offers read-only history queries over the live conversation.
	State StateView
}

// LastNewUserMessage returns the most recent user message among NewMessages.
func (in *AgentInput) LastNewUserMessage() (Message, bool) {
	for i := len(in.NewMessages) - 1; i >= 0; i-- {
		if in.NewMessages[i].Role == RoleUser {
			return in.NewMessages[i], true
		}
	}
	return Message{}, false
}

// AgentReturn is the closed set of values an agent call may produce:
// Text, Message, Messages or *Result.
type AgentReturn interface{ isAgentReturn() }

// Text is a bare string reply. Its role is inferred from the calling agent's role.
type Text string

// Messages is an ordered list of replies used as-is.
type Messages []Message

func (Text) isAgentReturn()     {}
func (Message) isAgentReturn()  {}
func (Messages) isAgentReturn() {}
func (*Result) isAgentReturn()  {}

// NormalizeReturn turns an agent return value into either messages to append
// or a terminal result. A nil or unknown value yields a ConfigError.
func NormalizeReturn(role AgentRole, ret AgentReturn) ([]Message, *Result, error) {
	switch v := ret.(type) {
	case Text:
		return []Message{{Role: role.MessageRole(), Content: string(v)}}, nil, nil
	case Message:
		return []Message{v}, nil, nil
	case Messages:
		return []Message(v), nil, nil
	case *Result:
		if v == nil {
			return nil, nil, &ConfigError{Role: role, Msg: "agent returned a nil result"}
		}
		return nil, v, nil
	default:
		return nil, nil, &ConfigError{Role: role, Msg: fmt.Sprintf("agent returned unsupported value of type %T", ret)}
	}
}

// CriteriaProvider is implemented by judges that evaluate a fixed list of
// criteria. When a run ends without a verdict, every criterion of every
// registered judge is reported as failed.
type CriteriaProvider interface {
	Criteria() []string
}
