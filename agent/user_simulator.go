package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
)

// ErrEmptyReply is returned when the model produced no text for the user turn.
var ErrEmptyReply = errors.New("user simulator produced an empty message")

// DefaultUserSimulatorPrompt is the system prompt template of UserSimulator.
const DefaultUserSimulatorPrompt = `<role>
You are pretending to be a user talking to an AI agent (shown as the user role) in order to test it against a scenario.
Write the way a real person types into a chat box: very short inputs, few words, all lowercase, imperative, no periods.
</role>

<goal>
Interact with the agent under test as a human would, to find out whether it can complete the scenario successfully.
</goal>

<scenario>
{{.description}}
</scenario>

<rules>
- You are the user, never answer your own requests or act as the assistant
- Stay in character for the whole conversation
</rules>`

// openingLine seeds the reversed history when the simulator speaks first.
const openingLine = "Hello, how can I help you today?"

// UserSimulatorOptions configures a UserSimulator.
type UserSimulatorOptions struct {
	// Instruction replaces DefaultUserSimulatorPrompt.
	Instruction Instruction
	// Vars are extra template variables for the prompt.
	Vars        map[string]any
	Temperature *float64
	Logger      logging.Logger
}

// UserSimulator plays the user role by asking a model what a user pursuing
// the scenario description would say next. The conversation is presented to
// the model with roles reversed so the model speaks as the assistant.
type UserSimulator struct {
	baseAgent
}

var _ core.Agent = (*UserSimulator)(nil)

// NewUserSimulator creates a user simulator backed by llm.
func NewUserSimulator(llm model.Model, optFns ...func(o *UserSimulatorOptions)) *UserSimulator {
	opts := UserSimulatorOptions{
		Instruction: NewInstructionFromText(DefaultUserSimulatorPrompt),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Instruction.IsZero() {
		opts.Instruction = NewInstructionFromText(DefaultUserSimulatorPrompt)
	}
	return &UserSimulator{baseAgent{
		role:        core.AgentRoleUser,
		llm:         llm,
		instruction: opts.Instruction,
		vars:        opts.Vars,
		temperature: opts.Temperature,
		logger:      logging.OrNoOp(opts.Logger),
	}}
}

// Call implements core.Agent.
func (u *UserSimulator) Call(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	prompt, err := u.systemPrompt(in, nil)
	if err != nil {
		return nil, err
	}

	msg, err := u.generate(ctx, model.Request{
		Instructions: prompt,
		Messages:     reverseRoles(in.Messages),
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(msg.Content)
	if text == "" {
		return nil, ErrEmptyReply
	}
	return core.UserMessage(text), nil
}

// reverseRoles swaps user and assistant text so the simulator's own past
// turns appear as assistant messages. Tool traffic and system messages are
// internal to the agent under test and are dropped.
func reverseRoles(msgs []core.Message) []core.Message {
	out := make([]core.Message, 0, len(msgs)+1)
	for _, m := range msgs {
		switch m.Role {
		case core.RoleUser:
			out = append(out, core.AssistantMessage(m.Content))
		case core.RoleAssistant:
			if m.Content != "" {
				out = append(out, core.UserMessage(m.Content))
			}
		}
	}
	if len(out) == 0 || out[0].Role != core.RoleUser {
		out = append([]core.Message{core.UserMessage(openingLine)}, out...)
	}
	return out
}
