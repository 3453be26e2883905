package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
	"github.com/spatnaik17/scenario-agent-testing-sub000/tool"
)

// DefaultMaxToolRounds bounds the model/tool round trips of one call.
const DefaultMaxToolRounds = 5

// ErrToolRoundsExceeded is returned when the model keeps calling tools past
// MaxToolRounds.
var ErrToolRoundsExceeded = errors.New("model agent exceeded tool rounds")

// ModelAgentOptions configures a ModelAgent.
type ModelAgentOptions struct {
	Instruction Instruction
	Vars        map[string]any
	Tools       []tool.Tool
	// MaxToolRounds bounds model calls that end in tool calls.
	MaxToolRounds int
	// MaxParallelTools bounds concurrent tool executions per round.
	MaxParallelTools int
	Temperature      *float64
	Logger           logging.Logger
}

// ModelAgent is a model-backed agent under test. It answers the conversation
// so far, executing any tools the model calls and feeding the results back
// until the model produces a plain reply. Every produced message (tool calls,
// tool results, final answer) is returned so scripts can assert on them.
type ModelAgent struct {
	baseAgent
	tools     []tool.Tool
	registry  tool.Registry
	maxRounds int
	parallel  int
}

var _ core.Agent = (*ModelAgent)(nil)

// NewModelAgent creates an agent playing the agent role backed by llm.
func NewModelAgent(llm model.Model, optFns ...func(o *ModelAgentOptions)) (*ModelAgent, error) {
	opts := ModelAgentOptions{
		MaxToolRounds: DefaultMaxToolRounds,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxToolRounds <= 0 {
		opts.MaxToolRounds = DefaultMaxToolRounds
	}

	registry, err := tool.NewRegistry(opts.Tools...)
	if err != nil {
		return nil, err
	}

	return &ModelAgent{
		baseAgent: baseAgent{
			role:        core.AgentRoleAgent,
			llm:         llm,
			instruction: opts.Instruction,
			vars:        opts.Vars,
			temperature: opts.Temperature,
			logger:      logging.OrNoOp(opts.Logger),
		},
		tools:     opts.Tools,
		registry:  registry,
		maxRounds: opts.MaxToolRounds,
		parallel:  opts.MaxParallelTools,
	}, nil
}

// Call implements core.Agent.
func (a *ModelAgent) Call(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	prompt, err := a.systemPrompt(in, nil)
	if err != nil {
		return nil, err
	}

	history := in.Messages
	var produced []core.Message

	for round := 0; ; round++ {
		msg, err := a.generate(ctx, model.Request{
			Instructions: prompt,
			Messages:     append(history[:len(history):len(history)], produced...),
			Tools:        tool.Definitions(a.tools),
		})
		if err != nil {
			return nil, err
		}
		msg.Role = core.RoleAssistant
		produced = append(produced, msg)

		if !msg.HasToolCalls() {
			return core.Messages(produced), nil
		}
		if round >= a.maxRounds {
			return nil, fmt.Errorf("%w (%d)", ErrToolRoundsExceeded, a.maxRounds)
		}

		results := a.registry.Execute(ctx, msg.ToolCalls, func(o *tool.ExecutorOptions) {
			o.MaxParallel = a.parallel
			o.Logger = a.logger
		})
		produced = append(produced, results...)
	}
}
