package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/internal/util"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
)

// Judge tool names.
const (
	ContinueTestTool = "continue_test"
	FinishTestTool   = "finish_test"
)

// Per-criterion and overall values accepted by the finish_test tool.
const (
	CriterionMet          = "true"
	CriterionUnmet        = "false"
	CriterionInconclusive = "inconclusive"

	VerdictSuccess      = "success"
	VerdictFailure      = "failure"
	VerdictInconclusive = "inconclusive"
)

// ErrNoCriteria is returned by Judge.Call when no criteria were configured.
var ErrNoCriteria = errors.New("judge has no criteria")

// DefaultJudgePrompt is the system prompt template of Judge.
const DefaultJudgePrompt = `<role>
You are an LLM judge watching a simulated conversation live, deciding whether the agent under test meets the criteria below.
</role>

<goal>
Decide whether you already have enough information to give a verdict on the scenario, or whether the conversation should go on.
If you have enough information, call the finish_test tool with a value for every criterion. Otherwise call continue_test to let the next step play out.
</goal>

<scenario>
{{.description}}
</scenario>

<criteria>
{{range $i, $c := .criteria}}{{inc $i}}. {{$c}}
{{end}}</criteria>

<rules>
- Be strict: finish right away when the agent already broke a "do not" or "should not" criterion
- Only judge what the criteria state explicitly, withhold judgement otherwise
</rules>`

// judgmentRequestNote is appended when a verdict is forced.
const judgmentRequestNote = "A verdict is required now: call finish_test, marking criteria you could not observe as inconclusive."

// JudgeOptions configures a Judge.
type JudgeOptions struct {
	// Instruction replaces DefaultJudgePrompt.
	Instruction Instruction
	// Vars are extra template variables for the prompt.
	Vars        map[string]any
	Temperature *float64
	Logger      logging.Logger
}

// Judge evaluates the conversation against a list of criteria. On every
// call it lets the model choose between continue_test, which lets the
// conversation go on, and finish_test, which ends the run with a verdict.
// A judgment request forces finish_test.
type Judge struct {
	baseAgent
	criteria []string
}

var (
	_ core.Agent            = (*Judge)(nil)
	_ core.CriteriaProvider = (*Judge)(nil)
)

// NewJudge creates a judge evaluating criteria with llm.
func NewJudge(llm model.Model, criteria []string, optFns ...func(o *JudgeOptions)) *Judge {
	opts := JudgeOptions{
		Instruction: NewInstructionFromText(DefaultJudgePrompt),
		Temperature: ptr(0.0),
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Instruction.IsZero() {
		opts.Instruction = NewInstructionFromText(DefaultJudgePrompt)
	}
	return &Judge{
		baseAgent: baseAgent{
			role:        core.AgentRoleJudge,
			llm:         llm,
			instruction: opts.Instruction,
			vars:        opts.Vars,
			temperature: opts.Temperature,
			logger:      logging.OrNoOp(opts.Logger),
		},
		criteria: append([]string(nil), criteria...),
	}
}

// Criteria implements core.CriteriaProvider.
func (j *Judge) Criteria() []string { return append([]string(nil), j.criteria...) }

// Call implements core.Agent.
func (j *Judge) Call(ctx context.Context, in *core.AgentInput) (core.AgentReturn, error) {
	if len(j.criteria) == 0 {
		return nil, ErrNoCriteria
	}
	prompt, err := j.systemPrompt(in, map[string]any{"criteria": j.criteria})
	if err != nil {
		return nil, err
	}

	messages := append([]core.Message(nil), in.Messages...)
	tools := []model.ToolDefinition{j.finishTool()}
	choice := &model.ToolChoice{Name: FinishTestTool}
	if in.JudgmentRequest {
		messages = append(messages, core.UserMessage(judgmentRequestNote))
	} else {
		tools = append([]model.ToolDefinition{continueTool()}, tools...)
		choice = &model.ToolChoice{Mode: model.ToolChoiceRequired}
	}
	if len(messages) == 0 || (messages[len(messages)-1].Role == core.RoleAssistant && messages[len(messages)-1].HasToolCalls()) {
		messages = append(messages, core.UserMessage("Evaluate the conversation so far."))
	}

	msg, err := j.generate(ctx, model.Request{
		Instructions: prompt,
		Messages:     messages,
		Tools:        tools,
		ToolChoice:   choice,
	})
	if err != nil {
		return nil, err
	}
	return j.interpret(msg, in.Messages)
}

// interpret maps the model's tool call to an agent return value.
func (j *Judge) interpret(msg core.Message, history []core.Message) (core.AgentReturn, error) {
	if !msg.HasToolCalls() {
		return core.NewFailureResult(history, "The judge did not call a tool, no verdict could be reached").
			WithCriteria([]string{}, j.criteria), nil
	}

	call := msg.ToolCalls[0]
	switch call.Function.Name {
	case ContinueTestTool:
		return core.Messages{}, nil
	case FinishTestTool:
		return j.verdict(call.Function.Arguments, history)
	default:
		return nil, fmt.Errorf("judge called unknown tool %q", call.Function.Name)
	}
}

type finishArgs struct {
	Criteria  map[string]string `json:"criteria" description:"Per criterion result"`
	Reasoning string            `json:"reasoning" description:"Explanation of what the final verdict should be"`
	Verdict   string            `json:"verdict" enum:"success,failure,inconclusive" description:"The final verdict of the test"`
}

func (j *Judge) verdict(arguments string, history []core.Message) (*core.Result, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(arguments), &raw); err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", FinishTestTool, err)
	}
	if err := util.ValidateParameters(raw, j.finishTool().Function.Parameters); err != nil {
		return nil, fmt.Errorf("invalid %s arguments: %w", FinishTestTool, err)
	}

	var args finishArgs
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", FinishTestTool, err)
	}

	passed := make([]string, 0, len(j.criteria))
	failed := make([]string, 0, len(j.criteria))
	for i, c := range j.criteria {
		if strings.EqualFold(args.Criteria[criterionKey(i)], CriterionMet) {
			passed = append(passed, c)
		} else {
			failed = append(failed, c)
		}
	}

	res := core.NewFailureResult(history, args.Reasoning)
	if args.Verdict == VerdictSuccess {
		res = core.NewSuccessResult(history, args.Reasoning)
	}
	return res.WithCriteria(passed, failed), nil
}

func criterionKey(i int) string { return fmt.Sprintf("criterion_%d", i+1) }

func continueTool() model.ToolDefinition {
	return model.NewFunctionTool(ContinueTestTool,
		"Continue the test with the next step",
		util.CreateSchema(struct{}{}))
}

// finishTool describes finish_test with one enum property per criterion.
func (j *Judge) finishTool() model.ToolDefinition {
	criteriaProps := make(map[string]any, len(j.criteria))
	required := make([]string, len(j.criteria))
	for i, c := range j.criteria {
		key := criterionKey(i)
		criteriaProps[key] = map[string]any{
			"type":        "string",
			"enum":        []string{CriterionMet, CriterionUnmet, CriterionInconclusive},
			"description": c,
		}
		required[i] = key
	}

	schema := util.CreateSchema(finishArgs{})
	props := schema["properties"].(map[string]any)
	props["criteria"] = map[string]any{
		"type":        "object",
		"description": "Strict verdict for each criterion",
		"properties":  criteriaProps,
		"required":    required,
	}

	return model.NewFunctionTool(FinishTestTool, "Complete the test with a final verdict", schema)
}

func ptr[T any](v T) *T { return &v }
