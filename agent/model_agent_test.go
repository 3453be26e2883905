package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
	"github.com/spatnaik17/scenario-agent-testing-sub000/tool"
)

func lookupTool() *tool.FunctionTool {
	return tool.NewFunctionTool("lookup_order", "Look up an order", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"order_id": map[string]any{"type": "string"},
		},
		"required": []string{"order_id"},
	}, func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"order_id": args["order_id"], "status": "shipped"}, nil
	})
}

func TestModelAgent_PlainReply(t *testing.T) {
	llm := model.NewMockModel("sut", "mock")
	llm.Enqueue(core.AssistantMessage("Happy to help."))

	a, err := NewModelAgent(llm, func(o *ModelAgentOptions) {
		o.Instruction = NewInstructionFromText("You support {{.description}}.")
	})
	require.NoError(t, err)
	assert.Equal(t, core.AgentRoleAgent, a.Role())

	ret, err := a.Call(context.Background(), inputWith(core.UserMessage("hi")))
	require.NoError(t, err)
	assert.Equal(t, core.Messages{core.AssistantMessage("Happy to help.")}, ret)

	req, ok := llm.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "You support customer wants a refund for a broken kettle.", req.Instructions)
	assert.Empty(t, req.Tools)
}

func TestModelAgent_ExecutesTools(t *testing.T) {
	call := core.NewToolCall("lookup_order", `{"order_id":"A-1"}`)
	llm := model.NewMockModel("sut", "mock")
	llm.Enqueue(
		core.AssistantMessage("", call),
		core.AssistantMessage("Order A-1 has shipped."),
	)

	a, err := NewModelAgent(llm, func(o *ModelAgentOptions) { o.Tools = []tool.Tool{lookupTool()} })
	require.NoError(t, err)

	ret, err := a.Call(context.Background(), inputWith(core.UserMessage("where is A-1?")))
	require.NoError(t, err)

	msgs, ok := ret.(core.Messages)
	require.True(t, ok)
	require.Len(t, msgs, 3)
	assert.True(t, msgs[0].HasToolCalls())
	assert.Equal(t, core.RoleTool, msgs[1].Role)
	assert.Equal(t, call.ID, msgs[1].ToolCallID)
	assert.JSONEq(t, `{"order_id":"A-1","status":"shipped"}`, msgs[1].Content)
	assert.Equal(t, "Order A-1 has shipped.", msgs[2].Content)

	reqs := llm.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[0].Tools, 1)
	assert.Equal(t, "lookup_order", reqs[0].Tools[0].Function.Name)
	// The second round sees the tool call and its result.
	require.Len(t, reqs[1].Messages, 3)
	assert.Equal(t, core.RoleTool, reqs[1].Messages[2].Role)
}

func TestModelAgent_ToolRoundsExceeded(t *testing.T) {
	llm := model.NewMockModel("sut", "mock")
	llm.Enqueue(
		core.AssistantMessage("", core.NewToolCall("lookup_order", `{"order_id":"A-1"}`)),
		core.AssistantMessage("", core.NewToolCall("lookup_order", `{"order_id":"A-1"}`)),
	)

	a, err := NewModelAgent(llm, func(o *ModelAgentOptions) {
		o.Tools = []tool.Tool{lookupTool()}
		o.MaxToolRounds = 1
	})
	require.NoError(t, err)

	_, err = a.Call(context.Background(), inputWith(core.UserMessage("where is A-1?")))
	assert.ErrorIs(t, err, ErrToolRoundsExceeded)
}

func TestNewModelAgent_DuplicateTools(t *testing.T) {
	_, err := NewModelAgent(model.NewMockModel("sut", "mock"), func(o *ModelAgentOptions) {
		o.Tools = []tool.Tool{lookupTool(), lookupTool()}
	})
	assert.Error(t, err)
}
