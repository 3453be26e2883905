package anthropic

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
)

func TestBuildMessages_AlternatesRoles(t *testing.T) {
	call := core.NewToolCall("lookup_order", `{"id":"42"}`)
	msgs, err := buildMessages([]core.Message{
		core.SystemMessage("ignored here"),
		core.UserMessage("where is my order?"),
		core.AssistantMessage("checking", call),
		core.ToolMessage(call.ID, "shipped"),
		core.UserMessage("thanks"),
		core.AssistantMessage("you're welcome"),
	})
	require.NoError(t, err)

	require.Len(t, msgs, 4)
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[1].Role)
	assert.Len(t, msgs[1].Content, 2)
	// Tool result and the following user text share one user turn.
	assert.Equal(t, anthropic.MessageParamRoleUser, msgs[2].Role)
	assert.Len(t, msgs[2].Content, 2)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, msgs[3].Role)
}

func TestBuildMessages_InvalidToolArguments(t *testing.T) {
	_, err := buildMessages([]core.Message{core.AssistantMessage("", core.NewToolCall("x", "{not json"))})
	assert.Error(t, err)
}

func TestBuildParams(t *testing.T) {
	m := NewModelFromClient(&anthropic.Client{})
	req := model.Request{
		Instructions: "judge the conversation",
		Messages:     []core.Message{core.SystemMessage("extra"), core.UserMessage("q")},
		Tools: []model.ToolDefinition{model.NewFunctionTool("finish_test", "end the test", map[string]any{
			"type":       "object",
			"properties": map[string]any{"verdict": map[string]any{"type": "string"}},
			"required":   []any{"verdict"},
		})},
		ToolChoice: &model.ToolChoice{Name: "finish_test"},
	}

	params, err := m.buildParams(req)
	require.NoError(t, err)
	require.Len(t, params.System, 2)
	assert.Equal(t, "judge the conversation", params.System[0].Text)
	require.Len(t, params.Tools, 1)
	require.NotNil(t, params.Tools[0].OfTool)
	assert.Equal(t, "finish_test", params.Tools[0].OfTool.Name)
	assert.Equal(t, []string{"verdict"}, params.Tools[0].OfTool.InputSchema.Required)
	require.NotNil(t, params.ToolChoice.OfTool)
	assert.Equal(t, "finish_test", params.ToolChoice.OfTool.Name)

	req.ToolChoice = &model.ToolChoice{Mode: model.ToolChoiceNone}
	params, err = m.buildParams(req)
	require.NoError(t, err)
	assert.Empty(t, params.Tools)
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"a"}, requiredFields([]string{"a"}))
	assert.Equal(t, []string{"a", "b"}, requiredFields([]any{"a", 1, "b"}))
	assert.Nil(t, requiredFields(nil))
}
