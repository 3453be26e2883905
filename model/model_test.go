package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

func userReq(text string) Request {
	return Request{Messages: []core.Message{core.UserMessage(text)}}
}

func TestMockModel_CannedAndDefaultResponses(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("hello", "hi there")

	resp, err := Collect(context.Background(), m, userReq("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Message.Content)
	assert.Equal(t, "stop", resp.FinishReason)

	resp, err = Collect(context.Background(), m, userReq("other"))
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: other", resp.Message.Content)
	assert.Len(t, m.Requests(), 2)
}

func TestMockModel_QueueTakesPrecedence(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	call := core.NewToolCall("finish_test", `{"verdict":"success"}`)
	m.Enqueue(core.AssistantMessage("", call))
	m.AddResponse("hello", "unused")

	resp, err := Collect(context.Background(), m, userReq("hello"))
	require.NoError(t, err)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	assert.Equal(t, []core.ToolCall{call}, resp.Message.ToolCalls)
}

func TestMockModel_EnqueuedError(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	boom := errors.New("rate limited")
	m.EnqueueError(boom)

	_, err := Collect(context.Background(), m, userReq("x"))
	assert.ErrorIs(t, err, boom)
}

func TestMockModel_NoMessages(t *testing.T) {
	_, err := Collect(context.Background(), NewMockModel("m", "mock"), Request{})
	assert.Error(t, err)
}

func TestMockModel_StreamsPartials(t *testing.T) {
	m := NewMockModel("mock-1", "mock")
	m.AddResponse("hi", "abc")

	respCh, errCh := m.Generate(context.Background(), Request{Messages: []core.Message{core.UserMessage("hi")}, Stream: true})

	var partial string
	var final *Response
	for r := range respCh {
		if r.Partial {
			partial += r.Message.Content
			continue
		}
		final = &r
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, "abc", partial)
	require.NotNil(t, final)
	assert.Equal(t, "abc", final.Message.Content)
}

func TestLastRequest(t *testing.T) {
	m := NewMockModel("m", "mock")
	_, ok := m.LastRequest()
	assert.False(t, ok)

	_, err := Collect(context.Background(), m, Request{Instructions: "be nice", Messages: []core.Message{core.UserMessage("q")}})
	require.NoError(t, err)
	req, ok := m.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "be nice", req.Instructions)
}

type silentModel struct{}

func (silentModel) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response)
	errCh := make(chan error)
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (silentModel) Info() Info { return Info{Name: "silent", Provider: "test"} }

func TestCollect_NoFinalResponse(t *testing.T) {
	_, err := Collect(context.Background(), silentModel{}, Request{})
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestJoinTextAndLastUserText(t *testing.T) {
	msgs := []core.Message{core.UserMessage("a"), core.AssistantMessage("b"), core.UserMessage("c")}
	assert.Equal(t, "a\nb\nc", JoinText(msgs))
	assert.Equal(t, "c", LastUserText(Request{Messages: msgs}))
	assert.Equal(t, "", LastUserText(Request{}))
}

func TestCircuitBreakerModel_PassesThrough(t *testing.T) {
	inner := NewMockModel("m", "mock")
	inner.AddResponse("q", "a")
	cb := NewCircuitBreakerModel(inner)

	resp, err := Collect(context.Background(), cb, userReq("q"))
	require.NoError(t, err)
	assert.Equal(t, "a", resp.Message.Content)
	assert.Equal(t, inner.Info(), cb.Info())
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestCircuitBreakerModel_OpensAfterFailures(t *testing.T) {
	inner := NewMockModel("m", "mock")
	for i := 0; i < 3; i++ {
		inner.EnqueueError(errors.New("provider down"))
	}
	cb := NewCircuitBreakerModel(inner, func(o *CircuitBreakerOptions) {
		o.MaxFailures = 2
		o.Timeout = time.Minute
	})

	for i := 0; i < 2; i++ {
		_, err := Collect(context.Background(), cb, userReq("q"))
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.State())

	_, err := Collect(context.Background(), cb, userReq("q"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, inner.Requests(), 2)
}
