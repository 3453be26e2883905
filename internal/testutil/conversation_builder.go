package testutil

import "github.com/spatnaik17/scenario-agent-testing-sub000/core"

// ConversationBuilder provides a fluent helper for constructing message logs.
// Example:
//
//	msgs := NewConversation().User("hi").Assistant("hello").Build()
type ConversationBuilder struct {
	msgs []core.Message
}

// NewConversation creates an empty builder.
func NewConversation() *ConversationBuilder { return &ConversationBuilder{} }

// System appends a system message (chainable).
func (b *ConversationBuilder) System(t string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.SystemMessage(t))
	return b
}

// User appends a user message (chainable).
func (b *ConversationBuilder) User(t string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.UserMessage(t))
	return b
}

// Assistant appends an assistant text message (chainable).
func (b *ConversationBuilder) Assistant(t string) *ConversationBuilder {
	b.msgs = append(b.msgs, core.AssistantMessage(t))
	return b
}

// ToolCall appends an assistant message calling name with args followed by
// the tool result message (chainable).
func (b *ConversationBuilder) ToolCall(name, args, result string) *ConversationBuilder {
	call := core.NewToolCall(name, args)
	b.msgs = append(b.msgs, core.AssistantMessage("", call), core.ToolMessage(call.ID, result))
	return b
}

// Build returns the accumulated messages.
func (b *ConversationBuilder) Build() []core.Message {
	out := make([]core.Message, len(b.msgs))
	copy(out, b.msgs)
	return out
}
