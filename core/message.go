package core

import (
	"fmt"
	"slices"
)

// Role is the conversation role of a Message.
type Role string

const (
	// RoleUser marks messages authored by the (simulated) user.
	RoleUser Role = "user"
	// RoleAssistant marks messages authored by the agent under test or the judge.
	RoleAssistant Role = "assistant"
	// RoleSystem marks system instructions.
	RoleSystem Role = "system"
	// RoleTool marks the result of a tool call.
	RoleTool Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleTool:
		return true
	default:
		return false
	}
}

// ToolCall represents a function call request attached to an assistant message.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"` // "function"
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction describes the concrete function target of a tool call.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // opaque payload, usually JSON
}

// Message is a single conversation entry. Once appended to a State it must be
// treated as immutable; State stores and hands out copies.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// UserMessage creates a user-authored text message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates an assistant message with optional tool calls.
func AssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// SystemMessage creates a system instruction message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// ToolMessage creates the result message for the tool call identified by callID.
func ToolMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// NewToolCall builds a function tool call with a generated id.
func NewToolCall(name, arguments string) ToolCall {
	return ToolCall{
		ID:       "call_" + NewID(),
		Type:     "function",
		Function: ToolCallFunction{Name: name, Arguments: arguments},
	}
}

// Validate checks the role specific invariants of a message.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidMessage, m.Role)
	}

	switch m.Role {
	case RoleTool:
		if m.ToolCallID == "" {
			return fmt.Errorf("%w: tool message without tool_call_id", ErrInvalidMessage)
		}
	case RoleUser, RoleSystem:
		if len(m.ToolCalls) > 0 {
			return fmt.Errorf("%w: %s message cannot carry tool calls", ErrInvalidMessage, m.Role)
		}
	}

	return nil
}

// HasToolCalls reports whether the message requests at least one tool call.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// Clone returns a copy that shares no slices with m.
func (m Message) Clone() Message {
	m.ToolCalls = slices.Clone(m.ToolCalls)
	return m
}

func cloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = m.Clone()
	}
	return out
}
