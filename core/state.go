package core

import "sync"

// NoOrigin is passed to AddMessage for messages not produced by a registered
// agent (script literals, harness seeds). Every agent receives them.
const NoOrigin = -1

// MessageSink is notified of every message appended to a State together with
// the roster index of the agent that produced it (or NoOrigin). The executor
// implements it to fan messages out to per-agent pending buffers.
type MessageSink interface {
	MessageAdded(msg Message, origin int)
}

// StateView is the read-only face of a State handed to agents.
type StateView interface {
	Description() string
	ThreadID() string
	CurrentTurn() int
	Messages() []Message
	LastMessage() (Message, error)
	LastUserMessage() (Message, error)
	LastToolCall(name string) (ToolCall, bool)
	HasToolCall(name string) bool
}

// State is the mutable per-run conversation state. It is created fresh at the
// start of every run and discarded at its end.
//
// Contract:
//   - Messages form an append-only log; reads return copies
//   - AddMessage is the only way to extend the log and notifies the sink
//   - The turn counter never decreases within a run
type State struct {
	description string
	threadID    string
	sink        MessageSink

	mu       sync.RWMutex
	messages []Message
	turn     int
}

var _ StateView = (*State)(nil)

// NewState creates an empty state at turn 0. sink may be nil.
func NewState(description, threadID string, sink MessageSink) *State {
	return &State{description: description, threadID: threadID, sink: sink, messages: []Message{}}
}

// Description returns the scenario intent guiding autonomous agents.
func (s *State) Description() string { return s.description }

// ThreadID returns the correlation id of the conversation.
func (s *State) ThreadID() string { return s.threadID }

// CurrentTurn returns the zero based turn counter.
func (s *State) CurrentTurn() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.turn
}

// AdvanceTurn increments the turn counter and returns the new value.
// Only the owning executor calls it at a turn boundary.
func (s *State) AdvanceTurn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turn++
	return s.turn
}

// AddMessage validates msg, appends a copy to the log and notifies the sink.
// origin is the roster index of the producing agent, or NoOrigin.
func (s *State) AddMessage(msg Message, origin int) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	msg = msg.Clone()

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	if s.sink != nil {
		s.sink.MessageAdded(msg.Clone(), origin)
	}
	return nil
}

// Messages returns a copy of the full conversation log.
func (s *State) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMessages(s.messages)
}

// Len returns the number of messages in the log.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LastMessage returns the most recent message or ErrEmptyState.
func (s *State) LastMessage() (Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return Message{}, ErrEmptyState
	}
	return s.messages[len(s.messages)-1].Clone(), nil
}

// LastUserMessage returns the most recent user message or ErrEmptyState.
func (s *State) LastUserMessage() (Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == RoleUser {
			return s.messages[i].Clone(), nil
		}
	}
	return Message{}, ErrEmptyState
}

// LastToolCall scans the log backwards for the most recent assistant tool
// call to the function called name.
func (s *State) LastToolCall(name string) (ToolCall, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.Role != RoleAssistant {
			continue
		}
		for j := len(m.ToolCalls) - 1; j >= 0; j-- {
			if m.ToolCalls[j].Function.Name == name {
				return m.ToolCalls[j], true
			}
		}
	}
	return ToolCall{}, false
}

// HasToolCall reports whether any assistant message called the function name.
func (s *State) HasToolCall(name string) bool {
	_, ok := s.LastToolCall(name)
	return ok
}
