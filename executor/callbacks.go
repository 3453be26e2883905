package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// CallbackType identifies the lifecycle point a callback is attached to.
type CallbackType string

const (
	// CallbackBeforeAgent fires right before an agent is called.
	CallbackBeforeAgent CallbackType = "before_agent"

	// CallbackAfterAgent fires after an agent call returned successfully.
	CallbackAfterAgent CallbackType = "after_agent"

	// CallbackOnMessage fires after a message was appended to the conversation.
	CallbackOnMessage CallbackType = "on_message"

	// CallbackOnTurn fires when a new turn starts.
	CallbackOnTurn CallbackType = "on_turn"

	// CallbackOnError fires when an agent call fails.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext carries the details of a lifecycle point.
type CallbackContext struct {
	RunID string

	CallbackType CallbackType

	// Turn is the turn active when the callback fired.
	Turn int

	// Role and AgentIndex identify the agent for agent callbacks.
	Role       core.AgentRole
	AgentIndex int

	// Message is set for CallbackOnMessage.
	Message *core.Message

	// Duration is the agent call latency for CallbackAfterAgent and CallbackOnError.
	Duration time.Duration

	// Err is set for CallbackOnError.
	Err error
}

// Callback observes executor lifecycle points. Returning an error from a
// before/after agent or turn callback aborts the run; errors from message and
// error callbacks are ignored.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, cbCtx *CallbackContext) error
}

// FunctionCallback adapts a plain function to Callback.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, cbCtx *CallbackContext) error
}

// NewFunctionCallback creates a callback of callbackType backed by fn.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, cbCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type implements Callback.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute implements Callback.
func (c *FunctionCallback) Execute(ctx context.Context, cbCtx *CallbackContext) error {
	return c.fn(ctx, cbCtx)
}

// CallbackManager groups callbacks by type and runs them in registration order.
// Register callbacks before the run starts; it is not safe for concurrent
// registration.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// Register adds cb under its type.
func (cm *CallbackManager) Register(cb Callback) {
	t := cb.Type()
	cm.callbacks[t] = append(cm.callbacks[t], cb)
}

// Execute runs all callbacks of type t and stops at the first error.
// A nil manager runs nothing.
func (cm *CallbackManager) Execute(ctx context.Context, t CallbackType, cbCtx *CallbackContext) error {
	if cm == nil {
		return nil
	}
	for _, cb := range cm.callbacks[t] {
		if err := cb.Execute(ctx, cbCtx); err != nil {
			return fmt.Errorf("%s callback: %w", t, err)
		}
	}
	return nil
}

// LoggingCallback writes a one-line summary of every lifecycle point of its type.
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a LoggingCallback writing through logger.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type implements Callback.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute implements Callback.
func (c *LoggingCallback) Execute(_ context.Context, cbCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}
	switch c.callbackType {
	case CallbackOnMessage:
		if cbCtx.Message != nil {
			c.logger(fmt.Sprintf("[%s] run=%s turn=%d role=%s content=%q",
				c.callbackType, cbCtx.RunID, cbCtx.Turn, cbCtx.Message.Role, cbCtx.Message.Content))
		}
	case CallbackOnTurn:
		c.logger(fmt.Sprintf("[%s] run=%s turn=%d", c.callbackType, cbCtx.RunID, cbCtx.Turn))
	default:
		c.logger(fmt.Sprintf("[%s] run=%s turn=%d agent=%d role=%s",
			c.callbackType, cbCtx.RunID, cbCtx.Turn, cbCtx.AgentIndex, cbCtx.Role))
	}
	return nil
}
