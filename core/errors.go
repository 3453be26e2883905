package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyState is returned by history queries on a State without messages.
	ErrEmptyState = errors.New("no messages in scenario state")

	// ErrInvalidMessage is returned when a message violates its role invariants.
	ErrInvalidMessage = errors.New("invalid message")
)

// ConfigError signals a programmer error in how a scenario was assembled
// (missing role in the roster, unusable agent return value, nil agent).
// It is never produced for a scenario that merely fails its criteria.
type ConfigError struct {
	Role AgentRole
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scenario configuration error (%s): %s", e.Role, e.Msg)
}

// MissingRoleError builds the ConfigError raised when a script asks for a
// role that no registered agent plays.
func MissingRoleError(role AgentRole, content string) *ConfigError {
	if content != "" {
		return &ConfigError{
			Role: role,
			Msg: fmt.Sprintf("cannot generate a message for role %q with content %q because no agent with this role was found, add a %s agent to the scenario agents",
				role, content, role),
		}
	}
	return &ConfigError{
		Role: role,
		Msg: fmt.Sprintf("cannot generate a message for role %q because no agent with this role was found, add a %s agent to the scenario agents",
			role, role),
	}
}

// AgentError wraps a failure raised inside an agent call.
type AgentError struct {
	Role  AgentRole
	Index int // position of the agent in the roster
	Err   error
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent %d (%s) failed: %v", e.Index, e.Role, e.Err)
}

func (e *AgentError) Unwrap() error { return e.Err }
