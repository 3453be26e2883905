package agent

import (
	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/internal/util"
)

// Provider supplies dynamic instruction text at runtime.
// Implementations can derive instructions from the agent input, environment, etc.
type Provider interface {
	Instruction(in *core.AgentInput) (string, error)
}

// InstructionFunc is a functional adapter to allow ordinary functions to be used as Providers.
type InstructionFunc func(in *core.AgentInput) (string, error)

// Instruction implements Provider.
func (f InstructionFunc) Instruction(in *core.AgentInput) (string, error) { return f(in) }

// Instruction represents either a static template string or a dynamic provider.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static template string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(in *core.AgentInput) (string, error)) Instruction {
	return Instruction{provider: InstructionFunc(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// IsZero reports whether no instruction was configured.
func (i Instruction) IsZero() bool { return i.provider == nil && i.text == "" }

// Resolve returns the instruction text, invoking the provider if needed, and
// renders it as a template over vars.
func (i Instruction) Resolve(in *core.AgentInput, vars map[string]any) (string, error) {
	text := i.text
	if i.provider != nil {
		var err error
		if text, err = i.provider.Instruction(in); err != nil {
			return "", err
		}
	}
	return util.RenderTemplate(text, vars)
}
