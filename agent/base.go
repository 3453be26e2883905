package agent

import (
	"context"
	"maps"
	"time"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/model"
)

// baseAgent holds what model-driven agents share: the model, the system
// prompt and generation settings.
type baseAgent struct {
	role        core.AgentRole
	llm         model.Model
	instruction Instruction
	vars        map[string]any
	temperature *float64
	logger      logging.Logger
}

func (b *baseAgent) Role() core.AgentRole { return b.role }

// systemPrompt renders the instruction with the built-in variables
// ("description", plus extra) layered over the user supplied ones.
func (b *baseAgent) systemPrompt(in *core.AgentInput, extra map[string]any) (string, error) {
	vars := make(map[string]any, len(b.vars)+len(extra)+1)
	maps.Copy(vars, b.vars)
	if in.State != nil {
		vars["description"] = in.State.Description()
	}
	maps.Copy(vars, extra)
	return b.instruction.Resolve(in, vars)
}

// generate sends req to the model and returns the final message.
func (b *baseAgent) generate(ctx context.Context, req model.Request) (core.Message, error) {
	if req.Temperature == nil {
		req.Temperature = b.temperature
	}
	if key, ok := core.CacheKeyFromContext(ctx); ok {
		req.CacheKey = key
	}

	start := time.Now()
	resp, err := model.Collect(ctx, b.llm, req)
	if err != nil {
		b.logger.Warn("Model call failed", "role", b.role.String(), "provider", b.llm.Info().Provider, "error", err)
		return core.Message{}, err
	}
	b.logger.Debug("Model call completed",
		"role", b.role.String(),
		"provider", b.llm.Info().Provider,
		"model", b.llm.Info().Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"finish_reason", resp.FinishReason,
	)
	return resp.Message, nil
}
