package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
)

// Registry maps tool names to tools.
type Registry map[string]Tool

// NewRegistry indexes tools by name. Duplicate names are rejected.
func NewRegistry(tools ...Tool) (Registry, error) {
	r := make(Registry, len(tools))
	for _, t := range tools {
		if _, dup := r[t.Name()]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name())
		}
		r[t.Name()] = t
	}
	return r, nil
}

// ExecutorOptions configures Execute.
type ExecutorOptions struct {
	// MaxParallel bounds concurrent tool calls; 0 or less runs all at once.
	MaxParallel int
	Logger      logging.Logger
}

// Execute runs every call against the registry, in parallel, and returns one
// tool message per call in call order. Tool failures, unknown tools and
// panics are reported to the model as {"error": ...} results rather than
// returned, so the conversation can continue.
func (r Registry) Execute(ctx context.Context, calls []core.ToolCall, optFns ...func(o *ExecutorOptions)) []core.Message {
	opts := ExecutorOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	out := make([]core.Message, len(calls))
	if len(calls) == 0 {
		return out
	}

	var g errgroup.Group
	if opts.MaxParallel > 0 {
		g.SetLimit(opts.MaxParallel)
	}

	batchStart := time.Now()
	for i, call := range calls {
		g.Go(func() error {
			start := time.Now()
			result, err := r.call(ctx, call)
			logger.Debug("Tool executed",
				"tool", call.Function.Name,
				"call_id", call.ID,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err != nil,
			)
			if err != nil {
				logger.Warn("Tool call failed", "tool", call.Function.Name, "error", err)
			}
			out[i] = core.ToolMessage(call.ID, encodeResult(result, err))
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug("Tool batch complete",
		"count", len(calls),
		"parallelism", opts.MaxParallel,
		"duration_ms", time.Since(batchStart).Milliseconds(),
	)
	return out
}

func (r Registry) call(ctx context.Context, call core.ToolCall) (result any, err error) {
	name := call.Function.Name
	impl, ok := r[name]
	if !ok {
		return nil, NewToolError(name, "tool not found", CodeNotFound)
	}

	args := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return nil, &ToolError{Tool: name, Message: fmt.Sprintf("invalid arguments: %v", err), Code: CodeValidation}
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &ToolError{Tool: name, Message: fmt.Sprint(rec), Code: CodePanic, Details: string(debug.Stack())}
		}
	}()
	return impl.Call(ctx, args)
}

// encodeResult renders a tool result as message content. Strings pass
// through unchanged; everything else is JSON encoded.
func encodeResult(result any, err error) string {
	if err != nil {
		b, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(b)
	}
	if s, ok := result.(string); ok {
		return s
	}
	b, mErr := json.Marshal(result)
	if mErr != nil {
		b, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("encode result: %v", mErr)})
	}
	return string(b)
}
