package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/events"
	"github.com/spatnaik17/scenario-agent-testing-sub000/executor"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
)

// DefaultDrainTimeout bounds how long a finished run waits for its events to
// be delivered.
const DefaultDrainTimeout = 30 * time.Second

// Scenario describes one run: its name, description, roster and any
// executor overrides (script, max turns, cache key, ...).
type Scenario struct {
	Name        string
	Description string
	Agents      []core.Agent
	Options     []func(o *executor.Options)
}

// Outcome is the terminal state of one scenario run.
type Outcome struct {
	RunID    string
	Scenario string
	Result   *core.Result
	Err      error
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// MaxConcurrentRuns limits scenarios executing at the same time.
	MaxConcurrentRuns int
	// FailFast cancels the remaining scenarios of RunAll after the first
	// run that errors or fails.
	FailFast bool
	// DrainTimeout bounds the wait for event delivery after each run.
	DrainTimeout time.Duration
	// BatchRunID is shared by every run; defaults to events.BatchRunID().
	BatchRunID string
	// Reporter delivers lifecycle events; nil disables delivery.
	Reporter events.Reporter
	// Registerer receives run, agent and event delivery metrics when set.
	Registerer prometheus.Registerer
	// Defaults is applied to every scenario before its own options.
	Defaults []func(o *executor.Options)
	// Logging services.
	Logger logging.Logger
}

// Runner executes scenarios, alone or in parallel. Every run owns its own
// executor and event bus; runs share the batch id, reporter and metrics.
// Public methods are safe for concurrent use.
type Runner struct {
	opts         Options
	logger       logging.Logger
	sem          *semaphore.Weighted
	metrics      *executor.Metrics
	eventMetrics *events.Metrics

	activeRuns map[string]context.CancelFunc
	mu         sync.RWMutex
}

// New constructs a Runner with optional overrides.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		MaxConcurrentRuns: 10,
		DrainTimeout:      DefaultDrainTimeout,
		Logger:            logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxConcurrentRuns <= 0 {
		opts.MaxConcurrentRuns = 1
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = DefaultDrainTimeout
	}
	if opts.BatchRunID == "" {
		opts.BatchRunID = events.BatchRunID()
	}

	logger := logging.OrNoOp(opts.Logger)
	if sl, ok := logger.(*logging.ScenarioLogger); ok {
		logger = sl.WithComponent("runner")
	}

	r := &Runner{
		opts:       opts,
		logger:     logger,
		sem:        semaphore.NewWeighted(int64(opts.MaxConcurrentRuns)),
		activeRuns: make(map[string]context.CancelFunc),
	}
	if opts.Registerer != nil {
		r.metrics = executor.NewMetrics(opts.Registerer)
		r.eventMetrics = events.NewMetrics(opts.Registerer)
	}
	return r
}

// BatchRunID returns the batch id shared by every run of this runner.
func (r *Runner) BatchRunID() string { return r.opts.BatchRunID }

// Run executes one scenario and blocks until its verdict is known and its
// events have been delivered.
func (r *Runner) Run(ctx context.Context, sc Scenario) (*core.Result, error) {
	out := r.run(ctx, sc, nil)
	return out.Result, out.Err
}

// RunAsync starts a scenario in the background. The returned channel
// receives exactly one Outcome and is then closed.
func (r *Runner) RunAsync(ctx context.Context, sc Scenario) (string, <-chan Outcome, error) {
	e, err := r.newExecutor(sc)
	if err != nil {
		return "", nil, err
	}

	ctx, untrack := r.track(ctx, e.RunID())
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		defer untrack()
		ch <- r.execute(ctx, sc, e)
	}()
	return e.RunID(), ch, nil
}

// RunAll executes the scenarios in parallel, at most MaxConcurrentRuns at a
// time, and returns their outcomes in input order. With FailFast the first
// errored or failed run cancels the others and its error is returned.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Outcome, error) {
	outcomes := make([]Outcome, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MaxConcurrentRuns)

	for i, sc := range scenarios {
		g.Go(func() error {
			out := r.run(gctx, sc, nil)
			outcomes[i] = out
			if !r.opts.FailFast {
				return nil
			}
			if out.Err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, out.Err)
			}
			if !out.Result.Success {
				return fmt.Errorf("scenario %q: %w", sc.Name, ErrScenarioFailed)
			}
			return nil
		})
	}

	err := g.Wait()
	return outcomes, err
}

// ErrScenarioFailed is returned by RunAll in FailFast mode when a scenario
// completes with a failing verdict.
var ErrScenarioFailed = errors.New("scenario failed")

// Cancel cancels a queued or running run by ID.
func (r *Runner) Cancel(runID string) error {
	r.mu.Lock()
	cancel, exists := r.activeRuns[runID]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}

	cancel()

	return nil
}

// Active returns the number of runs started and not yet finished, including
// runs waiting for a concurrency slot.
func (r *Runner) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.activeRuns)
}

func (r *Runner) newExecutor(sc Scenario) (*executor.Executor, error) {
	return executor.New(sc.Name, sc.Description, sc.Agents, func(o *executor.Options) {
		o.BatchRunID = r.opts.BatchRunID
		o.Reporter = r.opts.Reporter
		o.Metrics = r.metrics
		o.EventMetrics = r.eventMetrics
		o.Logger = r.opts.Logger
		for _, fn := range r.opts.Defaults {
			fn(o)
		}
		for _, fn := range sc.Options {
			fn(o)
		}
	})
}

// run executes e, creating it when nil.
func (r *Runner) run(ctx context.Context, sc Scenario, e *executor.Executor) Outcome {
	if e == nil {
		var err error
		if e, err = r.newExecutor(sc); err != nil {
			return Outcome{Scenario: sc.Name, Err: err}
		}
	}
	ctx, untrack := r.track(ctx, e.RunID())
	defer untrack()
	return r.execute(ctx, sc, e)
}

// track makes runID cancelable through Cancel, including while it waits for
// a concurrency slot. The returned func must be called once the run ends.
func (r *Runner) track(ctx context.Context, runID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.activeRuns[runID] = cancel
	r.mu.Unlock()

	return ctx, func() {
		r.mu.Lock()
		delete(r.activeRuns, runID)
		r.mu.Unlock()
		cancel()
	}
}

// execute waits for a concurrency slot, runs e and always drains its bus.
func (r *Runner) execute(ctx context.Context, sc Scenario, e *executor.Executor) Outcome {
	out := Outcome{RunID: e.RunID(), Scenario: sc.Name}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		out.Err = err
		return out
	}
	defer r.sem.Release(1)

	start := time.Now()
	out.Result, out.Err = e.Run(ctx)
	r.drain(e)

	if out.Err == nil {
		logging.LogRunFinished(r.logger, sc.Name, out.Result.Success, time.Since(start))
	}
	return out
}

func (r *Runner) drain(e *executor.Executor) {
	bus := e.Bus()
	if bus == nil {
		return
	}
	// The run context may already be canceled; delivery gets its own budget.
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.DrainTimeout)
	defer cancel()
	if err := bus.Drain(ctx); err != nil {
		r.logger.Warn("Event delivery incomplete", "run_id", e.RunID(), "error", err)
		bus.Close()
	}
}
