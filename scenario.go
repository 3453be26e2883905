// Package scenario runs simulation tests for conversational agents. A
// scenario pits the agent under test against a simulated user while a judge
// decides whether the conversation met its criteria.
//
// Most callers need only Run:
//
//	res, err := scenario.Run(ctx, "refund request",
//		"A customer wants a refund for a broken kettle.",
//		[]core.Agent{sut, simulator, judge},
//		func(o *scenario.Options) { o.MaxTurns = 5 })
//
// Suites that run many scenarios create a Suite once and share its batch id,
// event reporter and metrics across runs.
package scenario

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/spatnaik17/scenario-agent-testing-sub000/config"
	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/events"
	"github.com/spatnaik17/scenario-agent-testing-sub000/executor"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/runner"
	"github.com/spatnaik17/scenario-agent-testing-sub000/script"
)

// Options configures a Suite or a single Run. Zero fields fall back to
// Config, which itself defaults to config.Load("") (defaults plus
// environment overrides).
type Options struct {
	Config *config.Config

	// MaxTurns overrides Config.MaxTurns when positive.
	MaxTurns int
	// Script drives a single Run; ignored by Suite.RunAll.
	Script script.Script
	// CacheKey overrides Config.CacheKey when set.
	CacheKey string
	// Verbose and Debug are OR-ed with the config flags.
	Verbose bool
	Debug   bool

	// Reporter overrides the HTTP reporter built from Config.Events.
	Reporter events.Reporter
	// Registerer enables Prometheus metrics.
	Registerer prometheus.Registerer
	// Callbacks observes every run.
	Callbacks *executor.CallbackManager

	// Logger defaults to a slog logger when Verbose or Debug is set and to a
	// NoOp logger otherwise.
	Logger logging.Logger
}

// Suite runs scenarios with shared settings.
type Suite struct {
	opts   Options
	cfg    *config.Config
	logger logging.Logger
	runner *runner.Runner
}

// New creates a Suite.
func New(optFns ...func(o *Options)) (*Suite, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			return nil, err
		}
	}

	verbose := opts.Verbose || cfg.Verbose
	debug := opts.Debug || cfg.Debug

	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger(cfg, verbose, debug)
	}

	var reporter events.Reporter
	if opts.Reporter != nil {
		reporter = opts.Reporter
	} else if rep := events.NewHTTPReporter(func(o *events.HTTPReporterOptions) {
		o.Endpoint = cfg.Events.Endpoint
		o.APIKey = cfg.Events.APIKey
	}); rep != nil {
		reporter = rep
	}

	maxTurns := cfg.MaxTurns
	if opts.MaxTurns > 0 {
		maxTurns = opts.MaxTurns
	}
	cacheKey := cfg.CacheKey
	if opts.CacheKey != "" {
		cacheKey = opts.CacheKey
	}

	r := runner.New(func(o *runner.Options) {
		o.MaxConcurrentRuns = cfg.Runner.MaxConcurrentRuns
		o.DrainTimeout = cfg.Runner.DrainTimeout
		o.Reporter = reporter
		o.Registerer = opts.Registerer
		o.Logger = logger
		o.Defaults = []func(o *executor.Options){func(o *executor.Options) {
			o.MaxTurns = maxTurns
			o.CacheKey = cacheKey
			o.Verbose = verbose
			o.Debug = debug
			o.SetID = cfg.Events.SetID
			o.EventMaxRetries = cfg.Events.MaxRetries
			o.EventBaseDelay = cfg.Events.BaseDelay
			o.Callbacks = opts.Callbacks
		}}
	})

	return &Suite{opts: opts, cfg: cfg, logger: logger, runner: r}, nil
}

// Config returns the effective configuration.
func (s *Suite) Config() *config.Config { return s.cfg }

// Runner exposes the underlying runner, e.g. for RunAsync and Cancel.
func (s *Suite) Runner() *runner.Runner { return s.runner }

// Run executes one scenario and waits for its events to be delivered.
// Per-run executor options are applied after the suite settings.
func (s *Suite) Run(ctx context.Context, name, description string, agents []core.Agent, optFns ...func(o *executor.Options)) (*core.Result, error) {
	return s.runner.Run(ctx, runner.Scenario{
		Name:        name,
		Description: description,
		Agents:      agents,
		Options:     optFns,
	})
}

// RunAll executes scenarios in parallel; see runner.Runner.RunAll.
func (s *Suite) RunAll(ctx context.Context, scenarios []runner.Scenario) ([]runner.Outcome, error) {
	return s.runner.RunAll(ctx, scenarios)
}

// Run executes a single scenario: the agents play out the conversation
// according to the script (a single unbounded proceed when none is given)
// until a verdict is reached.
func Run(ctx context.Context, name, description string, agents []core.Agent, optFns ...func(o *Options)) (*core.Result, error) {
	s, err := New(optFns...)
	if err != nil {
		return nil, err
	}
	sc := s.opts.Script
	return s.Run(ctx, name, description, agents, func(o *executor.Options) {
		if sc != nil {
			o.Script = sc
		}
	})
}

func defaultLogger(cfg *config.Config, verbose, debug bool) logging.Logger {
	if !verbose && !debug {
		return logging.NoOpLogger{}
	}
	level := min(logging.ParseLevel(cfg.Logger.Level), logging.LogLevelInfo)
	if debug {
		level = logging.LogLevelDebug
	}
	return logging.NewSlogLogger(level, cfg.Logger.Format, false)
}
