package executor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/events"
	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
	"github.com/spatnaik17/scenario-agent-testing-sub000/script"
)

// DefaultMaxTurns bounds runs that never reach a verdict.
const DefaultMaxTurns = 10

var (
	// ErrTerminated is returned when stepping a run that already has a verdict.
	ErrTerminated = errors.New("scenario run already terminated")

	// ErrAlreadyRun is returned when Run is called twice on the same Executor.
	ErrAlreadyRun = errors.New("executor already run")

	// ErrNilAgent is returned by New when the roster contains a nil agent.
	ErrNilAgent = errors.New("nil agent in roster")
)

const scriptExhaustedReasoning = "Reached end of script without conclusion, add one of the following to the end of the script:\n\n" +
	"- script.Proceed() to let the simulation continue to play out\n" +
	"- script.Judge() to force criteria judgement\n" +
	"- script.Succeed() or script.Fail() to end the test with an explicit result"

// Phase is the scheduler state of a run.
type Phase int

const (
	// PhaseAwaitingRole means a role of the current turn is still pending.
	PhaseAwaitingRole Phase = iota
	// PhaseTurnBoundary means every role of the current turn was visited.
	PhaseTurnBoundary
	// PhaseTerminated means the run has a verdict.
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingRole:
		return "awaiting_role"
	case PhaseTurnBoundary:
		return "turn_boundary"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Options configures an Executor.
type Options struct {
	// MaxTurns is the turn limit; zero or negative means DefaultMaxTurns.
	MaxTurns int

	// Script drives the run; nil means script.Default().
	Script script.Script

	// InitialMessages seed the log before the script starts. Agents see
	// them in their history but never as new messages.
	InitialMessages []core.Message

	// Verbose logs every appended message at info level.
	Verbose bool

	// Debug logs scheduler transitions at debug level.
	Debug bool

	// CacheKey is propagated to agents through the call context
	// (see core.CacheKeyFromContext).
	CacheKey string

	// ThreadID overrides the generated conversation thread id.
	ThreadID string

	// SetID groups runs on the event endpoint; defaults to events.DefaultSetID.
	SetID string

	// BatchRunID overrides the process-wide batch id.
	BatchRunID string

	// Publisher receives the lifecycle events. When nil a per-run events.Bus
	// delivering to Reporter is created.
	Publisher events.Publisher

	// Reporter is the event transport of the per-run bus; nil disables delivery.
	Reporter events.Reporter

	// EventMaxRetries and EventBaseDelay tune the per-run bus.
	EventMaxRetries int
	EventBaseDelay  time.Duration

	// EventMetrics records bus delivery statistics.
	EventMetrics *events.Metrics

	// Metrics records run and agent call statistics.
	Metrics *Metrics

	// Callbacks observes lifecycle points.
	Callbacks *CallbackManager

	Logger logging.Logger
}

// Executor runs one scenario. It is single use: create a new Executor for
// every run. The scheduler is cooperative and single threaded; exactly one
// agent call is in flight at any time.
type Executor struct {
	name        string
	description string
	agents      []core.Agent
	opts        Options
	logger      logging.Logger

	runID   string
	state   *core.State
	bus     *events.Bus
	emitter *events.Emitter

	// Per-turn bookkeeping.
	pendingRoles []core.AgentRole
	consumed     []bool
	// Messages each agent has not seen yet, indexed like agents.
	pendingMessages [][]core.Message

	// Set while seeding; suppresses fan-out to pending buffers.
	seeding bool

	result     *core.Result
	running    atomic.Bool
	startedAt  time.Time
	agentTimes []time.Duration
}

var (
	_ script.Controller = (*Executor)(nil)
	_ core.MessageSink  = (*Executor)(nil)
)

// New creates an executor for the scenario name with the given roster.
func New(name, description string, agents []core.Agent, optFns ...func(o *Options)) (*Executor, error) {
	opts := Options{
		MaxTurns:        DefaultMaxTurns,
		SetID:           events.DefaultSetID,
		EventMaxRetries: events.DefaultMaxRetries,
		EventBaseDelay:  events.DefaultBaseDelay,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Script == nil {
		opts.Script = script.Default()
	}
	if opts.SetID == "" {
		opts.SetID = events.DefaultSetID
	}
	if opts.BatchRunID == "" {
		opts.BatchRunID = events.BatchRunID()
	}
	if opts.ThreadID == "" {
		opts.ThreadID = core.NewThreadID()
	}
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilAgent, i)
		}
	}

	runID := events.NewRunID()
	logger := logging.OrNoOp(opts.Logger)
	if sl, ok := logger.(*logging.ScenarioLogger); ok {
		logger = sl.WithComponent("executor").WithRun(opts.BatchRunID, runID)
	}

	e := &Executor{
		name:            name,
		description:     description,
		agents:          slices.Clone(agents),
		opts:            opts,
		logger:          logger,
		runID:           runID,
		consumed:        make([]bool, len(agents)),
		pendingMessages: make([][]core.Message, len(agents)),
		agentTimes:      make([]time.Duration, len(agents)),
	}

	pub := opts.Publisher
	if pub == nil {
		e.bus = events.NewBus(opts.Reporter, func(o *events.BusOptions) {
			o.MaxRetries = opts.EventMaxRetries
			o.BaseDelay = opts.EventBaseDelay
			o.Logger = logger
			o.Metrics = opts.EventMetrics
		})
		pub = e.bus
	}
	e.emitter = events.NewEmitter(pub, name, runID, func(o *events.EmitterOptions) {
		o.BatchRunID = opts.BatchRunID
		o.SetID = opts.SetID
	})

	e.state = core.NewState(description, opts.ThreadID, e)
	e.resetTurn()
	return e, nil
}

// RunID returns the unique id of this run.
func (e *Executor) RunID() string { return e.runID }

// Bus returns the per-run event bus, or nil when a Publisher was supplied.
// Callers drain it before exiting so every event is attempted.
func (e *Executor) Bus() *events.Bus { return e.bus }

// State implements script.Controller.
func (e *Executor) State() *core.State { return e.state }

// Phase returns the scheduler state and, for PhaseAwaitingRole, the role at
// the head of the pending list.
func (e *Executor) Phase() (Phase, core.AgentRole) {
	switch {
	case e.result != nil:
		return PhaseTerminated, 0
	case len(e.pendingRoles) == 0:
		return PhaseTurnBoundary, 0
	default:
		return PhaseAwaitingRole, e.pendingRoles[0]
	}
}

// Run executes the script and returns the verdict. When a step fails the
// run is aborted: RunFinished is published with ERROR status and the error
// is returned.
func (e *Executor) Run(ctx context.Context) (*core.Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	ctx = core.WithCacheKey(ctx, e.opts.CacheKey)

	e.startedAt = time.Now()
	e.logger.Info("Scenario run started", "scenario", e.name, "max_turns", e.opts.MaxTurns)
	e.emitter.RunStarted(e.name, e.description)

	res, err := e.runScript(ctx)
	if err != nil {
		e.logger.Error("Scenario run aborted", "scenario", e.name, "error", err)
		e.emitter.RunFinished(nil, err)
		e.opts.Metrics.recordRun("error", e.state.CurrentTurn())
		return nil, err
	}

	res = e.finalize(res)
	e.result = res

	status := "failed"
	if res.Success {
		status = "success"
	}
	e.emitter.RunFinished(res, nil)
	e.opts.Metrics.recordRun(status, e.state.CurrentTurn())
	return res, nil
}

func (e *Executor) runScript(ctx context.Context) (*core.Result, error) {
	for _, msg := range e.opts.InitialMessages {
		if err := e.Seed(ctx, msg); err != nil {
			return nil, err
		}
	}
	for i, st := range e.opts.Script {
		if st == nil {
			return nil, fmt.Errorf("script step %d is nil", i)
		}
		out, err := st(ctx, e)
		if err != nil {
			return nil, err
		}
		if res, ok := out.Result(); ok {
			return res, nil
		}
	}
	return e.failWithoutConclusion(scriptExhaustedReasoning), nil
}

// finalize fills in the message snapshot and timing of a terminal result.
func (e *Executor) finalize(res *core.Result) *core.Result {
	if res.Messages == nil {
		res = res.WithMessages(e.state.Messages())
	}
	if res.PassedCriteria == nil || res.FailedCriteria == nil {
		res = res.WithCriteria(nonNil(res.PassedCriteria), nonNil(res.FailedCriteria))
	}
	return res.WithTiming(time.Since(e.startedAt), e.agentUnderTestTime())
}

// agentUnderTestTime sums the call time of agents playing the agent role.
func (e *Executor) agentUnderTestTime() time.Duration {
	var total time.Duration
	for i, a := range e.agents {
		if a.Role() == core.AgentRoleAgent {
			total += e.agentTimes[i]
		}
	}
	return total
}

// Step performs one scheduler step, opening a new turn when the current one
// is exhausted. It returns the appended messages, or a terminal result.
func (e *Executor) Step(ctx context.Context) (*StepResult, error) {
	return e.step(ctx, true, nil)
}

// StepResult is the outcome of one agent call.
type StepResult struct {
	Messages []core.Message
	Result   *core.Result
}

// step returns nil when the turn is exhausted and nextTurn is false.
func (e *Executor) step(ctx context.Context, nextTurn bool, onTurn script.Callback) (*StepResult, error) {
	if e.result != nil {
		return nil, ErrTerminated
	}
	for {
		if len(e.pendingRoles) == 0 {
			if !nextTurn {
				return nil, nil
			}
			if err := e.newTurn(ctx); err != nil {
				return nil, err
			}
			if onTurn != nil {
				if err := onTurn(ctx, e.state); err != nil {
					return nil, err
				}
			}
			if e.state.CurrentTurn() >= e.opts.MaxTurns {
				res := e.failWithoutConclusion(fmt.Sprintf("Reached maximum turns (%d) without conclusion", e.opts.MaxTurns))
				e.result = res
				return &StepResult{Result: res}, nil
			}
		}

		role := e.pendingRoles[0]
		idx, ok := e.nextAgentFor(role)
		if !ok {
			e.pendingRoles = e.pendingRoles[1:]
			if e.opts.Debug {
				e.logger.Debug("Role skipped", "role", role.String(), "turn", e.state.CurrentTurn())
			}
			continue
		}
		e.consumed[idx] = true
		return e.callAgent(ctx, idx, role, false)
	}
}

// Proceed implements script.Controller.
func (e *Executor) Proceed(ctx context.Context, opts script.ProceedOptions) (*core.Result, error) {
	initial := e.state.CurrentTurn()
	for {
		nextTurn := opts.Turns == nil || e.state.CurrentTurn()+1 < initial+*opts.Turns
		sr, err := e.step(ctx, nextTurn, opts.OnTurn)
		if err != nil {
			return nil, err
		}
		if sr == nil {
			return nil, nil
		}
		if opts.OnStep != nil {
			if err := opts.OnStep(ctx, e.state); err != nil {
				return nil, err
			}
		}
		if sr.Result != nil {
			return sr.Result, nil
		}
	}
}

// CallRole implements script.Controller. Unlike autonomous stepping, it
// clears role from the pending roles even when another agent of that role is
// still unconsumed this turn.
func (e *Executor) CallRole(ctx context.Context, role core.AgentRole, content *core.Message, judgmentRequest bool) (*core.Result, error) {
	if e.result != nil {
		return nil, ErrTerminated
	}
	idx, ok := e.nextAgentFor(role)
	if !ok {
		if err := e.newTurn(ctx); err != nil {
			return nil, err
		}
		if idx, ok = e.nextAgentFor(role); !ok {
			text := ""
			if content != nil {
				text = content.Content
			}
			return nil, core.MissingRoleError(role, text)
		}
	}
	e.consumed[idx] = true
	e.pendingRoles = slices.DeleteFunc(e.pendingRoles, func(r core.AgentRole) bool { return r == role })

	if content != nil {
		return nil, e.AddMessage(ctx, *content)
	}
	sr, err := e.callAgent(ctx, idx, role, judgmentRequest)
	if err != nil {
		return nil, err
	}
	return sr.Result, nil
}

// Seed implements script.Controller. The message joins the log without
// being delivered to any agent's pending buffer.
func (e *Executor) Seed(_ context.Context, msg core.Message) error {
	e.seeding = true
	defer func() { e.seeding = false }()
	return e.state.AddMessage(msg, core.NoOrigin)
}

// AddMessage implements script.Controller. The message is delivered to every
// agent's pending buffer.
func (e *Executor) AddMessage(_ context.Context, msg core.Message) error {
	return e.state.AddMessage(msg, core.NoOrigin)
}

// Succeed implements script.Controller.
func (e *Executor) Succeed(reasoning string) *core.Result {
	return core.NewSuccessResult(e.state.Messages(), reasoning)
}

// Fail implements script.Controller.
func (e *Executor) Fail(reasoning string) *core.Result {
	return core.NewFailureResult(e.state.Messages(), reasoning)
}

// MessageAdded implements core.MessageSink: it fans msg out to every agent
// other than origin and publishes a message snapshot.
func (e *Executor) MessageAdded(msg core.Message, origin int) {
	for i := range e.pendingMessages {
		if e.seeding || i == origin {
			continue
		}
		e.pendingMessages[i] = append(e.pendingMessages[i], msg)
	}

	turn := e.state.CurrentTurn()
	if e.opts.Verbose {
		e.logger.Info("Message added", "turn", turn, "role", string(msg.Role), "content", msg.Content, "tool_calls", len(msg.ToolCalls))
	}
	_ = e.opts.Callbacks.Execute(context.Background(), CallbackOnMessage, &CallbackContext{
		RunID:        e.runID,
		CallbackType: CallbackOnMessage,
		Turn:         turn,
		AgentIndex:   origin,
		Message:      &msg,
	})
	e.emitter.MessageSnapshot(e.state.Messages())
}

func (e *Executor) resetTurn() {
	e.pendingRoles = slices.Clone(core.TurnOrder[:])
	clear(e.consumed)
}

func (e *Executor) newTurn(ctx context.Context) error {
	e.resetTurn()
	turn := e.state.AdvanceTurn()
	if e.opts.Debug {
		e.logger.Debug("Turn started", "turn", turn)
	}
	return e.opts.Callbacks.Execute(ctx, CallbackOnTurn, &CallbackContext{
		RunID:        e.runID,
		CallbackType: CallbackOnTurn,
		Turn:         turn,
	})
}

// nextAgentFor returns the first unconsumed agent of role in roster order,
// provided role is still pending in the current turn.
func (e *Executor) nextAgentFor(role core.AgentRole) (int, bool) {
	if !slices.Contains(e.pendingRoles, role) {
		return -1, false
	}
	for i, a := range e.agents {
		if a.Role() == role && !e.consumed[i] {
			return i, true
		}
	}
	return -1, false
}

func (e *Executor) callAgent(ctx context.Context, idx int, role core.AgentRole, judgmentRequest bool) (*StepResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	newMessages := e.pendingMessages[idx]
	if newMessages == nil {
		newMessages = []core.Message{}
	}
	e.pendingMessages[idx] = nil

	input := &core.AgentInput{
		ThreadID:        e.state.ThreadID(),
		Messages:        e.state.Messages(),
		NewMessages:     newMessages,
		JudgmentRequest: judgmentRequest,
		State:           e.state,
	}

	cbCtx := &CallbackContext{
		RunID:      e.runID,
		Turn:       e.state.CurrentTurn(),
		Role:       role,
		AgentIndex: idx,
	}
	cbCtx.CallbackType = CallbackBeforeAgent
	if err := e.opts.Callbacks.Execute(ctx, CallbackBeforeAgent, cbCtx); err != nil {
		return nil, err
	}
	if e.opts.Debug {
		e.logger.Debug("Calling agent", "role", role.String(), "agent", idx, "turn", cbCtx.Turn, "new_messages", len(newMessages))
	}

	start := time.Now()
	ret, err := e.agents[idx].Call(ctx, input)
	dur := time.Since(start)
	e.agentTimes[idx] += dur

	if err == nil {
		var msgs []core.Message
		var res *core.Result
		msgs, res, err = core.NormalizeReturn(role, ret)
		if err == nil {
			e.opts.Metrics.recordAgentCall(role.String(), dur, nil)
			logging.LogAgentCall(e.logger, role.String(), idx, dur, nil)
			cbCtx.CallbackType = CallbackAfterAgent
			cbCtx.Duration = dur
			if cbErr := e.opts.Callbacks.Execute(ctx, CallbackAfterAgent, cbCtx); cbErr != nil {
				return nil, cbErr
			}
			return e.applyReturn(idx, msgs, res)
		}
		// Unusable return values are configuration errors, not agent failures.
		e.opts.Metrics.recordAgentCall(role.String(), dur, err)
		return nil, err
	}

	e.opts.Metrics.recordAgentCall(role.String(), dur, err)
	logging.LogAgentCall(e.logger, role.String(), idx, dur, err)
	cbCtx.CallbackType = CallbackOnError
	cbCtx.Duration = dur
	cbCtx.Err = err
	_ = e.opts.Callbacks.Execute(ctx, CallbackOnError, cbCtx)
	return nil, &core.AgentError{Role: role, Index: idx, Err: err}
}

func (e *Executor) applyReturn(idx int, msgs []core.Message, res *core.Result) (*StepResult, error) {
	if res != nil {
		e.result = res
		return &StepResult{Result: res}, nil
	}
	for _, m := range msgs {
		if err := m.Validate(); err != nil {
			return nil, &core.ConfigError{Role: e.agents[idx].Role(), Msg: err.Error()}
		}
	}
	for _, m := range msgs {
		if err := e.state.AddMessage(m, idx); err != nil {
			return nil, &core.ConfigError{Role: e.agents[idx].Role(), Msg: err.Error()}
		}
	}
	return &StepResult{Messages: msgs}, nil
}

// failWithoutConclusion builds the failing verdict of a run that ended
// without a judgment. Every judge criterion is reported as unmet.
func (e *Executor) failWithoutConclusion(reasoning string) *core.Result {
	var failed []string
	for _, a := range e.agents {
		if cp, ok := a.(core.CriteriaProvider); ok && a.Role() == core.AgentRoleJudge {
			failed = append(failed, cp.Criteria()...)
		}
	}
	return core.NewFailureResult(e.state.Messages(), reasoning).WithCriteria([]string{}, nonNil(failed))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
