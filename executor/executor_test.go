package executor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
	"github.com/spatnaik17/scenario-agent-testing-sub000/events"
	"github.com/spatnaik17/scenario-agent-testing-sub000/executor"
	"github.com/spatnaik17/scenario-agent-testing-sub000/internal/testutil"
	"github.com/spatnaik17/scenario-agent-testing-sub000/script"
)

func judgeOK() *core.Result { return &core.Result{Success: true, Reasoning: "all criteria met"} }

func newExecutor(t *testing.T, agents []core.Agent, optFns ...func(o *executor.Options)) (*executor.Executor, *testutil.RecordingPublisher) {
	t.Helper()
	pub := &testutil.RecordingPublisher{}
	fns := append([]func(o *executor.Options){func(o *executor.Options) {
		o.Publisher = pub
		o.BatchRunID = "scenariobatch_test"
	}}, optFns...)
	e, err := executor.New("refund", "user asks for a refund", agents, fns...)
	require.NoError(t, err)
	return e, pub
}

func withScript(steps ...script.Step) func(o *executor.Options) {
	return func(o *executor.Options) { o.Script = steps }
}

func TestRun_DefaultScriptVisitsRolesInOrder(t *testing.T) {
	var order []string
	rec := func(role core.AgentRole, ret core.AgentReturn) core.Agent {
		return testutil.NewFuncAgent(role, func(context.Context, *core.AgentInput) (core.AgentReturn, error) {
			order = append(order, role.String())
			return ret, nil
		})
	}
	// Roster order deliberately differs from turn order.
	e, _ := newExecutor(t, []core.Agent{
		rec(core.AgentRoleJudge, judgeOK()),
		rec(core.AgentRoleAgent, core.Text("Sure, I can help")),
		rec(core.AgentRoleUser, core.Text("I want a refund")),
	})

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"user", "agent", "judge"}, order)
	assert.True(t, res.Success)
	assert.Equal(t, "all criteria met", res.Reasoning)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, core.UserMessage("I want a refund"), res.Messages[0])
	assert.Equal(t, core.AssistantMessage("Sure, I can help"), res.Messages[1])
	assert.NotNil(t, res.PassedCriteria)
	assert.NotNil(t, res.FailedCriteria)
}

func TestRun_MaxTurnsFailure(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "hello?")
	agent := testutil.Echo(core.AgentRoleAgent, "hi")

	e, pub := newExecutor(t, []core.Agent{user, agent}, func(o *executor.Options) { o.MaxTurns = 3 })

	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, "Reached maximum turns (3) without conclusion", res.Reasoning)
	assert.Len(t, res.Messages, 6)
	assert.Equal(t, 3, user.Calls())
	assert.Equal(t, 3, agent.Calls())
	assert.Equal(t, 3, e.State().CurrentTurn())

	last, ok := pub.Last().(*events.RunFinished)
	require.True(t, ok)
	assert.Equal(t, events.StatusFailed, last.Status)
	assert.Equal(t, events.VerdictFailure, last.Results.Verdict)
}

func TestRun_MaxTurnsReportsJudgeCriteriaAsFailed(t *testing.T) {
	judge := &testutil.CriteriaJudge{
		ScriptedAgent: testutil.Echo(core.AgentRoleJudge, "still evaluating"),
		List:          []string{"agent apologizes", "agent offers refund"},
	}
	e, _ := newExecutor(t, []core.Agent{judge}, func(o *executor.Options) { o.MaxTurns = 1 })

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, []string{"agent apologizes", "agent offers refund"}, res.FailedCriteria)
	assert.Empty(t, res.PassedCriteria)
}

func TestRun_SkipsMissingRoles(t *testing.T) {
	agent := testutil.Echo(core.AgentRoleAgent, "hello")
	judge := testutil.NewScriptedAgent(core.AgentRoleJudge, judgeOK())

	e, _ := newExecutor(t, []core.Agent{agent, judge})
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Equal(t, 1, agent.Calls())
	assert.Empty(t, agent.Inputs()[0].Messages)
	assert.Equal(t, 0, e.State().CurrentTurn())
}

func TestRun_MultipleAgentsPerRoleInRosterOrder(t *testing.T) {
	var order []string
	named := func(name string) core.Agent {
		return testutil.NewFuncAgent(core.AgentRoleAgent, func(context.Context, *core.AgentInput) (core.AgentReturn, error) {
			order = append(order, name)
			return core.Text(name), nil
		})
	}
	judge := testutil.NewScriptedAgent(core.AgentRoleJudge, judgeOK())

	e, _ := newExecutor(t, []core.Agent{named("first"), judge, named("second"), testutil.Echo(core.AgentRoleUser, "hi")})
	res, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Len(t, res.Messages, 3)
	// The judge saw everything produced by the others.
	assert.Len(t, judge.Inputs()[0].NewMessages, 3)
}

func TestRun_NewMessagesExcludeOwnOutput(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "generated question")
	agent := testutil.Echo(core.AgentRoleAgent, "answer")

	e, _ := newExecutor(t, []core.Agent{user, agent}, withScript(
		script.User("seeded question"),
		script.Agent(),
		script.User(),
		script.Agent(),
		script.Succeed(),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)

	inputs := agent.Inputs()
	require.Len(t, inputs, 2)
	assert.Equal(t, []core.Message{core.UserMessage("seeded question")}, inputs[0].NewMessages)
	assert.Equal(t, []core.Message{core.UserMessage("generated question")}, inputs[1].NewMessages)
	assert.Len(t, inputs[1].Messages, 3)

	// The simulator saw the seeded literal and the agent's reply, but not its own output.
	uin := user.Inputs()
	require.Len(t, uin, 1)
	assert.Equal(t, []core.Message{core.UserMessage("seeded question"), core.AssistantMessage("answer")}, uin[0].NewMessages)
	assert.Equal(t, 1, e.State().CurrentTurn())
}

func TestRun_ContentDoesNotCallAgent(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "unused")
	agent := testutil.Echo(core.AgentRoleAgent, "unused")

	e, _ := newExecutor(t, []core.Agent{user, agent}, withScript(
		script.User("hi"),
		script.Agent("hello there"),
		script.Succeed("done"),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, user.Calls())
	assert.Equal(t, 0, agent.Calls())
	assert.Equal(t, []core.Message{core.UserMessage("hi"), core.AssistantMessage("hello there")}, res.Messages)
	assert.Equal(t, "done", res.Reasoning)
}

func TestRun_AgentMessageWithToolCalls(t *testing.T) {
	call := core.NewToolCall("lookup_order", `{"id":"42"}`)
	agent := testutil.Echo(core.AgentRoleAgent, "unused")

	e, _ := newExecutor(t, []core.Agent{agent}, withScript(
		script.User("where is my order?"),
		script.AgentMessage(core.AssistantMessage("", call)),
		script.Message(core.ToolMessage(call.ID, `{"status":"shipped"}`)),
		script.Expect(func(s core.StateView) bool { return s.HasToolCall("lookup_order") }, "agent did not look up the order"),
		script.Succeed(),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	got, ok := e.State().LastToolCall("lookup_order")
	require.True(t, ok)
	assert.Equal(t, call, got)
}

func TestRun_ScriptForcesNewTurnWhenRoleConsumed(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "again")
	e, _ := newExecutor(t, []core.Agent{user}, withScript(
		script.User(),
		script.User(),
		script.Succeed(),
	))

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, user.Calls())
	assert.Equal(t, 1, e.State().CurrentTurn())
}

func TestRun_MissingRoleIsConfigError(t *testing.T) {
	e, pub := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "hi")}, withScript(
		script.User(),
		script.Judge(),
	))

	res, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, core.AgentRoleJudge, cfgErr.Role)
	assert.Contains(t, err.Error(), "judge")

	last, ok := pub.Last().(*events.RunFinished)
	require.True(t, ok)
	assert.Equal(t, events.StatusError, last.Status)
}

func TestRun_ScriptExhaustedFails(t *testing.T) {
	e, _ := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "hi")}, withScript(script.User()))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Reasoning, "without conclusion")
	assert.Contains(t, res.Reasoning, "script.Proceed()")
}

func TestRun_ProceedWithTurnBudget(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "q")
	agent := testutil.Echo(core.AgentRoleAgent, "a")

	var turns []int
	var steps int
	e, _ := newExecutor(t, []core.Agent{user, agent}, withScript(
		script.Proceed(
			script.Turns(2),
			script.OnTurn(func(_ context.Context, s *core.State) error {
				turns = append(turns, s.CurrentTurn())
				return nil
			}),
			script.OnStep(func(context.Context, *core.State) error {
				steps++
				return nil
			}),
		),
		script.Succeed(),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Messages, 4)
	assert.Equal(t, []int{1}, turns)
	assert.Equal(t, 4, steps)
	assert.Equal(t, 1, e.State().CurrentTurn())
}

func TestRun_ProceedFinishesPartialTurn(t *testing.T) {
	user := testutil.Echo(core.AgentRoleUser, "q")
	agent := testutil.Echo(core.AgentRoleAgent, "a")

	e, _ := newExecutor(t, []core.Agent{user, agent}, withScript(
		script.User("seed"),
		script.Proceed(script.Turns(1)),
		script.Succeed(),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, user.Calls())
	assert.Equal(t, 1, agent.Calls())
	assert.Len(t, res.Messages, 2)
}

func TestRun_OnStepErrorAborts(t *testing.T) {
	boom := errors.New("invariant violated")
	e, pub := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "q")}, withScript(
		script.Proceed(script.OnStep(func(context.Context, *core.State) error { return boom })),
	))

	_, err := e.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, events.StatusError, pub.Last().(*events.RunFinished).Status)
}

func TestRun_JudgeScriptRequestsJudgment(t *testing.T) {
	judge := testutil.NewScriptedAgent(core.AgentRoleJudge, core.Text("continue"), judgeOK())
	user := testutil.Echo(core.AgentRoleUser, "q")

	e, _ := newExecutor(t, []core.Agent{user, judge}, withScript(
		script.Proceed(script.Turns(1)),
		script.Judge(),
	))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)

	inputs := judge.Inputs()
	require.Len(t, inputs, 2)
	assert.False(t, inputs[0].JudgmentRequest)
	assert.True(t, inputs[1].JudgmentRequest)
}

func TestRun_AgentErrorAborts(t *testing.T) {
	boom := errors.New("model unavailable")
	agent := &testutil.ScriptedAgent{AgentRole: core.AgentRoleAgent, Errs: []error{boom}}

	reg := prometheus.NewRegistry()
	e, pub := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "q"), agent}, func(o *executor.Options) {
		o.Metrics = executor.NewMetrics(reg)
	})

	res, err := e.Run(context.Background())
	assert.Nil(t, res)
	require.ErrorIs(t, err, boom)

	var agentErr *core.AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, core.AgentRoleAgent, agentErr.Role)
	assert.Equal(t, 1, agentErr.Index)
	assert.Equal(t, 1, agent.Calls())

	finished := pub.Last().(*events.RunFinished)
	assert.Equal(t, events.StatusError, finished.Status)
	assert.Contains(t, finished.Results.Error, "model unavailable")

	n, err := promtestutil.GatherAndCount(reg, "scenario_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_InvalidReturnIsConfigError(t *testing.T) {
	agent := testutil.NewFuncAgent(core.AgentRoleAgent, func(context.Context, *core.AgentInput) (core.AgentReturn, error) {
		return nil, nil
	})
	e, _ := newExecutor(t, []core.Agent{agent})

	_, err := e.Run(context.Background())
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRun_InvalidReturnAppendsNothing(t *testing.T) {
	agent := testutil.NewFuncAgent(core.AgentRoleAgent, func(context.Context, *core.AgentInput) (core.AgentReturn, error) {
		return core.Messages{
			core.AssistantMessage("partial"),
			{Role: core.RoleTool, Content: "orphan"},
		}, nil
	})
	e, pub := newExecutor(t, []core.Agent{agent}, withScript(script.Agent()))

	_, err := e.Run(context.Background())
	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, e.State().Len())
	assert.NotContains(t, pub.Types(), events.TypeMessageSnapshot)
}

func TestRun_SeededMessagesAreHistoryOnly(t *testing.T) {
	tests := []struct {
		name string
		opts func(o *executor.Options)
	}{
		{
			name: "script step",
			opts: withScript(
				script.Seed(core.SystemMessage("you are a bank bot")),
				script.User("hi"),
				script.Agent(),
				script.Succeed(),
			),
		},
		{
			name: "initial messages",
			opts: func(o *executor.Options) {
				o.InitialMessages = []core.Message{core.SystemMessage("you are a bank bot")}
				o.Script = script.Script{script.User("hi"), script.Agent(), script.Succeed()}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent := testutil.Echo(core.AgentRoleAgent, "hello")
			e, _ := newExecutor(t, []core.Agent{agent}, tt.opts)

			res, err := e.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Success)

			inputs := agent.Inputs()
			require.Len(t, inputs, 1)
			assert.Equal(t, []core.Message{core.UserMessage("hi")}, inputs[0].NewMessages)
			assert.Equal(t, []core.Message{core.SystemMessage("you are a bank bot"), core.UserMessage("hi")}, inputs[0].Messages)
		})
	}
}

func TestRun_InvalidInitialMessageAborts(t *testing.T) {
	e, _ := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleAgent, "hello")}, func(o *executor.Options) {
		o.InitialMessages = []core.Message{{Role: "narrator", Content: "once upon a time"}}
	})

	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrInvalidMessage)
}

func TestRun_PublishesLifecycleEventsInOrder(t *testing.T) {
	e, pub := newExecutor(t, []core.Agent{
		testutil.Echo(core.AgentRoleUser, "q"),
		testutil.Echo(core.AgentRoleAgent, "a"),
		testutil.NewScriptedAgent(core.AgentRoleJudge, judgeOK()),
	})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []events.EventType{
		events.TypeRunStarted,
		events.TypeMessageSnapshot,
		events.TypeMessageSnapshot,
		events.TypeRunFinished,
	}, pub.Types())

	evs := pub.Events()
	started := evs[0].(*events.RunStarted)
	assert.Equal(t, "refund", started.Metadata.Name)
	assert.Equal(t, "user asks for a refund", started.Metadata.Description)
	assert.Equal(t, e.RunID(), started.ScenarioRunID)
	assert.Equal(t, "scenariobatch_test", started.BatchRunID)
	assert.Equal(t, events.DefaultSetID, started.ScenarioSetID)

	assert.Len(t, evs[1].(*events.MessageSnapshot).Messages, 1)
	assert.Len(t, evs[2].(*events.MessageSnapshot).Messages, 2)
	assert.Equal(t, events.StatusSuccess, evs[3].(*events.RunFinished).Status)

	for i := 1; i < len(evs); i++ {
		assert.GreaterOrEqual(t, evs[i].Meta().Timestamp, evs[i-1].Meta().Timestamp)
	}
}

func TestRun_DeliversThroughBus(t *testing.T) {
	rep := &testutil.RecordingReporter{}
	e, err := executor.New("refund", "desc", []core.Agent{
		testutil.NewScriptedAgent(core.AgentRoleJudge, judgeOK()),
	}, func(o *executor.Options) { o.Reporter = rep })
	require.NoError(t, err)
	require.NotNil(t, e.Bus())

	_, err = e.Run(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Bus().Drain(ctx))
	assert.True(t, e.Bus().IsCompleted())
	assert.Equal(t, []events.EventType{events.TypeRunStarted, events.TypeRunFinished}, rep.Types())
}

func TestRun_Timing(t *testing.T) {
	slow := testutil.NewFuncAgent(core.AgentRoleAgent, func(context.Context, *core.AgentInput) (core.AgentReturn, error) {
		time.Sleep(5 * time.Millisecond)
		return core.Text("done"), nil
	})
	e, _ := newExecutor(t, []core.Agent{slow}, withScript(script.Agent(), script.Succeed()))

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.AgentTime, 5*time.Millisecond)
	assert.GreaterOrEqual(t, res.TotalTime, res.AgentTime)
}

func TestRun_CacheKeyReachesAgents(t *testing.T) {
	var got string
	agent := testutil.NewFuncAgent(core.AgentRoleAgent, func(ctx context.Context, _ *core.AgentInput) (core.AgentReturn, error) {
		got, _ = core.CacheKeyFromContext(ctx)
		return judgeOK(), nil
	})
	e, _ := newExecutor(t, []core.Agent{agent}, func(o *executor.Options) { o.CacheKey = "refund-v1" })

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "refund-v1", got)
}

func TestRun_OnlyOnce(t *testing.T) {
	e, _ := newExecutor(t, []core.Agent{testutil.NewScriptedAgent(core.AgentRoleJudge, judgeOK())})
	_, err := e.Run(context.Background())
	require.NoError(t, err)

	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, executor.ErrAlreadyRun)
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	agent := testutil.Echo(core.AgentRoleAgent, "a")
	e, _ := newExecutor(t, []core.Agent{agent})
	_, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, agent.Calls())
}

func TestNew_RejectsNilAgent(t *testing.T) {
	_, err := executor.New("x", "y", []core.Agent{nil})
	assert.ErrorIs(t, err, executor.ErrNilAgent)
}

func TestStep_PhaseTransitions(t *testing.T) {
	judge := testutil.NewScriptedAgent(core.AgentRoleJudge, core.Text("hmm"), judgeOK())
	e, _ := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "q"), judge})
	ctx := context.Background()

	phase, role := e.Phase()
	assert.Equal(t, executor.PhaseAwaitingRole, phase)
	assert.Equal(t, core.AgentRoleUser, role)

	sr, err := e.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Message{core.UserMessage("q")}, sr.Messages)

	// The agent role has no registration and is skipped on the way to the judge.
	sr, err = e.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Message{core.AssistantMessage("hmm")}, sr.Messages)

	// User is consumed and popped, agent and judge follow.
	sr, err = e.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, e.State().CurrentTurn())
	assert.Len(t, sr.Messages, 1)

	sr, err = e.Step(ctx)
	require.NoError(t, err)
	require.NotNil(t, sr.Result)
	assert.True(t, sr.Result.Success)

	phase, _ = e.Phase()
	assert.Equal(t, executor.PhaseTerminated, phase)

	_, err = e.Step(ctx)
	assert.ErrorIs(t, err, executor.ErrTerminated)
}

func TestCallbacks_FireAroundAgentCalls(t *testing.T) {
	var seen []executor.CallbackType
	cm := executor.NewCallbackManager()
	for _, ct := range []executor.CallbackType{executor.CallbackBeforeAgent, executor.CallbackAfterAgent, executor.CallbackOnMessage, executor.CallbackOnTurn} {
		cm.Register(executor.NewFunctionCallback(ct, func(_ context.Context, c *executor.CallbackContext) error {
			seen = append(seen, c.CallbackType)
			return nil
		}))
	}

	e, _ := newExecutor(t, []core.Agent{testutil.Echo(core.AgentRoleUser, "q")}, func(o *executor.Options) {
		o.Callbacks = cm
		o.Script = script.Script{script.User(), script.User(), script.Succeed()}
	})
	_, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []executor.CallbackType{
		executor.CallbackBeforeAgent, executor.CallbackAfterAgent, executor.CallbackOnMessage,
		executor.CallbackOnTurn,
		executor.CallbackBeforeAgent, executor.CallbackAfterAgent, executor.CallbackOnMessage,
	}, seen)
}

func TestCallbacks_BeforeAgentErrorAborts(t *testing.T) {
	veto := errors.New("veto")
	cm := executor.NewCallbackManager()
	cm.Register(executor.NewFunctionCallback(executor.CallbackBeforeAgent, func(context.Context, *executor.CallbackContext) error {
		return veto
	}))

	agent := testutil.Echo(core.AgentRoleAgent, "a")
	e, _ := newExecutor(t, []core.Agent{agent}, func(o *executor.Options) { o.Callbacks = cm })
	_, err := e.Run(context.Background())
	assert.ErrorIs(t, err, veto)
	assert.Equal(t, 0, agent.Calls())
}

func TestLoggingCallback(t *testing.T) {
	var lines []string
	cb := executor.NewLoggingCallback(executor.CallbackOnTurn, func(m string) { lines = append(lines, m) })
	require.NoError(t, cb.Execute(context.Background(), &executor.CallbackContext{RunID: "r1", Turn: 2}))
	assert.Equal(t, []string{"[on_turn] run=r1 turn=2"}, lines)
}
