package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioLogger_RunAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf}).
		WithComponent("executor").
		WithRun("batch-1", "run-1").
		WithAttr("scenario", "refund")

	l.Info("hello", "turn", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "executor", entry["component"])
	assert.Equal(t, "batch-1", entry["batch_run_id"])
	assert.Equal(t, "run-1", entry["scenario_run_id"])
	assert.Equal(t, "refund", entry["scenario"])
	assert.EqualValues(t, 2, entry["turn"])
}

func TestScenarioLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	l.Debug("debug")
	l.Info("info")
	assert.Empty(t, buf.String())

	l.Warn("warn")
	assert.Contains(t, buf.String(), "warn")
}

func TestScenarioLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})
	_ = parent.WithAttr("k", "v").WithComponent("child")

	parent.Info("parent")
	assert.NotContains(t, buf.String(), "k=v")
	assert.NotContains(t, buf.String(), "component=child")
}

func TestScenarioLogger_DomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf})

	LogAgentCall(l, "agent", 1, time.Millisecond, errors.New("boom"))
	LogEventDelivery(l, "SCENARIO_RUN_STARTED", 2, errors.New("503"))
	LogRunFinished(l, "refund", true, time.Second)

	out := buf.String()
	assert.True(t, strings.Contains(out, "Agent call failed") && strings.Contains(out, "error=boom"))
	assert.Contains(t, out, "attempt=2")
	assert.Contains(t, out, "Scenario run finished")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelError, ParseLevel("ERROR"))
	assert.Equal(t, LogLevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
