package events

import (
	"os"
	"sync"

	"github.com/spatnaik17/scenario-agent-testing-sub000/core"
)

// BatchRunIDEnv overrides the process wide batch run id.
const BatchRunIDEnv = "SCENARIO_BATCH_RUN_ID"

var (
	batchOnce sync.Once
	batchID   string
)

// BatchRunID returns the identifier shared by every run in this process.
// It is read from SCENARIO_BATCH_RUN_ID or generated once.
func BatchRunID() string {
	batchOnce.Do(func() {
		batchID = os.Getenv(BatchRunIDEnv)
		if batchID == "" {
			batchID = core.NewSortableID("scenariobatch_")
		}
	})
	return batchID
}

// NewRunID returns a fresh scenario run identifier.
func NewRunID() string { return core.NewSortableID("scenariorun_") }
