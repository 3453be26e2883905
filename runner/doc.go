// Package runner executes scenarios alone or in parallel.
//
// A Runner owns the resources shared across runs: the batch run id, the event
// reporter, the Prometheus metrics and a concurrency limit. Each scenario gets
// its own executor.Executor and its own event bus, so a slow or failing
// collector never blocks another run's conversation.
//
// # Responsibilities
//   - Concurrency limiting across Run, RunAsync and RunAll
//   - Per-run cancellation via Cancel(runID)
//   - Draining each run's event bus before reporting its outcome
//   - Fail-fast batches that cancel the remaining runs on the first failure
//
// Usage:
//
//	r := runner.New(func(o *runner.Options) { o.MaxConcurrentRuns = 4 })
//	outcomes, err := r.RunAll(ctx, []runner.Scenario{
//		{Name: "refund", Description: "...", Agents: agents},
//	})
package runner
