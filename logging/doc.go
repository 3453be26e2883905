// Package logging provides a minimal logging interface and adapters for the
// scenario framework.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the executor, the event bus and the runner use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ScenarioLogger with run-scoped attributes and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	res, err := scenario.Run(ctx, "refund", "user asks for a refund", agents,
//	    func(o *scenario.Options) { o.Logger = logger })
package logging
