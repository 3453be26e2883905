package model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/spatnaik17/scenario-agent-testing-sub000/logging"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// CircuitBreakerOptions configures a CircuitBreakerModel.
type CircuitBreakerOptions struct {
	// MaxFailures is the number of consecutive failures before the circuit opens.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before half-opening.
	Timeout time.Duration
	// Interval is the cyclic period of the closed state for clearing failure counts.
	Interval time.Duration
	Logger   logging.Logger
}

// CircuitBreakerModel wraps a Model with circuit breaker protection so a
// failing provider makes simulator and judge calls fail fast instead of
// stalling every remaining scenario. Streaming partials are not forwarded:
// the wrapped call is collected and its final response emitted once.
type CircuitBreakerModel struct {
	inner   Model
	breaker *gobreaker.CircuitBreaker[*Response]
}

var _ Model = (*CircuitBreakerModel)(nil)

// NewCircuitBreakerModel wraps inner with a circuit breaker.
func NewCircuitBreakerModel(inner Model, optFns ...func(o *CircuitBreakerOptions)) *CircuitBreakerModel {
	opts := CircuitBreakerOptions{
		MaxFailures: defaultCBMaxFailures,
		Timeout:     defaultCBTimeout,
		Interval:    defaultCBInterval,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	logger := logging.OrNoOp(opts.Logger)

	info := inner.Info()
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "model:" + info.Provider + "/" + info.Name,
		MaxRequests: 1,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a provider failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &CircuitBreakerModel{inner: inner, breaker: cb}
}

// Generate implements Model. Calls are routed through the circuit breaker.
func (m *CircuitBreakerModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		resp, err := m.breaker.Execute(func() (*Response, error) {
			return Collect(ctx, m.inner, req)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				err = fmt.Errorf("model %q circuit open: %w", m.inner.Info().Name, err)
			}
			errCh <- err
			return
		}
		respCh <- *resp
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *CircuitBreakerModel) Info() Info { return m.inner.Info() }

// State returns the current circuit breaker state for monitoring.
func (m *CircuitBreakerModel) State() gobreaker.State { return m.breaker.State() }
