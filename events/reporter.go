package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Reporter delivers a single event to an external observer. A returned error
// makes the Bus retry the delivery.
type Reporter interface {
	Report(ctx context.Context, ev Event) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, ev Event) error

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, ev Event) error { return f(ctx, ev) }

// EventsPath is appended to the configured endpoint.
const EventsPath = "/api/scenario-events"

// Default HTTP reporter settings.
const (
	defaultHTTPTimeout        = 10 * time.Second
	defaultBreakerMaxFailures = uint32(5)
	defaultBreakerTimeout     = 30 * time.Second
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// HTTPReporterOptions configures an HTTPReporter.
type HTTPReporterOptions struct {
	// Endpoint is the base URL of the collector. Empty disables delivery.
	Endpoint string
	// APIKey is sent in the X-Auth-Token header.
	APIKey string
	// Client overrides the HTTP client.
	Client *http.Client
	// BreakerMaxFailures is the number of consecutive failed posts before the
	// breaker opens and further posts fail fast. Zero uses the default.
	BreakerMaxFailures uint32
	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// HTTPReporter posts events as JSON to {Endpoint}/api/scenario-events.
// A circuit breaker stops hammering a collector that keeps failing; while it
// is open Report fails immediately and the Bus treats that like any failure.
type HTTPReporter struct {
	url     string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewHTTPReporter returns a reporter for the configured endpoint, or nil when
// no endpoint is configured so that delivery is silently disabled.
func NewHTTPReporter(optFns ...func(o *HTTPReporterOptions)) *HTTPReporter {
	opts := HTTPReporterOptions{
		BreakerMaxFailures: defaultBreakerMaxFailures,
		BreakerTimeout:     defaultBreakerTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Endpoint == "" {
		return nil
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = defaultBreakerMaxFailures
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "scenario-events",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})

	return &HTTPReporter{
		url:     strings.TrimRight(opts.Endpoint, "/") + EventsPath,
		apiKey:  opts.APIKey,
		client:  opts.Client,
		breaker: cb,
	}
}

// URL returns the full delivery URL.
func (r *HTTPReporter) URL() string { return r.url }

// State returns the current circuit breaker state for monitoring.
func (r *HTTPReporter) State() gobreaker.State { return r.breaker.State() }

// Report implements Reporter.
// A nil reporter accepts and discards every event.
func (r *HTTPReporter) Report(ctx context.Context, ev Event) error {
	if r == nil {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	_, err = r.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, r.post(ctx, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("event collector circuit open: %w", err)
	}
	return err
}

func (r *HTTPReporter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-Auth-Token", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
