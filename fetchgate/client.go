/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gatewise/go-fetchgate/log"
)

// Client is the public entry point of the library: a concurrency-gated HTTP
// fetcher with validated runtime reconfiguration and diagnostics.
// It is safe for concurrent use by multiple goroutines.
type Client struct {
	settings *Settings
	store    *Store
}

// Opts provides options for NewWithOpts and MustWithOpts functions.
type Opts struct {
	// Transport replaces the whole transport. When set, Delegate and the
	// round-tripper related configuration sections are ignored.
	Transport Transport

	// Delegate is the base http.RoundTripper for the default transport.
	Delegate http.RoundTripper

	// UserAgent is a user agent string. Overrides cfg.DefaultRequest.UserAgent.
	UserAgent string

	// LoggerProvider is a function that provides a context-specific logger.
	LoggerProvider func(ctx context.Context) log.FieldLogger

	// Collector is a metrics collector.
	Collector MetricsCollector
}

// New creates a gated client assembling the default transport chain
// (logging, rate limiting, user agent, request id) from the configuration
// and returns an error if any occurs.
func New(cfg *Config) (*Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// Must is a version of New that panics on error.
func Must(cfg *Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// NewWithOpts creates a gated client with options and returns an error if any occurs.
func NewWithOpts(cfg *Config, opts Opts) (*Client, error) {
	if cfg == nil {
		cfg = NewDefaultConfig()
	}

	transport := opts.Transport
	if transport == nil {
		var err error
		if transport, err = makeDefaultTransport(cfg, opts); err != nil {
			return nil, err
		}
	}

	collector := opts.Collector
	if collector == nil && cfg.Metrics.Enabled {
		collector = NewPrometheusMetricsCollector("")
	}

	settings := cfg.Settings()
	store := NewStoreWithOpts(settings, transport, StoreOpts{Collector: collector})
	return &Client{settings: settings, store: store}, nil
}

// MustWithOpts is a version of NewWithOpts that panics on error.
func MustWithOpts(cfg *Config, opts Opts) *Client {
	client, err := NewWithOpts(cfg, opts)
	if err != nil {
		panic(err)
	}
	return client
}

func makeDefaultTransport(cfg *Config, opts Opts) (Transport, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Log.Enabled {
		logOpts := cfg.Log.TransportOpts()
		logOpts.LoggerProvider = opts.LoggerProvider
		delegate = NewLoggingRoundTripperWithOpts(delegate, logOpts)
	}

	if cfg.RateLimits.Enabled {
		var err error
		delegate, err = NewRateLimitingRoundTripperWithOpts(
			delegate, cfg.RateLimits.Limit, cfg.RateLimits.TransportOpts())
		if err != nil {
			return nil, fmt.Errorf("create rate limiting round tripper: %w", err)
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = cfg.DefaultRequest.UserAgent
	}
	if userAgent != "" {
		delegate = NewUserAgentRoundTripper(delegate, userAgent)
	}

	delegate = NewRequestIDRoundTripper(delegate)

	return NewHTTPTransport(&http.Client{Transport: delegate}), nil
}

// Fetch performs one gated request: it executes immediately when a slot is
// available and queues otherwise. It blocks until the request settles and
// returns the transport response or error verbatim (timeouts as *TimeoutError).
func (c *Client) Fetch(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
	return c.store.Submit(ctx, resource, opts)
}

// FetchList fans a list of requests through the admission-control store and
// returns their outcomes in input order regardless of completion order.
// An empty input short-circuits to an empty result without touching the store.
// A non-nil opts with a positive Concurrency runs the batch under that limit
// through an ephemeral store, leaving the global configuration untouched.
func (c *Client) FetchList(ctx context.Context, reqs []Request, opts *BatchOptions) []Outcome {
	store := c.store
	if opts != nil && opts.Concurrency > 0 {
		store = c.store.withLimit(opts.Concurrency)
	}
	return fetchList(ctx, store, reqs)
}

// Configure applies a validated partial settings update. On validation failure
// a *ConfigurationError is returned and nothing changes. A concurrency change
// takes effect immediately: raising the limit drains queued requests into the
// freed capacity.
func (c *Client) Configure(u SettingsUpdate) error {
	if err := c.settings.Update(u); err != nil {
		return err
	}
	if u.Concurrency != nil {
		c.store.setLimit(*u.Concurrency)
	}
	return nil
}

// ResetToDefaults restores the settings the client was created with.
func (c *Client) ResetToDefaults() {
	c.settings.ResetToDefaults()
	c.store.setLimit(c.settings.Snapshot().Concurrency)
}

// Status returns a read-only diagnostic snapshot of the store and settings.
func (c *Client) Status() Status {
	return c.store.Status()
}
