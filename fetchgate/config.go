/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"net/http"
	"time"

	"github.com/gatewise/go-fetchgate/config"
)

const cfgDefaultKeyPrefix = "fetchGate"

const (
	cfgKeyConcurrency             = "concurrency"
	cfgKeyTimeout                 = "timeout"
	cfgKeyDefaultRequest          = "defaultRequest"
	cfgKeyRateLimitsEnabled       = "rateLimits.enabled"
	cfgKeyRateLimitsLimit         = "rateLimits.limit"
	cfgKeyRateLimitsBurst         = "rateLimits.burst"
	cfgKeyRateLimitsWaitTimeout   = "rateLimits.waitTimeout"
	cfgKeyLogEnabled              = "log.enabled"
	cfgKeyLogMode                 = "log.mode"
	cfgKeyLogSlowRequestThreshold = "log.slowRequestThreshold"
	cfgKeyMetricsEnabled          = "metrics.enabled"
)

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// DefaultRequestConfig represents configuration options merged under every request.
type DefaultRequestConfig struct {
	// UserAgent is set in requests that carry no User-Agent header.
	UserAgent string `mapstructure:"userAgent"`

	// Headers are merged under per-request headers.
	Headers map[string]string `mapstructure:"headers"`
}

// RateLimitConfig represents configuration options for client-side rate limiting.
type RateLimitConfig struct {
	// Enabled is a flag that enables rate limiting.
	Enabled bool `mapstructure:"enabled"`

	// Limit is the maximum number of requests per second.
	Limit int `mapstructure:"limit"`

	// Burst allows temporary spikes in request rate.
	Burst int `mapstructure:"burst"`

	// WaitTimeout is the maximum time to wait for the limiter.
	WaitTimeout time.Duration `mapstructure:"waitTimeout"`
}

// LogConfig represents configuration options for logging outgoing requests.
type LogConfig struct {
	// Enabled is a flag that enables logging.
	Enabled bool `mapstructure:"enabled"`

	// Mode of logging: none, all, failed.
	Mode LoggingMode `mapstructure:"mode"`

	// SlowRequestThreshold is a threshold for slow requests.
	SlowRequestThreshold time.Duration `mapstructure:"slowRequestThreshold"`
}

// MetricsConfig represents configuration options for collecting metrics.
type MetricsConfig struct {
	// Enabled is a flag that enables metrics.
	Enabled bool `mapstructure:"enabled"`
}

// Config represents a set of configuration parameters for the gated client.
// Configuration can be loaded in different formats (YAML, JSON) using config.Loader.
type Config struct {
	// Concurrency is the maximum number of simultaneously in-flight requests.
	Concurrency int `mapstructure:"concurrency"`

	// Timeout is applied to requests without a per-request timeout. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`

	// DefaultRequest holds options merged under every request.
	DefaultRequest DefaultRequestConfig `mapstructure:"defaultRequest"`

	// RateLimits is a configuration for client-side rate limiting.
	RateLimits RateLimitConfig `mapstructure:"rateLimits"`

	// Log is a configuration for logging outgoing requests.
	Log LogConfig `mapstructure:"log"`

	// Metrics is a configuration for collecting metrics.
	Metrics MetricsConfig `mapstructure:"metrics"`

	keyPrefix string
}

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return &Config{keyPrefix: cfgDefaultKeyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		keyPrefix:   cfgDefaultKeyPrefix,
		Concurrency: DefaultConcurrency(),
		Timeout:     DefaultTimeout,
		Log:         LogConfig{Mode: LoggingModeAll},
	}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyConcurrency, DefaultConcurrency())
	dp.SetDefault(cfgKeyTimeout, DefaultTimeout)
	dp.SetDefault(cfgKeyLogMode, string(LoggingModeAll))
}

// Set sets configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	var err error

	if c.Concurrency, err = dp.GetInt(cfgKeyConcurrency); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return newConfigurationError("concurrency must be at least 1")
	}

	if c.Timeout, err = dp.GetDuration(cfgKeyTimeout); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return newConfigurationError("timeout must be non-negative")
	}

	if err = dp.UnmarshalKey(cfgKeyDefaultRequest, &c.DefaultRequest); err != nil {
		return err
	}

	if err = c.setRateLimitsConfig(dp); err != nil {
		return err
	}
	if err = c.setLogConfig(dp); err != nil {
		return err
	}

	if c.Metrics.Enabled, err = dp.GetBool(cfgKeyMetricsEnabled); err != nil {
		return err
	}
	return nil
}

func (c *Config) setRateLimitsConfig(dp config.DataProvider) error {
	var err error

	if c.RateLimits.Enabled, err = dp.GetBool(cfgKeyRateLimitsEnabled); err != nil {
		return err
	}
	if !c.RateLimits.Enabled {
		return nil
	}

	if c.RateLimits.Limit, err = dp.GetInt(cfgKeyRateLimitsLimit); err != nil {
		return err
	}
	if c.RateLimits.Limit <= 0 {
		return newConfigurationError("rate limit must be positive")
	}

	if c.RateLimits.Burst, err = dp.GetInt(cfgKeyRateLimitsBurst); err != nil {
		return err
	}
	if c.RateLimits.Burst < 0 {
		return newConfigurationError("rate limit burst must be non-negative")
	}

	if c.RateLimits.WaitTimeout, err = dp.GetDuration(cfgKeyRateLimitsWaitTimeout); err != nil {
		return err
	}
	if c.RateLimits.WaitTimeout < 0 {
		return newConfigurationError("rate limit wait timeout must be non-negative")
	}
	return nil
}

func (c *Config) setLogConfig(dp config.DataProvider) error {
	var err error

	if c.Log.Enabled, err = dp.GetBool(cfgKeyLogEnabled); err != nil {
		return err
	}

	var modeStr string
	if modeStr, err = dp.GetStringFromSet(cfgKeyLogMode,
		[]string{string(LoggingModeNone), string(LoggingModeAll), string(LoggingModeFailed)}, false); err != nil {
		return err
	}
	c.Log.Mode = LoggingMode(modeStr)

	if c.Log.SlowRequestThreshold, err = dp.GetDuration(cfgKeyLogSlowRequestThreshold); err != nil {
		return err
	}
	if c.Log.SlowRequestThreshold < 0 {
		return newConfigurationError("log slow request threshold must be non-negative")
	}
	return nil
}

// TransportOpts returns options for the logging round tripper.
func (c *LogConfig) TransportOpts() LoggingRoundTripperOpts {
	return LoggingRoundTripperOpts{
		Mode:                 c.Mode,
		SlowRequestThreshold: c.SlowRequestThreshold,
	}
}

// TransportOpts returns options for the rate limiting round tripper.
func (c *RateLimitConfig) TransportOpts() RateLimitingRoundTripperOpts {
	return RateLimitingRoundTripperOpts{
		Burst:       c.Burst,
		WaitTimeout: c.WaitTimeout,
	}
}

// Settings builds the initial runtime settings described by the configuration.
func (c *Config) Settings() *Settings {
	var header http.Header
	if len(c.DefaultRequest.Headers) != 0 {
		header = make(http.Header, len(c.DefaultRequest.Headers))
		for key, value := range c.DefaultRequest.Headers {
			header.Set(key, value)
		}
	}
	return newSettings(SettingsSnapshot{
		Concurrency:           c.Concurrency,
		Timeout:               c.Timeout,
		DefaultRequestOptions: RequestOptions{Header: header},
	})
}
