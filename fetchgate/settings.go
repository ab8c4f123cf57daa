/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"runtime"
	"sync"
	"time"
)

// DefaultTimeout is a default timeout applied to every request that does not
// carry its own one.
const DefaultTimeout = 30 * time.Second

// DefaultConcurrency returns a default concurrency limit: the number of CPUs
// reported by the host, or 10 when that number is not usable.
func DefaultConcurrency() int {
	if n := runtime.NumCPU(); n >= 1 {
		return n
	}
	return 10
}

// SettingsSnapshot is a defensive copy of the current settings. Mutating it
// never affects the live configuration.
type SettingsSnapshot struct {
	// Concurrency is the maximum number of simultaneously in-flight requests.
	Concurrency int

	// Timeout is applied to requests without a per-request timeout.
	// Zero disables the timeout guard.
	Timeout time.Duration

	// DefaultRequestOptions are merged under per-request options.
	DefaultRequestOptions RequestOptions
}

// SettingsUpdate is a partial settings update. Nil fields are left untouched.
type SettingsUpdate struct {
	Concurrency           *int
	Timeout               *time.Duration
	DefaultRequestOptions *RequestOptions
}

// Settings holds the runtime configuration shared by the Store, the Client and
// the batch runner. All mutations go through Update and are validated
// atomically; readers always get defensive copies.
type Settings struct {
	mu             sync.RWMutex
	concurrency    int
	timeout        time.Duration
	defaultOptions RequestOptions
	initial        SettingsSnapshot
}

// NewSettings creates Settings with library defaults.
func NewSettings() *Settings {
	return newSettings(SettingsSnapshot{
		Concurrency: DefaultConcurrency(),
		Timeout:     DefaultTimeout,
	})
}

func newSettings(snap SettingsSnapshot) *Settings {
	s := &Settings{initial: snap}
	s.apply(snap)
	return s
}

func (s *Settings) apply(snap SettingsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.concurrency = snap.Concurrency
	s.timeout = snap.Timeout
	s.defaultOptions = snap.DefaultRequestOptions.Clone()
}

// Snapshot returns a deep copy of the current settings.
func (s *Settings) Snapshot() SettingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SettingsSnapshot{
		Concurrency:           s.concurrency,
		Timeout:               s.timeout,
		DefaultRequestOptions: s.defaultOptions.Clone(),
	}
}

// Update validates every field present in u and applies them all at once.
// If any present field is invalid, a *ConfigurationError is returned and
// nothing is changed.
func (s *Settings) Update(u SettingsUpdate) error {
	if u.Concurrency != nil && *u.Concurrency < 1 {
		return newConfigurationError("concurrency must be at least 1")
	}
	if u.Timeout != nil && *u.Timeout < 0 && *u.Timeout != NoTimeout {
		return newConfigurationError("timeout must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Concurrency != nil {
		s.concurrency = *u.Concurrency
	}
	if u.Timeout != nil {
		s.timeout = *u.Timeout
	}
	if u.DefaultRequestOptions != nil {
		s.defaultOptions = u.DefaultRequestOptions.Clone()
	}
	return nil
}

// ResetToDefaults restores the snapshot the Settings object was created with.
func (s *Settings) ResetToDefaults() {
	s.apply(s.initial)
}
