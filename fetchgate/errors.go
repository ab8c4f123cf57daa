/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"errors"
	"fmt"
	"time"
)

// ConfigurationError is returned when an invalid configuration value is passed
// to Settings.Update or found during Config parsing. The previous configuration
// is left untouched in both cases.
type ConfigurationError struct {
	msg string
}

func newConfigurationError(msg string) *ConfigurationError {
	return &ConfigurationError{msg: msg}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.msg
}

// TimeoutError is returned when the store's own timeout guard fires before the
// transport call settles. Inner keeps the error that interrupted the call and
// is context.DeadlineExceeded-compatible for errors.Is checks.
type TimeoutError struct {
	Timeout time.Duration
	Inner   error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s", e.Timeout, e.Inner)
}

// Unwrap returns the next error in the error chain.
func (e *TimeoutError) Unwrap() error {
	return e.Inner
}

// IsTimeout reports whether err was caused by the store's timeout guard.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
