/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"net/http"
	"time"
)

// NoTimeout disables the per-request timeout guard when used as
// RequestOptions.Timeout or as the configured default timeout.
const NoTimeout = time.Duration(-1)

// RequestOptions carries per-request parameters for a transport call.
// The zero value means "use configured defaults" for every field.
type RequestOptions struct {
	// Method is an HTTP method. GET is used when empty.
	Method string

	// Header is a set of HTTP headers for the request.
	// Keys set here take precedence over the same keys in the configured defaults.
	Header http.Header

	// Body is a request body. Nil means no body.
	Body []byte

	// Timeout limits the whole transport call including queueing-free execution.
	// Zero means "not set": the configured default timeout is applied.
	// NoTimeout (or a zero configured default) disables the guard entirely.
	Timeout time.Duration
}

// Clone returns a deep copy of the options.
func (o RequestOptions) Clone() RequestOptions {
	res := o
	res.Header = CloneHTTPHeader(o.Header)
	if o.Body != nil {
		res.Body = make([]byte, len(o.Body))
		copy(res.Body, o.Body)
	}
	return res
}

// mergeOptions merges defaults under opts: every field explicitly set in opts
// takes precedence over the corresponding default.
func mergeOptions(defaults, opts RequestOptions) RequestOptions {
	res := opts
	if res.Method == "" {
		res.Method = defaults.Method
	}
	if res.Body == nil {
		res.Body = defaults.Body
	}
	if res.Timeout == 0 {
		res.Timeout = defaults.Timeout
	}
	if len(defaults.Header) != 0 {
		merged := CloneHTTPHeader(defaults.Header)
		for key, values := range opts.Header {
			merged[key] = append([]string(nil), values...)
		}
		res.Header = merged
	}
	return res
}
