/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// Transport performs one HTTP request. It is the external collaborator gated
// by the Store: it must honor cancellation of the passed context (the abort
// signal) and either return an opaque response or fail with an error.
type Transport interface {
	Do(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error)
}

// TransportFunc is an adapter to allow the use of ordinary functions as Transport.
type TransportFunc func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error)

// Do implements the Transport interface.
func (f TransportFunc) Do(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
	return f(ctx, resource, opts)
}

// HTTPTransport is a Transport backed by an *http.Client.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a Transport performing requests with the given client.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	return &HTTPTransport{client: client}
}

// Do implements the Transport interface.
func (t *HTTPTransport) Do(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, resource, body)
	if err != nil {
		return nil, err
	}
	for key, values := range opts.Header {
		req.Header[key] = append([]string(nil), values...)
	}
	return t.client.Do(req)
}

// CloneHTTPRequest creates a shallow copy of the request along with a deep copy of the Headers.
func CloneHTTPRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = CloneHTTPHeader(req.Header)
	return r
}

// CloneHTTPHeader creates a deep copy of an http.Header.
func CloneHTTPHeader(in http.Header) http.Header {
	if in == nil {
		return nil
	}
	out := make(http.Header, len(in))
	for key, values := range in {
		newValues := make([]string, len(values))
		copy(newValues, values)
		out[key] = newValues
	}
	return out
}
