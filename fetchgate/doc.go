/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package fetchgate provides a concurrency-limiting wrapper around an HTTP request primitive.
//
// The central component is the admission-control Store: it caps the number of
// simultaneously in-flight requests, queues the excess in strict FIFO order and
// drains the queue as capacity frees up. On top of the Store, Client offers a
// single-request entry point (Fetch), a batch variant that aggregates outcomes
// preserving input order (FetchList), validated runtime reconfiguration
// (Configure) and a diagnostic snapshot (Status).
//
// Per-request timeouts are enforced by the Store itself via context deadlines,
// independent of the underlying transport. Transports are pluggable; the
// default one is an *http.Client wrapped with logging, rate limiting,
// User-Agent and X-Request-ID round trippers.
package fetchgate
