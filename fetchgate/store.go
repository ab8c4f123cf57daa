/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// Store is the admission-control core. It guarantees that at most
// Settings.Concurrency transport calls are in flight at any moment, queues
// submissions beyond that capacity in strict FIFO order and drains the queue
// as slots free up.
//
// The active counter, the queue and the drain decision are guarded by a single
// mutex: checking capacity, taking a slot and popping the queue head are one
// atomic unit.
type Store struct {
	mu     sync.Mutex
	active int
	limit  int
	queue  []*pendingRequest

	settings  *Settings
	transport Transport
	collector MetricsCollector
}

// pendingRequest is a queued submission waiting for a free slot. It carries
// data and a result channel, not executable logic; the Store decides when and
// how to run it.
type pendingRequest struct {
	ctx      context.Context
	resource string
	opts     RequestOptions
	resC     chan settledResult
}

type settledResult struct {
	resp *http.Response
	err  error
}

// StoreOpts provides options for NewStoreWithOpts.
type StoreOpts struct {
	// Collector is a metrics collector. Metrics are not collected when nil.
	Collector MetricsCollector
}

// NewStore creates a new admission-control store gated by the given settings.
func NewStore(settings *Settings, transport Transport) *Store {
	return NewStoreWithOpts(settings, transport, StoreOpts{})
}

// NewStoreWithOpts creates a new admission-control store with options.
func NewStoreWithOpts(settings *Settings, transport Transport, opts StoreOpts) *Store {
	collector := opts.Collector
	if collector == nil {
		collector = disabledMetricsCollector{}
	}
	return &Store{
		limit:     settings.Snapshot().Concurrency,
		settings:  settings,
		transport: transport,
		collector: collector,
	}
}

// Submit gates one transport call against the concurrency limit. If a slot is
// available the call executes immediately; otherwise the submission is queued
// and the calling goroutine blocks until the store admits it and the call
// settles. The per-request timeout guard is armed only when execution begins,
// never while the submission sits in the queue.
//
// If ctx is done while the submission is still queued, Submit returns ctx.Err()
// right away; the queue entry keeps its position and is discarded without a
// transport call when its turn comes.
func (s *Store) Submit(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
	s.mu.Lock()
	if s.active < s.limit {
		s.active++
		active := s.active
		s.mu.Unlock()
		s.collector.ObserveActiveRequests(active)
		return s.execute(ctx, resource, opts)
	}
	p := &pendingRequest{ctx: ctx, resource: resource, opts: opts, resC: make(chan settledResult, 1)}
	s.queue = append(s.queue, p)
	queueLen := len(s.queue)
	s.mu.Unlock()
	s.collector.ObserveQueueLength(queueLen)

	select {
	case res := <-p.resC:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status returns a read-only diagnostic snapshot of the store.
func (s *Store) Status() Status {
	cfg := s.settings.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Concurrency:    s.limit,
		ActiveRequests: s.active,
		QueueLength:    len(s.queue),
		Config:         cfg,
	}
}

// setLimit changes the concurrency limit. Raising it admits as many queued
// submissions as the new headroom allows.
func (s *Store) setLimit(limit int) {
	s.mu.Lock()
	s.limit = limit
	var admitted []*pendingRequest
	for s.active < s.limit && len(s.queue) > 0 {
		admitted = append(admitted, s.popLocked())
	}
	s.mu.Unlock()
	for _, p := range admitted {
		s.launch(p)
	}
}

// execute performs one admitted transport call. The caller must have taken a
// slot already; the slot is released on settlement whatever the result is.
func (s *Store) execute(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
	defer s.settle()

	snap := s.settings.Snapshot()
	merged := mergeOptions(snap.DefaultRequestOptions, opts)

	timeout := merged.Timeout
	if timeout == 0 {
		timeout = snap.Timeout
	}
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.transport.Do(reqCtx, resource, merged)
	if err != nil && timeout > 0 &&
		errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = &TimeoutError{Timeout: timeout, Inner: err}
	}
	s.collector.RequestDuration(requestStatus(err), start)
	return resp, err
}

// settle releases the slot held by a finished (or abandoned) request and
// admits the queue head when there is capacity for it. Decrementing the
// counter and making the drain decision happen under one lock so that two
// concurrent settlements can never both claim the same freed slot.
func (s *Store) settle() {
	s.mu.Lock()
	s.active--
	active, queueLen := s.active, len(s.queue)
	var p *pendingRequest
	if queueLen > 0 && s.active < s.limit {
		p = s.popLocked()
		active, queueLen = s.active, len(s.queue)
	}
	s.mu.Unlock()

	s.collector.ObserveActiveRequests(active)
	s.collector.ObserveQueueLength(queueLen)
	if p != nil {
		s.launch(p)
	}
}

// popLocked removes the queue head and takes a slot for it.
func (s *Store) popLocked() *pendingRequest {
	p := s.queue[0]
	s.queue = s.queue[1:]
	s.active++
	return p
}

// launch starts execution of an admitted queued submission on its own
// goroutine. A submission abandoned by its caller is discarded and its slot is
// released immediately, letting the next queued one in.
func (s *Store) launch(p *pendingRequest) {
	if p.ctx.Err() != nil {
		p.resC <- settledResult{err: p.ctx.Err()}
		s.settle()
		return
	}
	go func() {
		resp, err := s.execute(p.ctx, p.resource, p.opts)
		p.resC <- settledResult{resp: resp, err: err}
	}()
}

// withLimit creates a store with its own counters and the given concurrency
// limit, sharing the settings, transport and collector. It is used by the
// batch runner to honor a per-call concurrency override without touching the
// global configuration.
func (s *Store) withLimit(limit int) *Store {
	return &Store{
		limit:     limit,
		settings:  s.settings,
		transport: s.transport,
		collector: s.collector,
	}
}

// Status is a read-only diagnostic snapshot of the store.
type Status struct {
	// Concurrency is the current concurrency limit.
	Concurrency int

	// ActiveRequests is the number of requests being executed right now.
	ActiveRequests int

	// QueueLength is the number of submissions waiting for a free slot.
	QueueLength int

	// Config is a defensive copy of the current settings.
	Config SettingsSnapshot
}

func requestStatus(err error) string {
	switch {
	case err == nil:
		return metricsStatusOK
	case IsTimeout(err):
		return metricsStatusTimeout
	default:
		return metricsStatusError
	}
}
