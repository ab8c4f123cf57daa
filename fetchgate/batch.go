/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"
	"sync"
)

// Request is a resource descriptor with per-request options for batch submission.
type Request struct {
	Resource string
	Options  RequestOptions
}

// NewRequest creates a Request for a bare resource descriptor.
func NewRequest(resource string) Request {
	return Request{Resource: resource}
}

// BatchOptions provides per-call overrides for FetchList.
// They never mutate the global configuration.
type BatchOptions struct {
	// Concurrency overrides the configured concurrency limit for this batch
	// only. Zero or negative means "use the configured limit".
	Concurrency int
}

// fetchList fans the requests through the store and collects outcomes
// preserving input order. It never fails as a whole: a failing entry becomes
// an Outcome with Success=false and its siblings proceed.
func fetchList(ctx context.Context, store *Store, reqs []Request) []Outcome {
	outcomes := make([]Outcome, len(reqs))
	if len(reqs) == 0 {
		return outcomes
	}

	var wg sync.WaitGroup
	for i := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			resp, err := store.Submit(ctx, req.Resource, req.Options)
			outcomes[i] = Outcome{
				Resource: req.Resource,
				Options:  req.Options,
				Response: resp,
				Err:      err,
				Success:  err == nil,
				Index:    i,
			}
		}(i, reqs[i])
	}
	wg.Wait()
	return outcomes
}
