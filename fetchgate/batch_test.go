/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func makeTestClient(t *testing.T, concurrency int, transport Transport) *Client {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Concurrency = concurrency
	cfg.Timeout = 0
	client, err := NewWithOpts(cfg, Opts{Transport: transport})
	require.NoError(t, err)
	return client
}

func TestFetchList_OutputOrderMatchesInputOrder(t *testing.T) {
	const reqsNum = 30

	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		// Randomized latency so that the completion order differs from the submission order.
		time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		return okResponse(), nil
	})
	client := makeTestClient(t, 8, transport)

	reqs := make([]Request, 0, reqsNum)
	for i := 0; i < reqsNum; i++ {
		reqs = append(reqs, NewRequest(fmt.Sprintf("https://example.com/%d", i)))
	}
	outcomes := client.FetchList(context.Background(), reqs, nil)

	require.Len(t, outcomes, reqsNum)
	for i, outcome := range outcomes {
		require.Equal(t, i, outcome.Index)
		require.Equal(t, fmt.Sprintf("https://example.com/%d", i), outcome.Resource)
		require.True(t, outcome.Success)
		require.NotNil(t, outcome.Response)
		require.NoError(t, outcome.Err)
	}
}

func TestFetchList_EmptyInput(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		t.Error("transport must not be called for an empty batch")
		return nil, errors.New("unexpected call")
	})
	client := makeTestClient(t, 2, transport)

	outcomes := client.FetchList(context.Background(), nil, nil)
	require.NotNil(t, outcomes)
	require.Empty(t, outcomes)
}

func TestFetchList_FailedEntryDoesNotAbortSiblings(t *testing.T) {
	wantErr := errors.New("dns lookup failed")
	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		if strings.HasSuffix(resource, "/bad") {
			return nil, wantErr
		}
		return okResponse(), nil
	})
	client := makeTestClient(t, 2, transport)

	outcomes := client.FetchList(context.Background(), []Request{
		NewRequest("https://example.com/ok"),
		NewRequest("https://example.com/bad"),
		NewRequest("https://example.com/ok2"),
	}, nil)

	require.Len(t, outcomes, 3)
	require.True(t, outcomes[0].Success)
	require.False(t, outcomes[1].Success)
	require.ErrorIs(t, outcomes[1].Err, wantErr)
	require.Nil(t, outcomes[1].Response)
	require.True(t, outcomes[2].Success)
}

func TestFetchList_ConcurrencyOverrideDoesNotLeakIntoGlobalConfig(t *testing.T) {
	var tracker inFlightTracker
	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		tracker.enter()
		defer tracker.leave()
		time.Sleep(2 * time.Millisecond)
		return okResponse(), nil
	})
	client := makeTestClient(t, 8, transport)

	reqs := make([]Request, 0, 20)
	for i := 0; i < 20; i++ {
		reqs = append(reqs, NewRequest("https://example.com"))
	}
	outcomes := client.FetchList(context.Background(), reqs, &BatchOptions{Concurrency: 2})

	require.Len(t, outcomes, 20)
	require.LessOrEqual(t, tracker.max.Load(), int32(2))
	require.Equal(t, 8, client.Status().Concurrency, "batch override must not alter the global configuration")
	require.Equal(t, 8, client.Status().Config.Concurrency)
}

func TestFetchList_SlowRequestsScenario(t *testing.T) {
	// concurrency=2, 5 identical slow requests: exactly 2 execute immediately,
	// 3 queue, every settlement admits the next queued one.
	var tracker inFlightTracker
	var started atomic.Int32
	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		started.Inc()
		tracker.enter()
		defer tracker.leave()
		time.Sleep(20 * time.Millisecond)
		return okResponse(), nil
	})
	client := makeTestClient(t, 2, transport)

	reqs := []Request{
		NewRequest("https://example.com/0"),
		NewRequest("https://example.com/1"),
		NewRequest("https://example.com/2"),
		NewRequest("https://example.com/3"),
		NewRequest("https://example.com/4"),
	}

	doneC := make(chan []Outcome)
	go func() { doneC <- client.FetchList(context.Background(), reqs, nil) }()

	require.Eventually(t, func() bool { return started.Load() == 2 }, time.Second, time.Millisecond,
		"exactly 2 requests must execute immediately")
	require.Eventually(t, func() bool { return client.Status().QueueLength == 3 }, time.Second, time.Millisecond,
		"3 requests must queue")

	outcomes := <-doneC
	require.Len(t, outcomes, 5)
	for i, outcome := range outcomes {
		require.True(t, outcome.Success)
		require.Equal(t, i, outcome.Index)
	}
	require.Equal(t, int32(2), tracker.max.Load())
}

func TestFetchList_TimeoutOutcome(t *testing.T) {
	transport := TransportFunc(func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	client := makeTestClient(t, 2, transport)

	start := time.Now()
	outcomes := client.FetchList(context.Background(), []Request{
		{Resource: "https://example.com", Options: RequestOptions{Timeout: 10 * time.Millisecond}},
	}, nil)

	require.Len(t, outcomes, 1)
	require.False(t, outcomes[0].Success)
	require.True(t, IsTimeout(outcomes[0].Err))
	require.Less(t, time.Since(start), 500*time.Millisecond)

	require.Eventually(t, func() bool { return client.Status().ActiveRequests == 0 }, time.Second, time.Millisecond,
		"the timed out request must not leak an active slot")
}
