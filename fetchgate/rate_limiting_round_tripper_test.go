/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRateLimitingRoundTripper(t *testing.T) {
	t.Run("non-positive rate limit is rejected", func(t *testing.T) {
		_, err := NewRateLimitingRoundTripper(http.DefaultTransport, 0)
		require.Error(t, err)
		_, err = NewRateLimitingRoundTripper(http.DefaultTransport, -1)
		require.Error(t, err)
	})

	t.Run("default options are applied", func(t *testing.T) {
		rt, err := NewRateLimitingRoundTripper(http.DefaultTransport, 10)
		require.NoError(t, err)
		require.Equal(t, 10, rt.RateLimit)
		require.Equal(t, DefaultRateLimitingBurst, rt.Burst)
		require.Equal(t, DefaultRateLimitingWaitTimeout, rt.WaitTimeout)
	})
}

func TestRateLimitingRoundTrip(t *testing.T) {
	reqURL, err := url.Parse("https://example.com")
	require.NoError(t, err)
	makeReq := func() *http.Request {
		return &http.Request{Method: http.MethodGet, URL: reqURL, Header: http.Header{}}
	}

	t.Run("requests under the limit pass through", func(t *testing.T) {
		var calls int
		rt, err := NewRateLimitingRoundTripper(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return &http.Response{StatusCode: http.StatusOK}, nil
		}), 1000)
		require.NoError(t, err)

		resp, err := rt.RoundTrip(makeReq())
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 1, calls)
	})

	t.Run("wait timeout produces RateLimitingWaitError", func(t *testing.T) {
		rt, err := NewRateLimitingRoundTripperWithOpts(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK}, nil
		}), 1, RateLimitingRoundTripperOpts{WaitTimeout: 10 * time.Millisecond})
		require.NoError(t, err)

		// The first request consumes the only token in the bucket,
		// the second one cannot be served within the wait timeout.
		_, err = rt.RoundTrip(makeReq())
		require.NoError(t, err)
		_, err = rt.RoundTrip(makeReq())
		var waitErr *RateLimitingWaitError
		require.ErrorAs(t, err, &waitErr)
	})
}
