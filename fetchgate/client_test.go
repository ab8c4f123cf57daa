/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package fetchgate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("hello"))
	}))
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.DefaultRequest.UserAgent = "fetchgate-test/1.0"
	cfg.DefaultRequest.Headers = map[string]string{"X-Tenant": "acme"}
	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Fetch(context.Background(), srv.URL, RequestOptions{})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))

	require.Equal(t, http.MethodGet, gotReq.Method)
	require.Equal(t, "fetchgate-test/1.0", gotReq.Header.Get("User-Agent"))
	require.Equal(t, "acme", gotReq.Header.Get("X-Tenant"))
	require.NotEmpty(t, gotReq.Header.Get("X-Request-ID"))
}

func TestClientFetch_PerRequestOptionsWin(t *testing.T) {
	var gotReq *http.Request
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		gotBody, _ = io.ReadAll(r.Body)
		rw.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.DefaultRequest.Headers = map[string]string{"X-Tenant": "acme", "Accept": "application/json"}
	client := Must(cfg)

	resp, err := client.Fetch(context.Background(), srv.URL, RequestOptions{
		Method: http.MethodPost,
		Header: http.Header{"X-Tenant": {"globex"}},
		Body:   []byte(`{"name":"gopher"}`),
	})
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Equal(t, http.MethodPost, gotReq.Method)
	require.Equal(t, "globex", gotReq.Header.Get("X-Tenant"), "per-request header must win over the default one")
	require.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	require.Equal(t, `{"name":"gopher"}`, string(gotBody))
}

func TestClientConfigureAndStatus(t *testing.T) {
	client, err := NewWithOpts(nil, Opts{Transport: TransportFunc(
		func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
			return okResponse(), nil
		})})
	require.NoError(t, err)

	initial := client.Status()

	require.NoError(t, client.Configure(SettingsUpdate{Concurrency: intPtr(3), Timeout: durationPtr(5 * time.Second)}))
	status := client.Status()
	require.Equal(t, 3, status.Concurrency)
	require.Equal(t, 5*time.Second, status.Config.Timeout)

	err = client.Configure(SettingsUpdate{Concurrency: intPtr(-1)})
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, 3, client.Status().Concurrency, "rejected update must not change anything")

	client.ResetToDefaults()
	status = client.Status()
	require.Equal(t, initial.Concurrency, status.Concurrency)
	require.Equal(t, initial.Config.Timeout, status.Config.Timeout)
}

func TestClientConfigure_RaisedConcurrencyAdmitsQueued(t *testing.T) {
	unblock := make(chan struct{})
	var tracker inFlightTracker
	client, err := NewWithOpts(nil, Opts{Transport: TransportFunc(
		func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
			tracker.enter()
			defer tracker.leave()
			<-unblock
			return okResponse(), nil
		})})
	require.NoError(t, err)
	require.NoError(t, client.Configure(SettingsUpdate{Concurrency: intPtr(1)}))

	for i := 0; i < 3; i++ {
		go func() {
			_, _ = client.Fetch(context.Background(), "https://example.com", RequestOptions{})
		}()
	}
	require.Eventually(t, func() bool { return client.Status().QueueLength == 2 }, time.Second, time.Millisecond)

	require.NoError(t, client.Configure(SettingsUpdate{Concurrency: intPtr(3)}))
	require.Eventually(t, func() bool { return client.Status().ActiveRequests == 3 }, time.Second, time.Millisecond)
	close(unblock)
}

func TestNewWithOpts_NilConfigUsesDefaults(t *testing.T) {
	client, err := NewWithOpts(nil, Opts{Transport: TransportFunc(
		func(ctx context.Context, resource string, opts RequestOptions) (*http.Response, error) {
			return okResponse(), nil
		})})
	require.NoError(t, err)
	require.GreaterOrEqual(t, client.Status().Concurrency, 1)
	require.Equal(t, DefaultTimeout, client.Status().Config.Timeout)
}

func TestNewWithOpts_InvalidRateLimitConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.RateLimits.Enabled = true
	cfg.RateLimits.Limit = 0
	_, err := NewWithOpts(cfg, Opts{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limit")
}
