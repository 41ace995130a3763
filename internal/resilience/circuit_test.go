package resilience

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBreakerOpensOnFailureRatio(t *testing.T) {
	ctx := context.Background()
	b := NewBreaker("test", 4, 0.5, time.Minute, zerolog.Nop())

	b.Report(ctx, true)
	b.Report(ctx, false)
	b.Report(ctx, false)
	require.True(t, b.Allow(ctx))

	b.Report(ctx, false)
	require.False(t, b.Allow(ctx))
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	ctx := context.Background()
	b := NewBreaker("test", 1, 0.5, 10*time.Millisecond, zerolog.Nop())

	b.Report(ctx, false)
	require.False(t, b.Allow(ctx))

	time.Sleep(15 * time.Millisecond)
	require.True(t, b.Allow(ctx), "cool-off expired, probe admitted")

	b.Report(ctx, true)
	require.True(t, b.Allow(ctx), "successful probe closes the breaker")
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	b := NewBreaker("test", 1, 0.5, 10*time.Millisecond, zerolog.Nop())

	b.Report(ctx, false)
	time.Sleep(15 * time.Millisecond)
	require.True(t, b.Allow(ctx))

	b.Report(ctx, false)
	require.False(t, b.Allow(ctx), "failed probe reopens immediately")
}

func TestHTTPClientSingleAttempt(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cl := HTTPClient{Client: server.Client()}
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := cl.Do(context.Background(), req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Equal(t, int64(1), calls.Load(), "a 5xx response must not be retried")
}

func TestHTTPClientOpenBreakerShortCircuits(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	breaker := NewBreaker("upstream", 1, 0.5, time.Minute, zerolog.Nop())
	cl := HTTPClient{Client: server.Client(), Breaker: breaker}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := cl.Do(context.Background(), req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	req2, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	_, err = cl.Do(context.Background(), req2)
	require.ErrorIs(t, err, ErrOpenCircuit)
	require.Equal(t, int64(1), calls.Load(), "open breaker must not touch the network")
}
