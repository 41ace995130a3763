package ratelimit

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLimiter(client, "test:"), mr
}

func TestLimiterSlidingWindow(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	window := 2 * time.Second
	max := 2

	for i := 0; i < max; i++ {
		decision, err := limiter.Allow(ctx, "key", window, max)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
		require.Equal(t, max-(i+1), decision.Remaining)
	}

	decision, err := limiter.Allow(ctx, "key", window, max)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Zero(t, decision.Remaining)

	mr.FastForward(window)

	decision, err = limiter.Allow(ctx, "key", window, max)
	require.NoError(t, err)
	require.True(t, decision.Allowed, "window expiry frees the budget")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()

	decision, err := limiter.Allow(ctx, "alpha", time.Second, 1)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = limiter.Allow(ctx, "beta", time.Second, 1)
	require.NoError(t, err)
	require.True(t, decision.Allowed, "a busy key must not starve others")
}

func TestLimiterWithoutClientAllowsAll(t *testing.T) {
	limiter := NewLimiter(nil, "")
	for i := 0; i < 10; i++ {
		decision, err := limiter.Allow(context.Background(), "key", time.Second, 1)
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}
}
