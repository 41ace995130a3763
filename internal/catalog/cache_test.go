package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, ttl)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newMiniredisCache(t, time.Minute)
	ctx := context.Background()

	var missed []Course
	hit, err := cache.GetJSON(ctx, coursesCacheKey, &missed)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, cache.SetJSON(ctx, coursesCacheKey, testCourses))

	var cached []Course
	hit, err = cache.GetJSON(ctx, coursesCacheKey, &cached)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, testCourses, cached)
}

func TestCacheDisabledWithoutClient(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.SetJSON(ctx, coursesCacheKey, testCourses))
	var out []Course
	hit, err := cache.GetJSON(ctx, coursesCacheKey, &out)
	require.NoError(t, err)
	require.False(t, hit)

	zeroTTL := NewCache(nil, 0)
	require.NoError(t, zeroTTL.SetJSON(ctx, tutorsCacheKey, testTutors))
}
