package redis_limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, limit int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger, _ := test.NewNullLogger()
	return NewRedisLimiter(client, limit, "limit:", time.Minute, logger), mr
}

func TestAllowUpToLimit(t *testing.T) {
	rl, _ := newLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "13800000000")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := rl.Allow(ctx, "13800000000")
	require.NoError(t, err)
	assert.False(t, ok)

	current, err := rl.GetCurrent(ctx, "13800000000")
	require.NoError(t, err)
	assert.Equal(t, 3, current)

	ok, err = rl.Allow(ctx, "13900000000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowExpires(t *testing.T) {
	rl, mr := newLimiter(t, 1)
	ctx := context.Background()

	ok, err := rl.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL("limit:k"))

	ok, _ = rl.Allow(ctx, "k")
	assert.False(t, ok)

	mr.FastForward(time.Minute + time.Second)
	ok, err = rl.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetAndMissingKey(t *testing.T) {
	rl, _ := newLimiter(t, 1)
	ctx := context.Background()

	current, err := rl.GetCurrent(ctx, "none")
	require.NoError(t, err)
	assert.Zero(t, current)

	_, _ = rl.Allow(ctx, "k")
	require.NoError(t, rl.Reset(ctx, "k"))
	ok, err := rl.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, rl.GetLimit())
}

func TestAllowFailsWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	logger, _ := test.NewNullLogger()
	rl := NewRedisLimiter(client, 1, "limit:", time.Minute, logger)

	_, err := rl.Allow(context.Background(), "k")
	assert.Error(t, err)
}
