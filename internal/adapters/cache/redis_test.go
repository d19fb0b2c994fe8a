package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/market-lookup/internal/domain"
	"github.com/jsamuelsen/market-lookup/internal/platform/config"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "market-lookup:feed:"), mr
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedis(t)

	_, ok, err := c.Get(ctx, "10001")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "10001", sampleItems))

	got, ok, err := c.Get(ctx, "10001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleItems, got)

	stored, err := mr.Get("market-lookup:feed:10001")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"link":"https://news.example.com/a","title":"First"},{"link":"https://news.example.com/b","title":"Second"}]`, stored)
	assert.Zero(t, mr.TTL("market-lookup:feed:10001"), "entries never expire")
}

func TestRedis_EmptyEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedis(t)

	require.NoError(t, c.Set(ctx, "nowhere", nil))

	got, ok, err := c.Get(ctx, "nowhere")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRedis_CorruptEntry(t *testing.T) {
	c, mr := newRedis(t)
	require.NoError(t, mr.Set("market-lookup:feed:bad", "{not json"))

	_, ok, err := c.Get(context.Background(), "bad")

	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_SharedAcrossInstances(t *testing.T) {
	ctx := context.Background()
	first, mr := newRedis(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	second := NewRedis(client, "market-lookup:feed:")

	require.NoError(t, first.Set(ctx, "94103", []domain.FeedItem{{Link: "l", Title: "t"}}))

	got, ok, err := second.Get(ctx, "94103")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t", got[0].Title)
}

func TestRedis_HealthCheck(t *testing.T) {
	c, mr := newRedis(t)

	assert.Equal(t, "redis", c.Name())
	require.NoError(t, c.Check(context.Background()))

	mr.Close()

	assert.Error(t, c.Check(context.Background()))
	assert.Error(t, c.Set(context.Background(), "x", nil))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: addr})

	assert.ErrorContains(t, err, "connecting to redis")
}
