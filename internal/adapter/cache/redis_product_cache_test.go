package cache

import (
	"context"
	"testing"
	"time"

	"shama_quotations/internal/domain/entities"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisProductCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisProductCache(client, ttl), mr
}

func TestRedisProductCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)

	err := c.Set(ctx, []entities.ProductSnapshot{
		{ProductID: "p-1", Name: "Widget", Price: decimal.RequireFromString("19.99")},
		{ProductID: "p-2", Name: "Gadget", Price: decimal.NewFromInt(5)},
	})
	require.NoError(t, err)
	require.True(t, mr.Exists("inventory:product:p-1"))
	require.Equal(t, time.Minute, mr.TTL("inventory:product:p-1"))

	got, err := c.Get(ctx, []string{"p-1", "missing", "p-2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Widget", got["p-1"].Name)
	require.True(t, got["p-1"].Price.Equal(decimal.RequireFromString("19.99")))
	require.True(t, got["p-2"].Price.Equal(decimal.NewFromInt(5)))
}

func TestRedisProductCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 10*time.Second)

	require.NoError(t, c.Set(ctx, []entities.ProductSnapshot{{ProductID: "p-1", Name: "Widget", Price: decimal.NewFromInt(1)}}))
	mr.FastForward(11 * time.Second)

	got, err := c.Get(ctx, []string{"p-1"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRedisProductCache_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("inventory:product:p-1", "not-json"))

	got, err := c.Get(ctx, []string{"p-1"})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRedisProductCache_ServerDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, err := c.Get(ctx, []string{"p-1"})
	require.Error(t, err)
}
