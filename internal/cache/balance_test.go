package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*BalanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewBalanceCache(client, ttl), mr
}

func TestBalanceCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	_, ok := c.Get(ctx, userID)
	assert.False(t, ok)

	c.Set(ctx, userID, BalanceEntry{WalletNumber: "1234567890", Balance: 50_000})

	entry, ok := c.Get(ctx, userID)
	require.True(t, ok)
	assert.Equal(t, "1234567890", entry.WalletNumber)
	assert.Equal(t, int64(50_000), entry.Balance)
}

func TestBalanceCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	sender := uuid.New()
	recipient := uuid.New()

	c.Set(ctx, sender, BalanceEntry{WalletNumber: "1111111111", Balance: 100})
	c.Set(ctx, recipient, BalanceEntry{WalletNumber: "2222222222", Balance: 200})

	c.Invalidate(ctx, sender, recipient)

	_, ok := c.Get(ctx, sender)
	assert.False(t, ok)
	_, ok = c.Get(ctx, recipient)
	assert.False(t, ok)
}

func TestBalanceCache_TTLExpiry(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()
	userID := uuid.New()

	c.Set(ctx, userID, BalanceEntry{WalletNumber: "1234567890", Balance: 1})
	mr.FastForward(31 * time.Second)

	_, ok := c.Get(ctx, userID)
	assert.False(t, ok)
}

func TestBalanceCache_NilSafe(t *testing.T) {
	ctx := context.Background()
	var c *BalanceCache

	_, ok := c.Get(ctx, uuid.New())
	assert.False(t, ok)
	c.Set(ctx, uuid.New(), BalanceEntry{})
	c.Invalidate(ctx, uuid.New())

	disabled := NewBalanceCache(nil, time.Minute)
	_, ok = disabled.Get(ctx, uuid.New())
	assert.False(t, ok)
	disabled.Set(ctx, uuid.New(), BalanceEntry{})
	disabled.Invalidate(ctx)
}
