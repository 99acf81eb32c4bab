// Package cache provides a redis-backed read cache for wallet balances.
// The transaction log and wallet rows in Postgres remain the source of
// truth; the cache only shortens the hot balance-read path and is safe to
// run without.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidalade/wallet-ledger/internal/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const balanceKeyPrefix = "wallet:balance"

// BalanceEntry is the cached view served by the balance endpoint.
type BalanceEntry struct {
	WalletNumber string `json:"wallet_number"`
	Balance      int64  `json:"balance"` // kobo
}

// BalanceCache caches balance reads per user with a short TTL. All methods
// are nil-receiver safe so the service runs unchanged without redis.
type BalanceCache struct {
	redis redis.Cmdable
	ttl   time.Duration
}

func NewBalanceCache(redis redis.Cmdable, ttl time.Duration) *BalanceCache {
	return &BalanceCache{redis: redis, ttl: ttl}
}

// Get returns the cached entry for a user, or (nil, false) on miss.
func (c *BalanceCache) Get(ctx context.Context, userID uuid.UUID) (*BalanceEntry, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}
	val, err := c.redis.Get(ctx, balanceKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			zap.L().Warn("balance cache lookup failed", zap.Error(err))
		}
		observability.IncrementBalanceCacheEvent("miss")
		return nil, false
	}
	var entry BalanceEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		observability.IncrementBalanceCacheEvent("miss")
		return nil, false
	}
	observability.IncrementBalanceCacheEvent("hit")
	return &entry, true
}

// Set stores the entry with the configured TTL. Failures are logged and
// swallowed; the cache never fails a read path.
func (c *BalanceCache) Set(ctx context.Context, userID uuid.UUID, entry BalanceEntry) {
	if c == nil || c.redis == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, balanceKey(userID), payload, c.ttl).Err(); err != nil {
		zap.L().Warn("balance cache set failed", zap.Error(err))
	}
}

// Invalidate drops the cached balance for a user. Every committed balance
// mutation calls this for the wallets it touched.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if c == nil || c.redis == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, balanceKey(id))
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		zap.L().Warn("balance cache invalidation failed", zap.Error(err))
		return
	}
	observability.IncrementBalanceCacheEvent("invalidate")
}

func balanceKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", balanceKeyPrefix, userID)
}
