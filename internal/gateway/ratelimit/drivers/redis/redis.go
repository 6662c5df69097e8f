// Package redis provides the shared counter store used when the gateway runs
// with more than one replica. All replicas hit the same Redis keys, so the
// window bound holds fleet-wide.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tradex:ratelimit:login:"

// Store implements ratelimit.Store on top of a Redis client.
type Store struct {
	rdb redis.UniversalClient
}

func New(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

// Hit implements ratelimit.Store. INCR and EXPIRE NX run in one transactional
// pipeline, so the count is atomic and the window TTL is pinned to the first
// hit. The window start is reconstructed from the remaining TTL.
func (s *Store) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	now := time.Now()
	k := keyPrefix + key

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	ttl := pipe.PTTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, fmt.Errorf("redis hit %q: %w", key, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// Key has no TTL (should not happen after ExpireNX); treat the
		// window as freshly opened rather than immortal.
		remaining = window
	}

	windowStart := now.Add(remaining - window)
	return incr.Val(), windowStart, nil
}

// Ping verifies connectivity for readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
