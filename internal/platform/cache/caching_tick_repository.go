// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"tick_backend/internal/feature/ticks/domain/entity"
	"tick_backend/internal/feature/ticks/usecase"
)

// TickRepository is the read and write side of the tick store.
type TickRepository interface {
	usecase.TickWriter
	usecase.TickReader
}

// CachingTickRepository decorates a TickRepository with Redis caching.
// Reads are served from the cache; every upsert invalidates the entries of
// the affected security and trade date so that readers never see a stale day.
type CachingTickRepository struct {
	inner     TickRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	logger    *slog.Logger
}

var _ TickRepository = (*CachingTickRepository)(nil)

// NewCachingTickRepository decorates a TickRepository with Redis caching.
// If ttl is 0, entries expire at the next trading-day rollover. If namespace is empty, it uses "ticks".
// A nil rdb disables caching.
func NewCachingTickRepository(rdb *redis.Client, ttl time.Duration, inner TickRepository, namespace string, logger *slog.Logger) *CachingTickRepository {
	if ttl < 0 {
		ttl = 0
	}
	if namespace == "" {
		namespace = "ticks"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachingTickRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		logger:    logger,
	}
}

// UpsertBatch upserts ticks and invalidates related cache entries.
// Invalidation is best effort; a cache failure never fails the write.
func (c *CachingTickRepository) UpsertBatch(ctx context.Context, ticks []entity.Tick) error {
	if err := c.inner.UpsertBatch(ctx, ticks); err != nil {
		return err
	}
	if c.rdb == nil || len(ticks) == 0 {
		return nil
	}

	seenDay := map[string]struct{}{}
	seenISIN := map[string]struct{}{}
	for _, t := range ticks {
		prefix := c.dayPrefix(t.ISIN, t.TradeDate)
		if _, ok := seenDay[prefix]; !ok {
			seenDay[prefix] = struct{}{}
			if err := c.deleteByPattern(ctx, prefix+"*"); err != nil {
				c.logger.Warn("cache invalidation failed", "isin", t.ISIN, "date", t.TradeDate, "error", err)
			}
		}
		if _, ok := seenISIN[t.ISIN]; !ok {
			seenISIN[t.ISIN] = struct{}{}
			_ = c.rdb.Del(ctx, c.latestKey(t.ISIN)).Err()
		}
	}
	return nil
}

// Find returns the ticks of a trade date, checking the cache first.
func (c *CachingTickRepository) Find(ctx context.Context, isin, date string, limit int) ([]entity.Tick, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, isin, date, limit)
	}

	key := c.findKey(isin, date, limit)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Tick
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Find(ctx, isin, date, limit)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.expiry()).Err()
	}
	return out, nil
}

// LatestDate returns the most recent trade date with data, checking the cache first.
// An empty result is not cached.
func (c *CachingTickRepository) LatestDate(ctx context.Context, isin string) (string, error) {
	if c.rdb == nil {
		return c.inner.LatestDate(ctx, isin)
	}

	key := c.latestKey(isin)
	if s, err := c.rdb.Get(ctx, key).Result(); err == nil && s != "" {
		return s, nil
	}

	date, err := c.inner.LatestDate(ctx, isin)
	if err != nil {
		return "", err
	}
	if date != "" {
		_ = c.rdb.Set(ctx, key, date, c.expiry()).Err()
	}
	return date, nil
}

func (c *CachingTickRepository) expiry() time.Duration {
	if c.ttl > 0 {
		return c.ttl
	}
	return TimeUntilNextRollover(time.Now())
}

// findKey generates a cache key for a specific query.
func (c *CachingTickRepository) findKey(isin, date string, limit int) string {
	return fmt.Sprintf("%s%d", c.dayPrefix(isin, date), limit)
}

// dayPrefix generates a prefix for invalidating the entries of one trade date.
func (c *CachingTickRepository) dayPrefix(isin, date string) string {
	return fmt.Sprintf("%s:%s:%s:", c.namespace, safe(isin), safe(date))
}

func (c *CachingTickRepository) latestKey(isin string) string {
	return fmt.Sprintf("%s:%s:latest", c.namespace, safe(isin))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTickRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
