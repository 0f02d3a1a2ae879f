package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/inovspin/inovspin/internal/decision"
	"github.com/inovspin/inovspin/internal/logging"
	"github.com/inovspin/inovspin/internal/metrics"
	"github.com/inovspin/inovspin/internal/store"
	"github.com/redis/go-redis/v9"
)

const versionKey = "inovspin:history:version"

var _ decision.Ledger = (*HistoryCache)(nil)

// HistoryCache is a read-through Redis cache in front of a ledger. Appends
// go straight to the ledger and then bump a version counter, so pages
// cached before the append are never read again. Redis failures are logged
// and the ledger is used instead.
type HistoryCache struct {
	ledger decision.Ledger
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	// stale counts appends whose invalidation has not reached Redis yet.
	// While it is non-zero no cached page is served.
	stale atomic.Int64
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     20,
		MinIdleConns: 2,
		MaxRetries:   1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// NewHistoryCache wraps ledger. A nil logger discards log output.
func NewHistoryCache(ledger decision.Ledger, client *redis.Client, ttl time.Duration, logger *slog.Logger) *HistoryCache {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HistoryCache{ledger: ledger, client: client, ttl: ttl, logger: logger}
}

// Append records rec in the ledger and invalidates cached pages.
func (c *HistoryCache) Append(ctx context.Context, rec store.Record) (store.Entry, error) {
	entry, err := c.ledger.Append(ctx, rec)
	if err != nil {
		return entry, err
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.stale.Add(1)
		c.logger.Warn("history cache invalidation failed", "error", err)
	}
	return entry, nil
}

// invalidatePending retries a failed invalidation. It reports whether
// cached pages may be served again.
func (c *HistoryCache) invalidatePending(ctx context.Context) bool {
	n := c.stale.Load()
	if n == 0 {
		return true
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		return false
	}
	c.stale.Add(-n)
	return true
}

// Recent serves a cached page when one exists for the current version.
func (c *HistoryCache) Recent(ctx context.Context, limit int) ([]store.Entry, error) {
	if limit <= 0 {
		return c.ledger.Recent(ctx, limit)
	}
	if !c.invalidatePending(ctx) {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		return c.ledger.Recent(ctx, limit)
	}

	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("history cache unavailable", "error", err)
		return c.ledger.Recent(ctx, limit)
	}
	key := pageKey(version, limit)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entries []store.Entry
		if jsonErr := json.Unmarshal(raw, &entries); jsonErr == nil {
			metrics.CacheRequests.WithLabelValues("hit").Inc()
			return entries, nil
		}
		c.logger.Warn("discarding undecodable history page", "key", key)
	case errors.Is(err, redis.Nil):
	default:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		c.logger.Warn("history cache read failed", "key", key, "error", err)
		return c.ledger.Recent(ctx, limit)
	}

	metrics.CacheRequests.WithLabelValues("miss").Inc()
	entries, err := c.ledger.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(entries); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("history cache write failed", "key", key, "error", err)
		}
	}
	return entries, nil
}

func pageKey(version int64, limit int) string {
	return fmt.Sprintf("inovspin:history:v%d:%d", version, limit)
}
