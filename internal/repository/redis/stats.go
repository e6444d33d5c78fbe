package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	statsdomain "family-dues-go/internal/domain/stats"
	"family-dues-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
)

const statsVersionKey = "stats:version"

// StatsCache stores reports in Redis under keys suffixed with a global
// version. Bump increments the version, so older keys are never read again
// and simply expire. A report loaded before a bump is written under its
// old version and so is never served.
type StatsCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewStatsCache(client *goredis.Client, ttl time.Duration, log logger.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, log: log}
}

func (c *StatsCache) Get(ctx context.Context, key string) ([]statsdomain.BranchRate, bool) {
	versioned, err := c.currentKey(ctx, key)
	if err != nil {
		c.log.InternalError("stats.cache: version lookup failed", err)
		return nil, false
	}

	payload, err := c.client.Get(ctx, versioned).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.InternalError("stats.cache: get failed", err, "key", versioned)
		return nil, false
	}

	var rates []statsdomain.BranchRate
	if err := json.Unmarshal(payload, &rates); err != nil {
		c.log.InternalError("stats.cache: decode failed", err, "key", versioned)
		return nil, false
	}
	return rates, true
}

func (c *StatsCache) Set(ctx context.Context, key string, version int64, rates []statsdomain.BranchRate) {
	if c.ttl <= 0 {
		return
	}

	versioned := versionedKey(key, version)

	raw, err := json.Marshal(rates)
	if err != nil {
		c.log.InternalError("stats.cache: encode failed", err, "key", versioned)
		return
	}
	if err := c.client.Set(ctx, versioned, raw, c.ttl).Err(); err != nil {
		c.log.InternalError("stats.cache: set failed", err, "key", versioned)
	}
}

// Bump moves the version past the initial one even when the key was lost.
func (c *StatsCache) Bump(ctx context.Context) {
	pipe := c.client.TxPipeline()
	pipe.SetNX(ctx, statsVersionKey, 1, 0)
	pipe.Incr(ctx, statsVersionKey)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.InternalError("stats.cache: bump failed", err)
	}
}

// Version returns the current cache version, initialising it when missing.
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, statsVersionKey).Int64()
	if errors.Is(err, goredis.Nil) {
		if err := c.client.SetNX(ctx, statsVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, statsVersionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func (c *StatsCache) currentKey(ctx context.Context, key string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return versionedKey(key, ver), nil
}

func versionedKey(key string, version int64) string {
	return fmt.Sprintf("%s:v%d", key, version)
}
