package rediscache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sahayakai/sahayak-backend/internal/logger"
	"github.com/sahayakai/sahayak-backend/internal/types"
)

const (
	// Key namespaces shared with the key deriver.
	ContextNamespace = "sahayak:sos:"
	ProblemNamespace = "sahayak:problem:"

	usageSuffix = ":usage"
)

// Cache is the playbook response cache. When Redis is unreachable at
// startup the cache degrades to a no-op: writes are dropped, reads miss,
// and resolution proceeds straight to matching/generation.
type Cache struct {
	log       *logger.Logger
	rdb       *redis.Client
	available bool
}

type PopularProblem struct {
	CacheKey string `json:"cache_key"`
	Uses     int64  `json:"uses"`
}

func New(log *logger.Logger, addr, password string) *Cache {
	c := &Cache{log: log.With("service", "ResponseCache")}
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:6379"
	}

	c.rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.log.Warn("Redis unavailable; response cache disabled", "addr", addr, "error", err.Error())
		return c
	}

	c.available = true
	c.log.Info("Response cache connected", "addr", addr)
	return c
}

// Available reports whether the startup health check succeeded.
func (c *Cache) Available() bool {
	return c.available
}

// Get returns the cached playbook for key, or (nil, false) on a miss.
// Any transport error is treated as a miss.
func (c *Cache) Get(ctx context.Context, key string) (*types.Playbook, bool) {
	if !c.available {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Cache get failed", "key", key, "error", err.Error())
		}
		return nil, false
	}

	var pb types.Playbook
	if err := json.Unmarshal(raw, &pb); err != nil {
		c.log.Warn("Cache entry undecodable; treating as miss", "key", key, "error", err.Error())
		return nil, false
	}
	return &pb, true
}

// Set stores the playbook under key with the given TTL. Returns false if
// the entry was not stored.
func (c *Cache) Set(ctx context.Context, key string, pb *types.Playbook, ttl time.Duration) bool {
	if !c.available || pb == nil {
		return false
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Keep Hindi/Kannada text readable in redis-cli.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pb); err != nil {
		c.log.Error("Cache encode failed", "key", key, "error", err.Error())
		return false
	}

	if err := c.rdb.SetEx(ctx, key, buf.Bytes(), ttl).Err(); err != nil {
		c.log.Warn("Cache set failed", "key", key, "error", err.Error())
		return false
	}
	return true
}

// IncrementUsage bumps the usage counter tracked beside the cached entry.
func (c *Cache) IncrementUsage(ctx context.Context, key string) {
	if !c.available {
		return
	}
	if err := c.rdb.Incr(ctx, key+usageSuffix).Err(); err != nil {
		c.log.Warn("Usage increment failed", "key", key, "error", err.Error())
	}
}

// PopularProblems lists the most-hit cache keys by usage counter,
// descending. Best-effort: errors yield an empty slice.
func (c *Cache) PopularProblems(ctx context.Context, limit int) []PopularProblem {
	if !c.available || limit <= 0 {
		return nil
	}

	keys, err := c.rdb.Keys(ctx, "sahayak:*"+usageSuffix).Result()
	if err != nil {
		c.log.Warn("Popular problems scan failed", "error", err.Error())
		return nil
	}

	out := make([]PopularProblem, 0, len(keys))
	for _, k := range keys {
		v, err := c.rdb.Get(ctx, k).Result()
		if err != nil {
			continue
		}
		uses, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, PopularProblem{
			CacheKey: strings.TrimSuffix(k, usageSuffix),
			Uses:     uses,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Uses > out[j].Uses })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
