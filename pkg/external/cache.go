package external

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pvs1-classifier/internal/domain"
)

// CacheClient fronts a Redis cache with an in-process LRU, so repeated
// predicate calls within a single classification (or a hot batch/session)
// avoid a round trip to Redis. It caches VariantAnnotation lookups only
// (single-variant and range queries) — classification verdicts are never persisted, per the
// module's non-goal of storing variants/interpretations.
type CacheClient struct {
	redis      *redis.Client
	local      *lru.Cache[string, []byte]
	defaultTTL time.Duration
}

// NewCacheClient builds a CacheClient from the given configuration, pinging
// Redis once to fail fast on a bad connection string.
func NewCacheClient(config domain.CacheConfig) (*CacheClient, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	localSize := config.LocalSize
	if localSize <= 0 {
		localSize = 1024
	}
	local, err := lru.New[string, []byte](localSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create local cache: %w", err)
	}

	return &CacheClient{
		redis:      client,
		local:      local,
		defaultTTL: config.DefaultTTL,
	}, nil
}

// cachedAnnotation wraps a VariantAnnotation with cache bookkeeping.
type cachedAnnotation struct {
	Data      *domain.VariantAnnotation `json:"data"`
	ExpiresAt time.Time                 `json:"expires_at"`
}

// GetVariantInfo retrieves a cached VariantAnnotation for a single variant.
func (c *CacheClient) GetVariantInfo(ctx context.Context, variant *domain.SequenceVariant) (*domain.VariantAnnotation, bool, error) {
	key := c.variantKey("info", variant)
	return c.getAnnotation(ctx, key)
}

// SetVariantInfo caches a VariantAnnotation for a single variant.
func (c *CacheClient) SetVariantInfo(ctx context.Context, variant *domain.SequenceVariant, data *domain.VariantAnnotation, ttl time.Duration) error {
	key := c.variantKey("info", variant)
	return c.setAnnotation(ctx, key, data, ttl)
}

// GetRange retrieves cached range-query annotations.
func (c *CacheClient) GetRange(ctx context.Context, variant *domain.SequenceVariant, start, end int64) ([]domain.VariantAnnotation, bool, error) {
	key := fmt.Sprintf("range:%s:%d-%d", c.variantKey("", variant), start, end)
	val, found, err := c.getRaw(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	var out []domain.VariantAnnotation
	if err := json.Unmarshal(val, &out); err != nil {
		c.evict(ctx, key)
		return nil, false, nil
	}
	return out, true, nil
}

// SetRange caches range-query annotations.
func (c *CacheClient) SetRange(ctx context.Context, variant *domain.SequenceVariant, start, end int64, data []domain.VariantAnnotation, ttl time.Duration) error {
	key := fmt.Sprintf("range:%s:%d-%d", c.variantKey("", variant), start, end)
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal range cache data: %w", err)
	}
	return c.setRaw(ctx, key, payload, ttl)
}

func (c *CacheClient) getAnnotation(ctx context.Context, key string) (*domain.VariantAnnotation, bool, error) {
	val, found, err := c.getRaw(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	var cached cachedAnnotation
	if err := json.Unmarshal(val, &cached); err != nil {
		c.evict(ctx, key)
		return nil, false, nil
	}
	if time.Now().After(cached.ExpiresAt) {
		c.evict(ctx, key)
		return nil, false, nil
	}
	return cached.Data, true, nil
}

func (c *CacheClient) setAnnotation(ctx context.Context, key string, data *domain.VariantAnnotation, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	cached := cachedAnnotation{Data: data, ExpiresAt: time.Now().Add(ttl)}
	payload, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation cache data: %w", err)
	}
	return c.setRaw(ctx, key, payload, ttl)
}

func (c *CacheClient) getRaw(ctx context.Context, key string) ([]byte, bool, error) {
	if val, ok := c.local.Get(key); ok {
		return val, true, nil
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	c.local.Add(key, val)
	return val, true, nil
}

func (c *CacheClient) setRaw(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	c.local.Add(key, payload)
	return c.redis.Set(ctx, key, payload, ttl).Err()
}

func (c *CacheClient) evict(ctx context.Context, key string) {
	c.local.Remove(key)
	c.redis.Del(ctx, key)
}

// variantKey builds a deterministic cache key for a variant, hashing its
// identifying coordinates so keys stay short and fixed-length.
func (c *CacheClient) variantKey(prefix string, variant *domain.SequenceVariant) string {
	data := fmt.Sprintf("%s:%s:%d:%s:%s", variant.Assembly(), variant.Chromosome(), variant.Position(), variant.Deleted(), variant.Inserted())
	hash := sha256.Sum256([]byte(data))
	if prefix == "" {
		return fmt.Sprintf("variant:%x", hash[:8])
	}
	return fmt.Sprintf("%s:variant:%x", prefix, hash[:8])
}

// Ping checks if the Redis connection is alive.
func (c *CacheClient) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *CacheClient) Close() error {
	return c.redis.Close()
}
