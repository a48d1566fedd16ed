package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Keshavsspppp/municipality/internal/domain/entity"
	"github.com/Keshavsspppp/municipality/internal/domain/service"
)

const keyPrefix = "civic:groups:"

// RedisGroupCache stores groupings as JSON strings with a TTL
type RedisGroupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGroupCache creates a grouping cache on top of client
func NewRedisGroupCache(client *redis.Client, ttl time.Duration) service.GroupCache {
	return &RedisGroupCache{client: client, ttl: ttl}
}

// Get returns the cached groups for key
func (c *RedisGroupCache) Get(ctx context.Context, key string) ([]entity.Group, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached groups: %w", err)
	}

	var groups []entity.Group
	if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached groups: %w", err)
	}
	return groups, true, nil
}

// Set stores groups under key
func (c *RedisGroupCache) Set(ctx context.Context, key string, groups []entity.Group) error {
	raw, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("failed to encode groups: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache groups: %w", err)
	}
	return nil
}
