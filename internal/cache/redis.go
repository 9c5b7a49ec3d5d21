package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/ember/internal/config"
)

// CountTTL bounds staleness of cached counters. The denormalized DB column
// is the source of truth; the cache is repopulated from it on miss.
const CountTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// KeyForPostLikes generates the cache key for a post's like count.
func (c *RedisCache) KeyForPostLikes(postID string) string {
	return fmt.Sprintf("post:likes:%s", postID)
}

// GetPostLikeCount reads a cached like count. found=false on miss.
func (c *RedisCache) GetPostLikeCount(ctx context.Context, postID string) (count int64, found bool, err error) {
	key := c.KeyForPostLikes(postID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // unparseable entry, treat as miss
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, CountTTL).Err()
	return n, true, nil
}

// SetPostLikeCount stores a like count with TTL.
func (c *RedisCache) SetPostLikeCount(ctx context.Context, postID string, count int64) error {
	return c.Client.Set(ctx, c.KeyForPostLikes(postID), count, CountTTL).Err()
}

// AdjustPostLikeCount nudges a cached counter after a like/unlike. A missing
// key stays missing: Incr on an absent key would fabricate a count of 1, so
// the adjustment only applies when the key already exists.
func (c *RedisCache) AdjustPostLikeCount(ctx context.Context, postID string, delta int64) error {
	key := c.KeyForPostLikes(postID)
	exists, err := c.Client.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	if err := c.Client.IncrBy(ctx, key, delta).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, CountTTL).Err()
}

// InvalidatePostLikes drops the cached count for a post.
func (c *RedisCache) InvalidatePostLikes(ctx context.Context, postID string) error {
	return c.Client.Del(ctx, c.KeyForPostLikes(postID)).Err()
}
