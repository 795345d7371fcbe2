package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"pulsegram/internal/model"
)

const (
	// TrendingKey is the Redis key for the trending tags sorted set
	TrendingKey = "trending:tags"

	// TrendingCap is the maximum number of tags kept in the set
	TrendingCap = 200

	// TrendingTTL bounds staleness; the set decays by expiring wholesale
	TrendingTTL = 24 * time.Hour
)

// TrendingCache tracks hashtag usage in a Redis sorted set so the
// trending endpoint can answer without touching Postgres.
type TrendingCache interface {
	// Bump increments a tag's score by one.
	// Uses pipeline: ZINCRBY + ZREMRANGEBYRANK (maintain cap) + EXPIRE.
	Bump(ctx context.Context, tag string) error

	// Top returns up to limit tags ordered by score descending.
	Top(ctx context.Context, limit int) ([]model.TrendingTag, error)

	// Size returns the number of tags currently tracked.
	Size(ctx context.Context) (int64, error)
}

// RedisTrendingCache implements TrendingCache using Redis Sorted Sets.
type RedisTrendingCache struct {
	client *redis.Client
}

// NewTrendingCache creates a new TrendingCache backed by Redis.
func NewTrendingCache(client *redis.Client) TrendingCache {
	return &RedisTrendingCache{client: client}
}

// Bump increments the tag's score using a pipeline.
// Pipeline: ZINCRBY + ZREMRANGEBYRANK (trim to cap) + EXPIRE (refresh TTL)
func (c *RedisTrendingCache) Bump(ctx context.Context, tag string) error {
	pipe := c.client.Pipeline()

	pipe.ZIncrBy(ctx, TrendingKey, 1, tag)

	// Keep the highest TrendingCap scores, drop the rest
	pipe.ZRemRangeByRank(ctx, TrendingKey, 0, int64(-TrendingCap-1))

	pipe.Expire(ctx, TrendingKey, TrendingTTL)

	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Printf("[TrendingCache] Bump FAILED: tag=%s err=%v", tag, err)
		return fmt.Errorf("bump trending tag: %w", err)
	}

	return nil
}

// Top returns the highest scored tags, best first.
func (c *RedisTrendingCache) Top(ctx context.Context, limit int) ([]model.TrendingTag, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, TrendingKey, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("[TrendingCache] Top FAILED: err=%v", err)
		return nil, fmt.Errorf("get trending tags: %w", err)
	}

	tags := make([]model.TrendingTag, len(results))
	for i, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected member type %T", z.Member)
		}
		tags[i] = model.TrendingTag{
			Tag:   member,
			Score: z.Score,
		}
	}

	return tags, nil
}

// Size returns the number of tags in the set.
func (c *RedisTrendingCache) Size(ctx context.Context) (int64, error) {
	size, err := c.client.ZCard(ctx, TrendingKey).Result()
	if err != nil {
		log.Printf("[TrendingCache] Size FAILED: err=%v", err)
		return 0, fmt.Errorf("get trending size: %w", err)
	}
	return size, nil
}
