package cache

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// FlashCache keeps pending flash messages per browser id in a redis list.
type FlashCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewFlashCache(client *redisv9.Client, ttl time.Duration) *FlashCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FlashCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *FlashCache) Push(ctx context.Context, id string, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	key := c.flashKey(id)
	values := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		values = append(values, m)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis push flash failed: %w", err)
	}
	return nil
}

// Pop returns and deletes every pending message for id, oldest first.
func (c *FlashCache) Pop(ctx context.Context, id string) ([]string, error) {
	key := c.flashKey(id)
	var rangeCmd *redisv9.StringSliceCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		rangeCmd = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis pop flash failed: %w", err)
	}
	return rangeCmd.Val(), nil
}

func (c *FlashCache) flashKey(id string) string {
	return fmt.Sprintf("flash:%s", id)
}
