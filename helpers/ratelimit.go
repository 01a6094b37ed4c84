package helpers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a caller identified by key may go on
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window limiter shared by every instance
// through Redis
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisLimiter connects to Redis and allows limit calls per window
func NewRedisLimiter(url string, limit int, window time.Duration) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	if window < time.Second {
		window = time.Second
	}

	return &RedisLimiter{client: client, limit: int64(limit), window: window}, nil
}

// Allow counts a call in the current window. Redis failures let the
// call through.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().Unix() / int64(l.window/time.Second)
	k := "ratelimit:" + key + ":" + strconv.FormatInt(slot, 10)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		log.Printf("(Allow) Redis error, failing open: %v", err)
		return true, err
	}

	return incr.Val() <= l.limit, nil
}

// Close closes the Redis client
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
