package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"linecut/internal/model"
)

const statusKeyPrefix = "linecut:order_status:"

// NewRedisClient connects to addr and checks it with PING.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolSize:        10,
		MinIdleConns:    2,
		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStatusStore keeps last seen statuses in Redis so they survive
// restarts and can be shared between instances. Keys expire after ttl.
type RedisStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatusStore(client *redis.Client, ttl time.Duration) *RedisStatusStore {
	return &RedisStatusStore{client: client, ttl: ttl}
}

func (s *RedisStatusStore) Swap(ctx context.Context, orderID string, status model.OrderStatus) (model.OrderStatus, bool, error) {
	prev, err := s.client.SetArgs(ctx, statusKeyPrefix+orderID, string(status), redis.SetArgs{Get: true, TTL: s.ttl}).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("swap status: %w", err)
	}
	return model.OrderStatus(prev), true, nil
}

// Retain is a no-op: keys expire on their own.
func (s *RedisStatusStore) Retain(context.Context, map[string]struct{}) error {
	return nil
}
