package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops/apigate/pkg/domain"
	"github.com/go-redis/redis/v8"
)

// RedisStore is the distributed CounterStore for multi-instance deployments.
// INCR and PEXPIREAT are issued in one transactional pipeline so the
// increment-with-expiry is atomic across instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.PExpireAt(ctx, key, resetAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return incr.Val(), nil
}
