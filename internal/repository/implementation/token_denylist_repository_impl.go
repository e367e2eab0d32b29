package implementation

import (
	"context"
	"errors"
	"time"

	"skintech-consultant-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "auth:revoked:"

type RedisTokenDenylistRepository struct {
	rdb *redis.Client
}

func NewRedisTokenDenylistRepository(rdb *redis.Client) contract.TokenDenylistRepository {
	return &RedisTokenDenylistRepository{rdb: rdb}
}

func (r *RedisTokenDenylistRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (r *RedisTokenDenylistRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.rdb.Get(ctx, revokedTokenPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
