package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenDenylistRepository keeps revoked token ids in process until they expire.
type TokenDenylistRepository struct {
	cache *cache.Cache
}

func NewTokenDenylistRepository() *TokenDenylistRepository {
	return &TokenDenylistRepository{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (r *TokenDenylistRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (r *TokenDenylistRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := r.cache.Get(tokenID)
	return found, nil
}
