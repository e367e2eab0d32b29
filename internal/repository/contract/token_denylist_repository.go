package contract

import (
	"context"
	"time"
)

// TokenDenylistRepository records revoked access tokens by their jti claim.
type TokenDenylistRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
