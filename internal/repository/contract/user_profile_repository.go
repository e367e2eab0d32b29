package contract

import (
	"context"

	"skintech-consultant-be/internal/entity"

	"github.com/google/uuid"
)

type UserProfileRepository interface {
	FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error)
	// EnsureExists inserts an empty version 0 row if none exists.
	EnsureExists(ctx context.Context, userId uuid.UUID) error
	// FindByUserIdForUpdate takes a row lock; call inside a transaction.
	FindByUserIdForUpdate(ctx context.Context, userId uuid.UUID) (*entity.UserProfile, error)
	Save(ctx context.Context, profile *entity.UserProfile) error
}
