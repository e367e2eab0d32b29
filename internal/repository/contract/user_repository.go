package contract

import (
	"context"
	"errors"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/specification"
)

// ErrUsernameExists is returned by Create when the username is already stored.
var ErrUsernameExists = errors.New("username already exists")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
}
