package unitofwork

import (
	"context"

	"skintech-consultant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	UserProfileRepository() contract.UserProfileRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	ProductEmbeddingRepository() contract.ProductEmbeddingRepository
}
