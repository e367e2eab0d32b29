package contract

import (
	"context"

	"skintech-consultant-be/internal/entity"

	"github.com/google/uuid"
)

type MessageRepository interface {
	CreateBulk(ctx context.Context, messages []*entity.Message) error
	// FindRecent returns at most limit messages, oldest first. limit <= 0 returns all.
	FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error)
}
