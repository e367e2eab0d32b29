package implementation

import (
	"context"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/mapper"
	"skintech-consultant-be/internal/model"
	"skintech-consultant-be/internal/repository/contract"
	"skintech-consultant-be/internal/repository/scope"
	"skintech-consultant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *MessageRepositoryImpl) CreateBulk(ctx context.Context, messages []*entity.Message) error {
	if len(messages) == 0 {
		return nil
	}
	models := make([]*model.Message, len(messages))
	for i, msg := range messages {
		models[i] = r.mapper.MessageToModel(msg)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*messages[i] = *r.mapper.MessageToEntity(m)
	}
	return nil
}

func (r *MessageRepositoryImpl) FindRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.Message, error) {
	var models []*model.Message
	query := specification.ByConversationID{ConversationID: conversationId}.Apply(r.db.WithContext(ctx))
	if limit <= 0 {
		if err := query.Scopes(scope.OrderByCreatedAsc).Find(&models).Error; err != nil {
			return nil, err
		}
		return r.mapper.MessagesToEntities(models), nil
	}

	if err := query.Scopes(scope.OrderByCreatedDesc).Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}
	// Newest-first window back to chronological order
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return r.mapper.MessagesToEntities(models), nil
}
