package service

import (
	"context"
	"fmt"
	"time"

	"skintech-consultant-be/internal/dto"
	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/repository/specification"
	"skintech-consultant-be/internal/repository/unitofwork"
	"skintech-consultant-be/pkg/rag/chat"

	"github.com/google/uuid"
)

// ConversationStore is the durable message log behind the chat pipeline.
type ConversationStore struct {
	uowFactory unitofwork.RepositoryFactory
}

var _ chat.ConversationStore = (*ConversationStore)(nil)

func NewConversationStore(uowFactory unitofwork.RepositoryFactory) *ConversationStore {
	return &ConversationStore{uowFactory: uowFactory}
}

func (s *ConversationStore) Create(ctx context.Context, userID uuid.UUID, title string) (*entity.Conversation, error) {
	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
	if err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

func (s *ConversationStore) FindOwned(ctx context.Context, conversationID, userID uuid.UUID) (*entity.Conversation, error) {
	return s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindOne(ctx,
		specification.OwnedConversation{ID: conversationID, UserID: userID},
	)
}

func (s *ConversationStore) History(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	return s.uowFactory.NewUnitOfWork(ctx).MessageRepository().FindRecent(ctx, conversationID, limit)
}

// AppendTurn commits the user and assistant messages together.
func (s *ConversationStore) AppendTurn(ctx context.Context, messages []*entity.Message) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().CreateBulk(ctx, messages); err != nil {
		return fmt.Errorf("append messages: %w", err)
	}
	return uow.Commit()
}

type IConversationService interface {
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.ConversationResponse, error)
	Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]*dto.MessageResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{uowFactory: uowFactory}
}

func (s *conversationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.ConversationResponse, error) {
	conversations, err := s.uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userID},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, &dto.ConversationResponse{Id: c.Id, Title: c.Title, CreatedAt: c.CreatedAt})
	}
	return res, nil
}

func (s *conversationService) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.OwnedConversation{ID: conversationID, UserID: userID},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, chat.ErrConversationNotFound
	}

	messages, err := uow.MessageRepository().FindRecent(ctx, conversationID, 0)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		sources := make([]dto.SourceResponse, 0, len(m.Sources))
		for _, src := range m.Sources {
			sources = append(sources, dto.SourceResponse{Type: string(src.Type), Title: src.Title, Url: src.Url})
		}
		res = append(res, &dto.MessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Sources:   sources,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}
