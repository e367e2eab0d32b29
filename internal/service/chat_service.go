package service

import (
	"context"

	"skintech-consultant-be/internal/dto"
	"skintech-consultant-be/pkg/rag/chat"

	"github.com/google/uuid"
)

type Chatter interface {
	Chat(ctx context.Context, req chat.Request, emit chat.Emitter) error
}

type IChatService interface {
	Chat(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest, emit chat.Emitter) error
}

type chatService struct {
	orchestrator Chatter
}

func NewChatService(orchestrator Chatter) IChatService {
	return &chatService{orchestrator: orchestrator}
}

func (s *chatService) Chat(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest, emit chat.Emitter) error {
	return s.orchestrator.Chat(ctx, chat.Request{
		UserID:         userID,
		ConversationID: req.ConversationId,
		Message:        req.Message,
	}, emit)
}
