package chat

import (
	"context"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/pkg/rag/intent"
	"skintech-consultant-be/pkg/rag/profile"
	"skintech-consultant-be/pkg/rag/retrieval"
	"skintech-consultant-be/pkg/rag/websearch"

	"github.com/google/uuid"
)

type Classifier interface {
	Classify(ctx context.Context, query string) intent.Result
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) retrieval.Result
}

type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) websearch.Response
}

// ConversationStore is the durable, append-only message log.
type ConversationStore interface {
	Create(ctx context.Context, userID uuid.UUID, title string) (*entity.Conversation, error)
	// FindOwned returns nil when the conversation is missing or owned by someone else.
	FindOwned(ctx context.Context, conversationID, userID uuid.UUID) (*entity.Conversation, error)
	// History returns messages oldest first; limit <= 0 means all.
	History(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error)
	// AppendTurn writes all messages or none.
	AppendTurn(ctx context.Context, messages []*entity.Message) error
}

type ProfileReader interface {
	Load(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error)
}

type LearningScheduler interface {
	Schedule(ctx context.Context, task profile.Task) (bool, error)
}

// Locker serializes turns that append to the same conversation.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
