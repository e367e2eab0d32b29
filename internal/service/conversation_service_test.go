package service

import (
	"context"
	"testing"
	"time"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/pkg/rag/chat"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStore_AppendAndHistory(t *testing.T) {
	db := newMemoryDB()
	store := NewConversationStore(db)
	ctx := context.Background()
	userID := uuid.New()

	conv, err := store.Create(ctx, userID, "Oily skin help")
	require.NoError(t, err)

	owned, err := store.FindOwned(ctx, conv.Id, userID)
	require.NoError(t, err)
	require.NotNil(t, owned)

	foreign, err := store.FindOwned(ctx, conv.Id, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, foreign)

	now := time.Now().UTC()
	require.NoError(t, store.AppendTurn(ctx, []*entity.Message{
		{Id: uuid.New(), ConversationId: conv.Id, UserId: userID, Role: entity.RoleUser, Content: "hi", CreatedAt: now},
		{Id: uuid.New(), ConversationId: conv.Id, UserId: userID, Role: entity.RoleAssistant, Content: "hello", CreatedAt: now.Add(time.Millisecond)},
	}))

	history, err := store.History(ctx, conv.Id, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, 1, db.commits)
}

func TestConversationService_Messages(t *testing.T) {
	db := newMemoryDB()
	store := NewConversationStore(db)
	svc := NewConversationService(db)
	ctx := context.Background()
	userID := uuid.New()

	conv, err := store.Create(ctx, userID, "Sunscreen")
	require.NoError(t, err)
	require.NoError(t, store.AppendTurn(ctx, []*entity.Message{
		{Id: uuid.New(), ConversationId: conv.Id, UserId: userID, Role: entity.RoleAssistant, Content: "Try this",
			Sources: []entity.Source{{Type: entity.SourceWeb, Title: "Guide", Url: "https://example.com/spf"}}, CreatedAt: time.Now()},
	}))

	t.Run("owner sees sources", func(t *testing.T) {
		msgs, err := svc.Messages(ctx, userID, conv.Id)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Len(t, msgs[0].Sources, 1)
		assert.Equal(t, "web", msgs[0].Sources[0].Type)
		assert.Equal(t, "https://example.com/spf", msgs[0].Sources[0].Url)
	})

	t.Run("other user gets not found", func(t *testing.T) {
		_, err := svc.Messages(ctx, uuid.New(), conv.Id)
		assert.ErrorIs(t, err, chat.ErrConversationNotFound)
	})

	t.Run("list is scoped to owner", func(t *testing.T) {
		_, err := store.Create(ctx, uuid.New(), "Someone else")
		require.NoError(t, err)

		list, err := svc.List(ctx, userID, 0, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Sunscreen", list[0].Title)
	})

	t.Run("list pages newest first", func(t *testing.T) {
		_, err := store.Create(ctx, userID, "Retinol")
		require.NoError(t, err)

		page, err := svc.List(ctx, userID, 1, 0)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Retinol", page[0].Title)

		page, err = svc.List(ctx, userID, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Sunscreen", page[0].Title)
	})
}
