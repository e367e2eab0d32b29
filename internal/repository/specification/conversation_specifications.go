package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// OwnedConversation matches a conversation only when it belongs to the user.
type OwnedConversation struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (s OwnedConversation) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ? AND user_id = ?", s.ID, s.UserID)
}
