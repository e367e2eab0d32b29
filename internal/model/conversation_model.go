package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Conversation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User *User `gorm:"foreignKey:UserId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type MessageSource struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Url   string `json:"url,omitempty"`
}

type Message struct {
	Id             uuid.UUID                          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationId uuid.UUID                          `gorm:"type:uuid;not null;index:idx_messages_conversation_created,priority:1"`
	UserId         uuid.UUID                          `gorm:"type:uuid;not null;index"`
	Role           string                             `gorm:"type:varchar(20);not null"`
	Content        string                             `gorm:"type:text;not null"`
	Sources        datatypes.JSONSlice[MessageSource] `gorm:"type:jsonb"`
	CreatedAt      time.Time                          `gorm:"not null;index:idx_messages_conversation_created,priority:2"`

	Conversation *Conversation `gorm:"foreignKey:ConversationId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (Message) TableName() string {
	return "messages"
}
