package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is append-only. CreatedAt is the ordering key for history.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Role           string
	Content        string
	Sources        []Source
	CreatedAt      time.Time
}

type SourceType string

const (
	SourceProduct SourceType = "product"
	SourceWeb     SourceType = "web"
)

// Source is evidence attached to an assistant message. Url is only set for web sources.
type Source struct {
	Type  SourceType `json:"type"`
	Title string     `json:"title"`
	Url   string     `json:"url,omitempty"`
}
