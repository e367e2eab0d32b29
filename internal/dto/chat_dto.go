package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Message        string     `json:"message" validate:"required,max=4000"`
	ConversationId *uuid.UUID `json:"conversation_id"`
}

type ConversationResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type SourceResponse struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Url   string `json:"url,omitempty"`
}

type MessageResponse struct {
	Id        uuid.UUID        `json:"id"`
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	Sources   []SourceResponse `json:"sources"`
	CreatedAt time.Time        `json:"created_at"`
}
