package chat

import "skintech-consultant-be/internal/entity"

// Event is one frame of the streamed answer. Exactly one field group is set.
type Event struct {
	Content        string          `json:"content,omitempty"`
	Sources        []entity.Source `json:"sources,omitempty"`
	Error          string          `json:"error,omitempty"`
	ConversationID string          `json:"conversation_id,omitempty"`
	Done           bool            `json:"done,omitempty"`
}

// Emitter delivers an event to the caller. An error means the caller is gone.
type Emitter func(Event) error

func contentEvent(text string) Event { return Event{Content: text} }

func sourcesEvent(sources []entity.Source) Event { return Event{Sources: sources} }

func errorEvent(msg string) Event { return Event{Error: msg} }

func doneEvent(conversationID string) Event {
	return Event{ConversationID: conversationID, Done: true}
}
