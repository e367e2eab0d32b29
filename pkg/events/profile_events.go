package events

import (
	"fmt"
	"time"

	"skintech-consultant-be/pkg/rag/profile"

	"github.com/google/uuid"
)

const ProfileLearningRequested = "profile.learning_requested"

func NewProfileLearningRequested(task profile.Task) BaseEvent {
	return BaseEvent{
		Type: ProfileLearningRequested,
		Data: map[string]interface{}{
			"user_id":         task.UserID.String(),
			"conversation_id": task.ConversationID.String(),
			"turn":            task.Turn,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// LearningTask reads the task back out of a ProfileLearningRequested event.
func LearningTask(e Event) (profile.Task, error) {
	if e.EventType() != ProfileLearningRequested {
		return profile.Task{}, fmt.Errorf("unexpected event type %q", e.EventType())
	}
	data := e.Payload()

	userID, err := uuid.Parse(fmt.Sprint(data["user_id"]))
	if err != nil {
		return profile.Task{}, fmt.Errorf("user_id: %w", err)
	}
	conversationID, err := uuid.Parse(fmt.Sprint(data["conversation_id"]))
	if err != nil {
		return profile.Task{}, fmt.Errorf("conversation_id: %w", err)
	}

	task := profile.Task{UserID: userID, ConversationID: conversationID}
	// JSON numbers decode as float64
	switch turn := data["turn"].(type) {
	case float64:
		task.Turn = int(turn)
	case int:
		task.Turn = turn
	}
	return task, nil
}
