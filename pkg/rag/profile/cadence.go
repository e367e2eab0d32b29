package profile

import (
	"context"

	"github.com/google/uuid"
)

// Task asks for one learning pass over a conversation. The worker re-reads
// history from storage instead of trusting a snapshot from the request.
type Task struct {
	UserID         uuid.UUID `json:"user_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Turn           int       `json:"turn"`
}

type Queue interface {
	Enqueue(ctx context.Context, task Task) error
}

// Policy learns on every Nth completed turn. N below 1 means every turn.
type Policy struct {
	EveryNTurns int
}

func (p Policy) ShouldLearn(turn int) bool {
	n := p.EveryNTurns
	if n < 1 {
		n = 1
	}
	return turn > 0 && turn%n == 0
}

// Scheduler applies the cadence before handing tasks to the queue.
type Scheduler struct {
	policy Policy
	queue  Queue
}

func NewScheduler(policy Policy, queue Queue) *Scheduler {
	return &Scheduler{policy: policy, queue: queue}
}

// Schedule reports whether the task was enqueued.
func (s *Scheduler) Schedule(ctx context.Context, task Task) (bool, error) {
	if !s.policy.ShouldLearn(task.Turn) {
		return false, nil
	}
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return false, err
	}
	return true, nil
}
