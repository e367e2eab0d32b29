package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQueue struct {
	tasks []Task
}

func (q *recordingQueue) Enqueue(_ context.Context, task Task) error {
	q.tasks = append(q.tasks, task)
	return nil
}

func TestPolicy_ShouldLearn(t *testing.T) {
	tests := []struct {
		name  string
		every int
		turn  int
		want  bool
	}{
		{"every turn", 1, 1, true},
		{"zero means every turn", 0, 7, true},
		{"every third skips", 3, 2, false},
		{"every third fires", 3, 6, true},
		{"turn zero never fires", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Policy{EveryNTurns: tt.every}.ShouldLearn(tt.turn))
		})
	}
}

func TestScheduler(t *testing.T) {
	queue := &recordingQueue{}
	s := NewScheduler(Policy{EveryNTurns: 2}, queue)

	for turn := 1; turn <= 4; turn++ {
		_, err := s.Schedule(context.Background(), Task{UserID: uuid.New(), Turn: turn})
		require.NoError(t, err)
	}

	require.Len(t, queue.tasks, 2)
	assert.Equal(t, 2, queue.tasks[0].Turn)
	assert.Equal(t, 4, queue.tasks[1].Turn)
}
