package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/pkg/llm"
	"skintech-consultant-be/pkg/rag/profile"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extractingProvider struct {
	mu    sync.Mutex
	calls int
	reply string
}

func (p *extractingProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.reply, nil
}

func (p *extractingProvider) Stream(_ context.Context, _ []llm.Message, _ ...llm.Option) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error)
	close(out)
	close(errs)
	return out, errs
}

func TestLearningQueue_WatermillRoundTrip(t *testing.T) {
	db := newMemoryDB()
	userID := uuid.New()
	convID := uuid.New()
	require.NoError(t, memoryMessages{db}.CreateBulk(context.Background(), []*entity.Message{
		{Id: uuid.New(), ConversationId: convID, UserId: userID, Role: entity.RoleUser, Content: "I have oily skin and love CeraVe", CreatedAt: time.Now()},
	}))

	provider := &extractingProvider{reply: `{"skin_type":"oily","sensitivities":[],"preferred_brands":["CeraVe"],"budget_range":null,"concerns":["acne"]}`}
	learner := profile.NewLLMLearner(provider, NewProfileStore(db), 20, logger.NewNopLogger())

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewWatermillConsumerService(pubSub, LearningTopic, db, learner, 20, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	scheduler := profile.NewScheduler(profile.Policy{EveryNTurns: 1}, NewWatermillLearningQueue(pubSub, LearningTopic))
	scheduled, err := scheduler.Schedule(ctx, profile.Task{UserID: userID, ConversationID: convID, Turn: 1})
	require.NoError(t, err)
	assert.True(t, scheduled)

	assert.Eventually(t, func() bool {
		p, _ := NewProfileStore(db).Load(context.Background(), userID)
		return p != nil && p.Version == 1
	}, 2*time.Second, 10*time.Millisecond)

	p, err := NewProfileStore(db).Load(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, p.SkinType)
	assert.Equal(t, entity.SkinTypeOily, *p.SkinType)
	assert.Equal(t, []string{"CeraVe"}, p.PreferredBrands)
}

func TestLearningScheduler_SkipsOffCadenceTurns(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	scheduler := profile.NewScheduler(profile.Policy{EveryNTurns: 3}, NewWatermillLearningQueue(pubSub, LearningTopic))
	for turn, want := range map[int]bool{1: false, 2: false, 3: true, 6: true} {
		scheduled, err := scheduler.Schedule(context.Background(), profile.Task{UserID: uuid.New(), ConversationID: uuid.New(), Turn: turn})
		require.NoError(t, err)
		assert.Equal(t, want, scheduled, "turn %d", turn)
	}
}
