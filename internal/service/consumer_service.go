package service

import (
	"context"
	"encoding/json"

	"skintech-consultant-be/internal/pkg/logger"
	"skintech-consultant-be/internal/repository/unitofwork"
	"skintech-consultant-be/pkg/events"
	pktNats "skintech-consultant-be/pkg/nats"
	"skintech-consultant-be/pkg/rag/profile"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// learningWorker runs one profile learning pass with its own storage handle.
type learningWorker struct {
	uowFactory unitofwork.RepositoryFactory
	learner    profile.Learner
	window     int
	logger     logger.ILogger
}

func newLearningWorker(uowFactory unitofwork.RepositoryFactory, learner profile.Learner, window int, logger logger.ILogger) *learningWorker {
	if window <= 0 {
		window = profile.DefaultWindow
	}
	return &learningWorker{uowFactory: uowFactory, learner: learner, window: window, logger: logger}
}

// handle never fails the message: a lost learning pass is retried implicitly
// by the next turn.
func (w *learningWorker) handle(ctx context.Context, task profile.Task) {
	details := map[string]interface{}{
		"user_id":         task.UserID.String(),
		"conversation_id": task.ConversationID.String(),
		"turn":            task.Turn,
	}

	recent, err := w.uowFactory.NewUnitOfWork(ctx).MessageRepository().FindRecent(ctx, task.ConversationID, w.window)
	if err != nil {
		details["error"] = err.Error()
		w.logger.Error("PROFILE_LEARNING", "Failed to load conversation", details)
		return
	}

	outcome := w.learner.ExtractAndUpdate(ctx, task.UserID, recent)
	switch {
	case outcome.Err != nil:
		details["error"] = outcome.Err.Error()
		w.logger.Warn("PROFILE_LEARNING", "Learning pass failed", details)
	case outcome.Updated:
		details["version"] = outcome.Version
		w.logger.Info("PROFILE_LEARNING", "Profile updated", details)
	default:
		w.logger.Debug("PROFILE_LEARNING", "Nothing new learned", details)
	}
}

type watermillConsumerService struct {
	subscriber message.Subscriber
	topic      string
	worker     *learningWorker
}

func NewWatermillConsumerService(
	subscriber message.Subscriber,
	topic string,
	uowFactory unitofwork.RepositoryFactory,
	learner profile.Learner,
	window int,
	logger logger.ILogger,
) IConsumerService {
	return &watermillConsumerService{
		subscriber: subscriber,
		topic:      topic,
		worker:     newLearningWorker(uowFactory, learner, window, logger),
	}
}

func (cs *watermillConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *watermillConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var task profile.Task
	if err := json.Unmarshal(msg.Payload, &task); err != nil {
		cs.worker.logger.Error("PROFILE_LEARNING", "Failed to unmarshal task", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // invalid payloads are never retried
		return
	}

	cs.worker.handle(ctx, task)
	msg.Ack()
}

type natsConsumerService struct {
	subscriber *pktNats.Subscriber
	worker     *learningWorker
}

func NewNatsConsumerService(
	subscriber *pktNats.Subscriber,
	uowFactory unitofwork.RepositoryFactory,
	learner profile.Learner,
	window int,
	logger logger.ILogger,
) IConsumerService {
	return &natsConsumerService{
		subscriber: subscriber,
		worker:     newLearningWorker(uowFactory, learner, window, logger),
	}
}

func (cs *natsConsumerService) Consume(ctx context.Context) error {
	return cs.subscriber.Subscribe(ctx, events.ProfileLearningRequested, "profile-learner",
		func(ctx context.Context, event events.Event) error {
			task, err := events.LearningTask(event)
			if err != nil {
				cs.worker.logger.Error("PROFILE_LEARNING", "Malformed learning event", map[string]interface{}{
					"error": err.Error(),
				})
				return nil
			}
			cs.worker.handle(ctx, task)
			return nil
		})
}
