package service

import (
	"context"
	"encoding/json"
	"fmt"

	"skintech-consultant-be/pkg/events"
	pktNats "skintech-consultant-be/pkg/nats"
	"skintech-consultant-be/pkg/rag/profile"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const LearningTopic = "profile_learning"

// watermillLearningQueue publishes tasks on an in-process watermill topic.
type watermillLearningQueue struct {
	publisher message.Publisher
	topic     string
}

func NewWatermillLearningQueue(publisher message.Publisher, topic string) profile.Queue {
	return &watermillLearningQueue{publisher: publisher, topic: topic}
}

func (q *watermillLearningQueue) Enqueue(ctx context.Context, task profile.Task) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal learning task: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return q.publisher.Publish(q.topic, msg)
}

// natsLearningQueue publishes tasks to the JetStream work queue so any instance can run them.
type natsLearningQueue struct {
	publisher *pktNats.Publisher
}

func NewNatsLearningQueue(publisher *pktNats.Publisher) profile.Queue {
	return &natsLearningQueue{publisher: publisher}
}

func (q *natsLearningQueue) Enqueue(ctx context.Context, task profile.Task) error {
	return q.publisher.Publish(ctx, events.NewProfileLearningRequested(task))
}
