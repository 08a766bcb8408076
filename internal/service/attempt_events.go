package service

import (
	"classquiz_backend/internal/model"
	"classquiz_backend/pkg/messaging"
	"context"
	"encoding/json"
	"time"
)

const (
	AttemptEventGraded  = "attempt.graded"
	AttemptEventExpired = "attempt.expired"
)

type AttemptEvent struct {
	Type       string              `json:"type"`
	AttemptID  string              `json:"attemptId"`
	QuizID     string              `json:"quizId"`
	UserID     uint                `json:"userId"`
	Score      int                 `json:"score"`
	Status     model.AttemptStatus `json:"status"`
	OccurredAt time.Time           `json:"occurredAt"`
}

type EventPublisher interface {
	PublishAttemptEvent(ctx context.Context, evt AttemptEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishAttemptEvent(ctx context.Context, evt AttemptEvent) error {
	return nil
}

// RabbitMQPublisher 将作答事件投递到 RabbitMQ 队列
type RabbitMQPublisher struct {
	Client *messaging.RabbitMQClient
	Queue  string
}

func NewRabbitMQPublisher(client *messaging.RabbitMQClient, queue string) *RabbitMQPublisher {
	return &RabbitMQPublisher{Client: client, Queue: queue}
}

func (p *RabbitMQPublisher) PublishAttemptEvent(ctx context.Context, evt AttemptEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Client.Publish(ctx, p.Queue, body)
}
