package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	TopicEmailVerification = "notification.email_verification"
	TopicPasswordReset     = "notification.password_reset"

	eventSource  = "contribution-service"
	eventVersion = "1.0"
)

// EmailNotificationEvent asks the notification consumer to deliver a
// verification or reset email. Delivery itself is out of process; this
// service only publishes intent.
type EmailNotificationEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func NewEmailNotificationEvent(topic string, userID uint, email, name, token string) *EmailNotificationEvent {
	return &EmailNotificationEvent{
		ID:        uuid.New().String(),
		Type:      topic,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Email:     email,
		Name:      name,
		Token:     token,
	}
}

// Publisher is the outbound side of the notification dispatcher.
type Publisher interface {
	PublishEmailNotification(ctx context.Context, event *EmailNotificationEvent) error
	Close() error
}

// ===== KAFKA PUBLISHER =====

type kafkaPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewKafkaPublisher connects a watermill Kafka publisher for notification
// events.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) (Publisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return &kafkaPublisher{publisher: publisher, logger: logger}, nil
}

func (p *kafkaPublisher) PublishEmailNotification(ctx context.Context, event *EmailNotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(event.Type, msg); err != nil {
		return fmt.Errorf("publish notification event: %w", err)
	}

	p.logger.Info("Published notification event",
		"event_id", event.ID,
		"type", event.Type,
		"user_id", event.UserID)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.publisher.Close()
}

// ===== MOCK PUBLISHER =====

// MockPublisher records events in memory for tests. FailNext makes the next
// publish fail, for exercising the best-effort email policy.
type MockPublisher struct {
	mu       sync.Mutex
	events   []*EmailNotificationEvent
	failNext bool
	logger   *slog.Logger
}

func NewMockPublisher(logger *slog.Logger) *MockPublisher {
	return &MockPublisher{logger: logger}
}

func (p *MockPublisher) PublishEmailNotification(_ context.Context, event *EmailNotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext {
		p.failNext = false
		return fmt.Errorf("mock publisher failure")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *MockPublisher) Close() error { return nil }

func (p *MockPublisher) FailNext() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failNext = true
}

func (p *MockPublisher) GetPublishedEvents() []*EmailNotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*EmailNotificationEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *MockPublisher) ClearEvents() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
