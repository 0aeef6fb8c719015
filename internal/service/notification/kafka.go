package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// EventPublisher публикует событие уведомления в брокер.
// Интерфейсу удовлетворяет kafka.Producer.
type EventPublisher interface {
	PublishEvent(topic string, key string, event interface{}) error
}

// DefaultNotificationTopic — топик для исходящих уведомлений.
const DefaultNotificationTopic = "fulfillment.notifications"

// KafkaSender публикует уведомления в Kafka-топик, откуда их забирает
// внешний сервис доставки (email, sms, push).
type KafkaSender struct {
	publisher EventPublisher
	topic     string
}

var _ domain.NotificationSender = (*KafkaSender)(nil)

// NewKafkaSender создаёт отправитель уведомлений через Kafka.
func NewKafkaSender(publisher EventPublisher, topic string) (*KafkaSender, error) {
	if publisher == nil {
		return nil, errors.New("notification publisher is required")
	}
	if topic == "" {
		topic = DefaultNotificationTopic
	}
	return &KafkaSender{publisher: publisher, topic: topic}, nil
}

type notificationEvent struct {
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject"`
	Body         string            `json:"body"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	QueuedAt     time.Time         `json:"queued_at"`
}

// Send публикует уведомление; ключом партиционирования служит адресат.
func (s *KafkaSender) Send(_ context.Context, n domain.Notification) error {
	if n.Recipient == "" {
		return ErrRecipientRequired
	}

	event := notificationEvent{
		Recipient:    n.Recipient,
		Subject:      n.Subject,
		Body:         n.Body,
		TemplateData: n.TemplateData,
		QueuedAt:     time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(s.topic, n.Recipient, event); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
