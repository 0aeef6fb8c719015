package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/notification"
)

type stubSender struct {
	sent []domain.Notification
	err  error
}

func (s *stubSender) Send(_ context.Context, n domain.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

type stubPublisher struct {
	topic   string
	key     string
	payload []byte
	err     error
}

func (p *stubPublisher) PublishEvent(topic string, key string, event interface{}) error {
	if p.err != nil {
		return p.err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.topic = topic
	p.key = key
	p.payload = data
	return nil
}

func sample() domain.Notification {
	return domain.Notification{
		Recipient: "customer@example.com",
		Subject:   "Order confirmed",
		Body:      "Your order has been placed and paid.",
		TemplateData: map[string]string{
			"order_id": "order-1",
		},
	}
}

func TestLogSender(t *testing.T) {
	sender := notification.NewLogSender(log.WithField("component", "test"))

	if err := sender.Send(context.Background(), sample()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	err := sender.Send(context.Background(), domain.Notification{Subject: "no recipient"})
	if !errors.Is(err, notification.ErrRecipientRequired) {
		t.Errorf("expected ErrRecipientRequired, got %v", err)
	}
}

func TestKafkaSender(t *testing.T) {
	publisher := &stubPublisher{}
	sender, err := notification.NewKafkaSender(publisher, "")
	if err != nil {
		t.Fatalf("NewKafkaSender failed: %v", err)
	}

	if err := sender.Send(context.Background(), sample()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if publisher.topic != notification.DefaultNotificationTopic {
		t.Errorf("unexpected topic: %s", publisher.topic)
	}
	if publisher.key != "customer@example.com" {
		t.Errorf("expected recipient as partition key, got %s", publisher.key)
	}

	var event map[string]interface{}
	if err := json.Unmarshal(publisher.payload, &event); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}
	if event["subject"] != "Order confirmed" {
		t.Errorf("unexpected subject in payload: %v", event["subject"])
	}
	if event["queued_at"] == nil {
		t.Error("expected queued_at in payload")
	}
}

func TestKafkaSenderPublishError(t *testing.T) {
	publisher := &stubPublisher{err: errors.New("broker unavailable")}
	sender, err := notification.NewKafkaSender(publisher, "topic")
	if err != nil {
		t.Fatalf("NewKafkaSender failed: %v", err)
	}

	if err := sender.Send(context.Background(), sample()); err == nil {
		t.Fatal("expected publish error")
	}
}

func TestKafkaSenderRequiresPublisher(t *testing.T) {
	if _, err := notification.NewKafkaSender(nil, "topic"); err == nil {
		t.Fatal("expected error for nil publisher")
	}
}

func TestFanoutSenderDeliversToAll(t *testing.T) {
	first := &stubSender{}
	second := &stubSender{}
	fanout := notification.NewFanoutSender(first, nil, second)

	if err := fanout.Send(context.Background(), sample()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(first.sent) != 1 || len(second.sent) != 1 {
		t.Errorf("expected both senders to receive, got %d and %d", len(first.sent), len(second.sent))
	}
}

func TestFanoutSenderCollectsErrors(t *testing.T) {
	failing := &stubSender{err: errors.New("smtp down")}
	ok := &stubSender{}
	fanout := notification.NewFanoutSender(failing, ok)

	err := fanout.Send(context.Background(), sample())
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	// Работающий канал не должен пропускаться из-за упавшего.
	if len(ok.sent) != 1 {
		t.Errorf("expected healthy sender to deliver, got %d", len(ok.sent))
	}
}
