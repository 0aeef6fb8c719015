package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		sync:   mockProducer,
		logger: log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	cmd := OrderCommand{
		CommandType:   CommandTypePlaceOrder,
		CustomerID:    "customer-1",
		CustomerEmail: "customer-1@example.com",
		Currency:      "INR",
		Items: []CommandItem{
			{ProductID: "p-1", ProductName: "Widget", Qty: 2, UnitPriceMinor: 10000},
		},
		IdempotencyKey: "key-1",
		Timestamp:      time.Now().UTC(),
	}

	if err := producer.PublishEvent(TopicOrderCommands, "customer-1", cmd); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		sync:   mockProducer,
		logger: log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	cmd := OrderCommand{CommandType: CommandTypeCancelOrder, OrderID: "order-123"}
	if err := producer.PublishEvent(TopicOrderCommands, "order-123", cmd); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	producer := &Producer{
		logger: log.WithField("component", "kafka-producer-test"),
	}

	if err := producer.PublishEvent(TopicOrderEvents, "order-123", func() {}); err == nil {
		t.Fatal("expected marshal error for unserializable event")
	}
}
