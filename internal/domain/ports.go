package domain

import (
	"context"
	"time"
)

// PaymentGateway описывает взаимодействие с платёжным провайдером.
// Отказ шлюза выражается ошибкой: ErrPaymentDeclined для явного отклонения,
// ErrGatewayUnavailable для таймаута/недоступности.
type PaymentGateway interface {
	// Charge инициирует списание средств по заказу.
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	// Refund возвращает средства по ранее выданному transaction id.
	Refund(ctx context.Context, transactionID string, amountMinor int64, currency string) (RefundResult, error)
}

// NotificationSender доставляет сообщение клиенту. Ошибка отправки
// не фатальна для вызывающего: workflow логирует её и продолжает.
type NotificationSender interface {
	Send(ctx context.Context, n Notification) error
}

// Clock поставляет текущее время; вынесен в порт ради тестируемости.
type Clock interface {
	Now() time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по idempotency-key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte) error
	MarkFailed(key string, responseBody []byte) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
