package notification

import (
	"context"
	"errors"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// FanoutSender рассылает уведомление через все вложенные отправители.
// Ошибки отдельных отправителей собираются, остальные каналы при этом
// не пропускаются.
type FanoutSender struct {
	senders []domain.NotificationSender
}

var _ domain.NotificationSender = (*FanoutSender)(nil)

// NewFanoutSender создаёт fanout по перечисленным отправителям.
// Nil-отправители игнорируются.
func NewFanoutSender(senders ...domain.NotificationSender) *FanoutSender {
	filtered := make([]domain.NotificationSender, 0, len(senders))
	for _, sender := range senders {
		if sender != nil {
			filtered = append(filtered, sender)
		}
	}
	return &FanoutSender{senders: filtered}
}

// Send доставляет уведомление во все каналы и возвращает объединённую
// ошибку, если часть из них не сработала.
func (s *FanoutSender) Send(ctx context.Context, n domain.Notification) error {
	var errs []error
	for _, sender := range s.senders {
		if err := sender.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
