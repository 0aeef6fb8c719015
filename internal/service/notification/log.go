package notification

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// ErrRecipientRequired возвращается при попытке отправить уведомление
// без адресата.
var ErrRecipientRequired = errors.New("notification recipient is required")

// LogSender пишет уведомления в структурированный лог вместо реальной
// доставки. Используется в разработке и как последний элемент fanout,
// чтобы каждое уведомление оставляло след.
type LogSender struct {
	logger *log.Entry
}

var _ domain.NotificationSender = (*LogSender)(nil)

// NewLogSender создаёт лог-отправитель уведомлений.
func NewLogSender(logger *log.Entry) *LogSender {
	if logger == nil {
		logger = log.WithField("component", "notification-log")
	}
	return &LogSender{logger: logger}
}

// Send логирует уведомление.
func (s *LogSender) Send(_ context.Context, n domain.Notification) error {
	if n.Recipient == "" {
		return ErrRecipientRequired
	}

	s.logger.WithFields(log.Fields{
		"recipient": n.Recipient,
		"subject":   n.Subject,
	}).Info("notification dispatched")
	return nil
}
