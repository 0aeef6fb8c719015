package domain

import "time"

// TimelineEvent — запись в истории заказа для аудита и отладки.
// Type совпадает с типом outbox-события (order.placed, order.paid,
// order.payment_failed, order.canceled, order.refunded); Reason заполняется
// для отмен и отказов платежа.
type TimelineEvent struct {
	OrderID  string
	Type     string
	Reason   string
	Occurred time.Time
}
