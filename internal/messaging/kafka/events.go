package kafka

import "time"

// CommandType определяет тип команды из входящего топика
type CommandType string

const (
	CommandTypePlaceOrder  CommandType = "order.place"
	CommandTypeCancelOrder CommandType = "order.cancel"
	CommandTypeRefundOrder CommandType = "order.refund"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "fulfillment.order.events"
	TopicOrderCommands   = "fulfillment.order.commands"
	TopicDeadLetterQueue = "fulfillment.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// CommandItem — позиция заказа внутри команды размещения.
type CommandItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Qty            int32  `json:"qty"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

// OrderCommand представляет команду из топика fulfillment.order.commands.
// Place несёт полный состав заказа; Cancel и Refund — только order_id.
type OrderCommand struct {
	CommandType    CommandType   `json:"command_type"`
	OrderID        string        `json:"order_id,omitempty"`
	CustomerID     string        `json:"customer_id,omitempty"`
	CustomerEmail  string        `json:"customer_email,omitempty"`
	Currency       string        `json:"currency,omitempty"`
	Items          []CommandItem `json:"items,omitempty"`
	PaymentToken   string        `json:"payment_token,omitempty"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}
