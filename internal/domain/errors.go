package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка превышения лимита позиций из политики заказа.
	ErrTooManyItems = errors.New("order exceeds max items per order")
	// Ошибка отрицательной суммы заказа.
	ErrAmountNegative = errors.New("order amounts must be non-negative")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item unit price must be non-negative")
	// Ошибка несоответствия subtotal и сумм позиций.
	ErrAmountMismatch = errors.New("order subtotal does not match items sum")
	// Ошибка нарушения total = subtotal + tax.
	ErrTotalMismatch = errors.New("order total does not equal subtotal plus tax")
	// Ошибка наличия transaction id у неоплаченного заказа.
	ErrTxnWithoutPayment = errors.New("payment transaction id set without payment")
	// Ошибка отсутствующего идентификатора заказа.
	ErrOrderIDRequired = errors.New("order_id is required")

	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// ErrInvalidTransition — текущий статус запрещает запрошенную операцию.
	ErrInvalidTransition = errors.New("order status forbids this transition")
	// ErrNoPaymentToRefund — возврат запрошен для заказа без платежа.
	ErrNoPaymentToRefund = errors.New("no payment to refund")

	// ErrPaymentDeclined — платёж явно отклонён шлюзом (бизнес-ошибка).
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrGatewayUnavailable — шлюз недоступен или не ответил в срок;
	// исход платежа неизвестен, workflow трактует его как отказ.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrRefundRejected — шлюз отказал в возврате средств.
	ErrRefundRejected = errors.New("refund rejected")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")

	// ErrIdempotencyKeyRequired — пустой idempotency-key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой hash запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
	// ErrIdempotencyKeyAlreadyExists — ключ уже создан другим запросом.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — тот же ключ прислан с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency key reused with different request")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsValidation относит ошибку к классу ошибок входных данных: такие ошибки
// возвращаются вызывающему немедленно и не повторяются.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrCustomerRequired, ErrCurrencyRequired, ErrItemsRequired, ErrTooManyItems,
		ErrAmountNegative, ErrItemQtyInvalid, ErrItemPriceInvalid, ErrOrderIDRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
