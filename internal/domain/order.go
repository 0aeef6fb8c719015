package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в fulfillment-цепочке.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и сохранён, оплата ещё не запускалась.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaymentProcessing — запрос в платёжный шлюз отправлен, ответ не получен.
	OrderStatusPaymentProcessing OrderStatus = "payment_processing"
	// OrderStatusPaid — оплата подтверждена шлюзом, transaction id записан.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен клиенту.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCanceled — заказ отменён (в том числе при отказе оплаты).
	OrderStatusCanceled OrderStatus = "canceled"
	// OrderStatusRefunded — деньги возвращены клиенту в полном объёме.
	OrderStatusRefunded OrderStatus = "refunded"
)

// orderTransitions задаёт допустимые переходы статусов. Отмена оплаченного
// заказа идёт только через refund, поэтому прямого ребра paid -> canceled нет.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:           {OrderStatusPaymentProcessing, OrderStatusCanceled},
	OrderStatusPaymentProcessing: {OrderStatusPaid, OrderStatusCanceled},
	OrderStatusPaid:              {OrderStatusShipped, OrderStatusRefunded},
	OrderStatusShipped:           {OrderStatusDelivered},
	OrderStatusDelivered:         {},
	OrderStatusCanceled:          {},
	OrderStatusRefunded:          {},
}

// Valid проверяет, что статус относится к известным значениям.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo отвечает, допустим ли переход в статус next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal сообщает, что из статуса нет исходящих переходов.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// OrderItem представляет одну позицию заказа. Название товара — снимок
// на момент оформления, а не живая ссылка на каталог.
type OrderItem struct {
	ID             string
	ProductID      string
	ProductName    string
	Qty            int32
	UnitPriceMinor int64
	CreatedAt      time.Time
}

// LineTotalMinor возвращает стоимость позиции: qty * unit price.
func (i OrderItem) LineTotalMinor() int64 {
	return int64(i.Qty) * i.UnitPriceMinor
}

// Order агрегирует состояние заказа, его суммы и позиции.
// Суммы хранятся в минимальных денежных единицах и вычисляются один раз
// при оформлении: total = subtotal + tax.
type Order struct {
	ID            string
	CustomerID    string
	CustomerEmail string
	Status        OrderStatus
	Currency      string
	SubtotalMinor int64
	TaxMinor      int64
	TotalMinor    int64
	PaymentTxnID  string
	Items         []OrderItem
	Version       int64
	CreatedAt     time.Time
	PaidAt        *time.Time
	UpdatedAt     time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.SubtotalMinor < 0 || o.TaxMinor < 0 {
		errs = append(errs, ErrAmountNegative)
	}

	// Сверяем subtotal с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += item.LineTotalMinor()
	}
	if calc != o.SubtotalMinor {
		errs = append(errs, ErrAmountMismatch)
	}
	if o.TotalMinor != o.SubtotalMinor+o.TaxMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	// Transaction id появляется только у заказа, прошедшего через paid.
	if o.PaymentTxnID != "" && !o.paidLineage() {
		errs = append(errs, ErrTxnWithoutPayment)
	}

	return errs
}

// paidLineage отвечает, мог ли заказ в текущем статусе пройти через оплату.
// Отменённый заказ учитывается: его могли отменить уже после возврата средств.
func (o *Order) paidLineage() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusRefunded, OrderStatusCanceled:
		return true
	default:
		return false
	}
}
