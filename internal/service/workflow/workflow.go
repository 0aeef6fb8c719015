package workflow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
)

const (
	maxUpdateRetries = 3
	baseRetryDelay   = 10 * time.Millisecond

	defaultIdempotencyTTL = 24 * time.Hour
)

// Типы событий жизненного цикла заказа. Значения совпадают с типами
// событий, публикуемыми в Kafka.
const (
	eventOrderPlaced        = "order.placed"
	eventOrderPaid          = "order.paid"
	eventOrderPaymentFailed = "order.payment_failed"
	eventOrderCanceled      = "order.canceled"
	eventOrderRefunded      = "order.refunded"
)

// ItemRequest описывает позицию в запросе на размещение заказа.
type ItemRequest struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Qty            int32  `json:"qty"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

// PlaceOrderRequest — входные данные операции размещения заказа.
// IdempotencyKey опционален: при повторе с тем же ключом и телом
// возвращается сохранённый результат первой попытки.
type PlaceOrderRequest struct {
	CustomerID     string        `json:"customer_id"`
	CustomerEmail  string        `json:"customer_email"`
	Currency       string        `json:"currency"`
	Items          []ItemRequest `json:"items"`
	PaymentToken   string        `json:"payment_token"`
	IdempotencyKey string        `json:"-"`
}

// Result — исход операции workflow.
// Err заполняется при неуспехе и оборачивает доменные сентинелы,
// поэтому вызывающий может классифицировать отказ через errors.Is.
type Result struct {
	Success bool
	OrderID string
	Status  domain.OrderStatus
	Err     error
}

// ErrorMessage возвращает текст ошибки или пустую строку при успехе.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Workflow управляет жизненным циклом заказа: размещение с оплатой,
// отмена и возврат средств. Все изменения статуса идут через optimistic
// locking с повторами, события — через transactional outbox и timeline.
type Workflow struct {
	orders   domain.OrderRepository
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository
	idem     domain.IdempotencyRepository
	gateway  domain.PaymentGateway
	notifier domain.NotificationSender
	clock    domain.Clock
	policy   domain.Policy
	logger   *log.Entry
	metrics  *metrics.WorkflowMetrics
}

// Config — зависимости Workflow. Orders и Gateway обязательны,
// остальные поля опциональны и заменяются безопасными значениями.
type Config struct {
	Orders      domain.OrderRepository
	Outbox      domain.OutboxRepository
	Timeline    domain.TimelineRepository
	Idempotency domain.IdempotencyRepository
	Gateway     domain.PaymentGateway
	Notifier    domain.NotificationSender
	Clock       domain.Clock
	Policy      domain.Policy
	Logger      *log.Entry
	Metrics     *metrics.WorkflowMetrics
}

// New создаёт Workflow из конфигурации зависимостей.
func New(cfg Config) (*Workflow, error) {
	if cfg.Orders == nil {
		return nil, errors.New("workflow requires an order repository")
	}
	if cfg.Gateway == nil {
		return nil, errors.New("workflow requires a payment gateway")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New().WithField("component", "workflow")
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Policy == (domain.Policy{}) {
		cfg.Policy = domain.DefaultPolicy()
	}
	if err := cfg.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow policy: %w", err)
	}

	return &Workflow{
		orders:   cfg.Orders,
		outbox:   cfg.Outbox,
		timeline: cfg.Timeline,
		idem:     cfg.Idempotency,
		gateway:  cfg.Gateway,
		notifier: cfg.Notifier,
		clock:    cfg.Clock,
		policy:   cfg.Policy,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}, nil
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Place размещает заказ: валидация, расчёт сумм, запись pending-заказа,
// списание через шлюз и перевод в paid либо компенсирующая отмена.
func (w *Workflow) Place(ctx context.Context, req PlaceOrderRequest) Result {
	start := w.clock.Now()
	if w.metrics != nil {
		w.metrics.OperationStarted()
	}
	defer func() {
		if w.metrics != nil {
			w.metrics.OperationFinished()
			w.metrics.RecordOperationDuration("place", time.Since(start))
		}
	}()

	replay, replayed, err := w.beginIdempotent(req)
	if err != nil {
		return Result{Err: err}
	}
	if replayed {
		return replay
	}

	result := w.placeOnce(ctx, req)
	w.finishIdempotent(req.IdempotencyKey, result)
	return result
}

func (w *Workflow) placeOnce(ctx context.Context, req PlaceOrderRequest) Result {
	order, err := w.buildOrder(req)
	if err != nil {
		return Result{Err: err}
	}

	// Заказ сохраняется в pending до обращения к шлюзу: упавший процесс
	// оставляет след, по которому реконсиляция может доразобраться.
	created, err := w.orders.Create(order)
	if err != nil {
		w.logger.WithError(err).Error("failed to persist pending order")
		return Result{Err: fmt.Errorf("persist order: %w", err)}
	}
	order = created

	if w.metrics != nil {
		w.metrics.RecordOrderPlaced()
	}
	w.emitEvent(&order, eventOrderPlaced, map[string]interface{}{
		"customer_id": order.CustomerID,
		"total_minor": order.TotalMinor,
		"currency":    order.Currency,
	})

	if err := w.persistTransition(&order, domain.OrderStatusPaymentProcessing, nil); err != nil {
		return Result{OrderID: order.ID, Status: order.Status, Err: err}
	}

	chargeCtx, cancel := context.WithTimeout(ctx, w.policy.PaymentTimeout)
	defer cancel()

	charge, chargeErr := w.gateway.Charge(chargeCtx, domain.ChargeRequest{
		AmountMinor:     order.TotalMinor,
		Currency:        order.Currency,
		InstrumentToken: req.PaymentToken,
		Description:     fmt.Sprintf("order %s", order.ID),
		Metadata: map[string]string{
			"order_id":    order.ID,
			"customer_id": order.CustomerID,
		},
	})
	if chargeErr != nil {
		return w.compensateFailedPayment(&order, chargeErr)
	}

	paidAt := w.clock.Now()
	order.PaymentTxnID = charge.TransactionID
	order.PaidAt = &paidAt
	if err := w.persistTransition(&order, domain.OrderStatusPaid, func(fresh *domain.Order) error {
		fresh.PaymentTxnID = charge.TransactionID
		fresh.PaidAt = &paidAt
		return nil
	}); err != nil {
		// Списание прошло, а статус не сохранился: заказ останется
		// в payment_processing с известным txn id для ручного разбора.
		w.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"txn_id":   charge.TransactionID,
		}).Error("charge succeeded but paid status was not persisted")
		return Result{OrderID: order.ID, Status: order.Status, Err: err}
	}

	if w.metrics != nil {
		w.metrics.RecordOrderPaid()
	}
	w.emitEvent(&order, eventOrderPaid, map[string]interface{}{
		"txn_id":      order.PaymentTxnID,
		"total_minor": order.TotalMinor,
	})

	if w.policy.RequireConfirmation {
		w.notifyBestEffort(ctx, domain.Notification{
			Recipient: order.CustomerEmail,
			Subject:   "Order confirmed",
			Body:      fmt.Sprintf("Your order %s has been placed and paid.", order.ID),
			TemplateData: map[string]string{
				"order_id": order.ID,
				"total":    fmt.Sprintf("%d", order.TotalMinor),
				"currency": order.Currency,
			},
		})
	}

	return Result{Success: true, OrderID: order.ID, Status: order.Status}
}

// compensateFailedPayment отменяет заказ после отказа шлюза.
// Уведомление клиенту не отправляется: оплата не состоялась, заказ
// снаружи ещё никому не виден.
func (w *Workflow) compensateFailedPayment(order *domain.Order, chargeErr error) Result {
	if w.metrics != nil {
		w.metrics.RecordPaymentFailed()
	}

	// Таймаут или обрыв связи означают неизвестный исход: считаем
	// платёж неуспешным и отменяем заказ.
	if errors.Is(chargeErr, context.DeadlineExceeded) || errors.Is(chargeErr, context.Canceled) {
		chargeErr = &domain.GatewayError{Kind: domain.ErrGatewayUnavailable, Message: "gateway timeout"}
	}

	w.logger.WithError(chargeErr).WithField("order_id", order.ID).Warn("payment failed, canceling order")

	w.emitEvent(order, eventOrderPaymentFailed, map[string]interface{}{
		"reason": chargeErr.Error(),
	})

	if err := w.persistTransition(order, domain.OrderStatusCanceled, nil); err != nil {
		w.logger.WithError(err).WithField("order_id", order.ID).Error("failed to cancel order after payment failure")
		return Result{OrderID: order.ID, Status: order.Status, Err: err}
	}
	if w.metrics != nil {
		w.metrics.RecordOrderCanceled()
	}
	w.emitEvent(order, eventOrderCanceled, map[string]interface{}{
		"reason": "payment failed",
	})

	return Result{
		OrderID: order.ID,
		Status:  order.Status,
		Err:     fmt.Errorf("payment failed: %w", chargeErr),
	}
}

// Cancel отменяет заказ. Для оплаченного заказа с transaction id отмена
// выполняется через возврат средств.
func (w *Workflow) Cancel(ctx context.Context, orderID, reason string) Result {
	start := w.clock.Now()
	if w.metrics != nil {
		w.metrics.OperationStarted()
	}
	defer func() {
		if w.metrics != nil {
			w.metrics.OperationFinished()
			w.metrics.RecordOperationDuration("cancel", time.Since(start))
		}
	}()

	if orderID == "" {
		return Result{Err: domain.ErrOrderIDRequired}
	}

	order, err := w.orders.Get(orderID)
	if err != nil {
		return Result{OrderID: orderID, Err: err}
	}

	switch order.Status {
	case domain.OrderStatusPending, domain.OrderStatusPaymentProcessing:
		// Отмена до завершения оплаты: денег не списано, компенсация не нужна.
	case domain.OrderStatusCanceled:
		// Повторная отмена идемпотентна: состояние не меняется,
		// но клиент получает подтверждение ещё раз.
		w.notifyCancellation(ctx, &order, reason)
		return Result{Success: true, OrderID: order.ID, Status: order.Status}
	case domain.OrderStatusPaid:
		if order.PaymentTxnID != "" {
			return w.Refund(ctx, orderID, reason)
		}
		return Result{OrderID: order.ID, Status: order.Status, Err: domain.ErrNoPaymentToRefund}
	default:
		// shipped, delivered, refunded
		return Result{OrderID: order.ID, Status: order.Status, Err: domain.ErrInvalidTransition}
	}

	if err := w.persistTransition(&order, domain.OrderStatusCanceled, func(fresh *domain.Order) error {
		if fresh.Status == domain.OrderStatusCanceled {
			return nil
		}
		if !fresh.Status.CanTransitionTo(domain.OrderStatusCanceled) {
			return domain.ErrInvalidTransition
		}
		return nil
	}); err != nil {
		return Result{OrderID: order.ID, Status: order.Status, Err: err}
	}

	if w.metrics != nil {
		w.metrics.RecordOrderCanceled()
	}
	w.emitEvent(&order, eventOrderCanceled, map[string]interface{}{
		"reason": reason,
	})
	w.notifyCancellation(ctx, &order, reason)

	return Result{Success: true, OrderID: order.ID, Status: order.Status}
}

// Refund возвращает полную сумму оплаченного заказа.
// Частичные возвраты не поддерживаются: сумма всегда равна total заказа.
func (w *Workflow) Refund(ctx context.Context, orderID, reason string) Result {
	start := w.clock.Now()
	if w.metrics != nil {
		w.metrics.OperationStarted()
	}
	defer func() {
		if w.metrics != nil {
			w.metrics.OperationFinished()
			w.metrics.RecordOperationDuration("refund", time.Since(start))
		}
	}()

	if orderID == "" {
		return Result{Err: domain.ErrOrderIDRequired}
	}

	order, err := w.orders.Get(orderID)
	if err != nil {
		return Result{OrderID: orderID, Err: err}
	}

	if order.Status != domain.OrderStatusPaid {
		return Result{OrderID: order.ID, Status: order.Status, Err: domain.ErrInvalidTransition}
	}
	if order.PaymentTxnID == "" {
		return Result{OrderID: order.ID, Status: order.Status, Err: domain.ErrNoPaymentToRefund}
	}

	refundCtx, cancel := context.WithTimeout(ctx, w.policy.PaymentTimeout)
	defer cancel()

	if _, refundErr := w.gateway.Refund(refundCtx, order.PaymentTxnID, order.TotalMinor, order.Currency); refundErr != nil {
		// Возврат не прошёл: заказ остаётся оплаченным, операцию можно повторить.
		if w.metrics != nil {
			w.metrics.RecordRefundFailed()
		}
		if errors.Is(refundErr, context.DeadlineExceeded) || errors.Is(refundErr, context.Canceled) {
			refundErr = &domain.GatewayError{Kind: domain.ErrGatewayUnavailable, Message: "gateway timeout"}
		}
		w.logger.WithError(refundErr).WithFields(log.Fields{
			"order_id": order.ID,
			"txn_id":   order.PaymentTxnID,
		}).Warn("refund rejected by gateway")
		return Result{
			OrderID: order.ID,
			Status:  order.Status,
			Err:     fmt.Errorf("refund failed: %w", refundErr),
		}
	}

	if err := w.persistTransition(&order, domain.OrderStatusRefunded, func(fresh *domain.Order) error {
		if fresh.Status != domain.OrderStatusPaid {
			return domain.ErrInvalidTransition
		}
		return nil
	}); err != nil {
		w.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"txn_id":   order.PaymentTxnID,
		}).Error("refund succeeded but refunded status was not persisted")
		return Result{OrderID: order.ID, Status: order.Status, Err: err}
	}

	if w.metrics != nil {
		w.metrics.RecordOrderRefunded()
	}
	w.emitEvent(&order, eventOrderRefunded, map[string]interface{}{
		"txn_id":       order.PaymentTxnID,
		"amount_minor": order.TotalMinor,
		"reason":       reason,
	})
	w.notifyBestEffort(ctx, domain.Notification{
		Recipient: order.CustomerEmail,
		Subject:   "Order refunded",
		Body:      fmt.Sprintf("Your payment for order %s has been refunded in full.", order.ID),
		TemplateData: map[string]string{
			"order_id": order.ID,
			"amount":   fmt.Sprintf("%d", order.TotalMinor),
			"currency": order.Currency,
		},
	})

	return Result{Success: true, OrderID: order.ID, Status: order.Status}
}

// GetOrder возвращает заказ по идентификатору.
func (w *Workflow) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, domain.ErrOrderIDRequired
	}
	return w.orders.Get(orderID)
}

// ListCustomerOrders возвращает заказы клиента от новых к старым.
func (w *Workflow) ListCustomerOrders(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if customerID == "" {
		return nil, domain.ErrCustomerRequired
	}
	return w.orders.ListByCustomer(customerID, limit)
}

// OrderTimeline возвращает события жизненного цикла заказа.
func (w *Workflow) OrderTimeline(ctx context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if w.timeline == nil {
		return nil, nil
	}
	return w.timeline.List(orderID)
}

func (w *Workflow) buildOrder(req PlaceOrderRequest) (domain.Order, error) {
	if req.CustomerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	currency := req.Currency
	if currency == "" {
		currency = w.policy.DefaultCurrency
	}
	if len(req.Items) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}
	if len(req.Items) > w.policy.MaxItemsPerOrder {
		return domain.Order{}, domain.ErrTooManyItems
	}

	now := w.clock.Now()
	items := make([]domain.OrderItem, 0, len(req.Items))
	var subtotal int64
	for _, item := range req.Items {
		if item.Qty <= 0 {
			return domain.Order{}, domain.ErrItemQtyInvalid
		}
		if item.UnitPriceMinor < 0 {
			return domain.Order{}, domain.ErrItemPriceInvalid
		}
		items = append(items, domain.OrderItem{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Qty:            item.Qty,
			UnitPriceMinor: item.UnitPriceMinor,
			CreatedAt:      now,
		})
		subtotal += int64(item.Qty) * item.UnitPriceMinor
	}

	tax := w.policy.TaxFor(subtotal)
	order := domain.Order{
		CustomerID:    req.CustomerID,
		CustomerEmail: req.CustomerEmail,
		Status:        domain.OrderStatusPending,
		Currency:      currency,
		SubtotalMinor: subtotal,
		TaxMinor:      tax,
		TotalMinor:    subtotal + tax,
		Items:         items,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	return order, nil
}

// persistTransition переводит заказ в новый статус с optimistic locking.
// При version conflict заказ перечитывается, reevaluate решает, остаётся
// ли переход допустимым для свежего состояния.
func (w *Workflow) persistTransition(order *domain.Order, next domain.OrderStatus, reevaluate func(fresh *domain.Order) error) error {
	if order.Status == next {
		return nil
	}
	if !order.Status.CanTransitionTo(next) {
		return domain.ErrInvalidTransition
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		previous := order.Status
		order.Status = next
		order.UpdatedAt = w.clock.Now()
		prevVersion := order.Version

		err := w.orders.Update(*order)
		if err == nil {
			order.Version = prevVersion + 1
			return nil
		}

		if domain.IsVersionConflict(err) && attempt < maxUpdateRetries-1 {
			if w.metrics != nil {
				w.metrics.RecordVersionConflict()
			}
			w.logger.WithFields(log.Fields{
				"order_id": order.ID,
				"attempt":  attempt + 1,
				"version":  order.Version,
			}).Warn("version conflict detected, retrying")

			fresh, loadErr := w.orders.Get(order.ID)
			if loadErr != nil {
				order.Status = previous
				return loadErr
			}
			*order = fresh

			if order.Status == next {
				return nil
			}
			if reevaluate != nil {
				if evalErr := reevaluate(order); evalErr != nil {
					return evalErr
				}
				if order.Status == next {
					return nil
				}
			}
			if !order.Status.CanTransitionTo(next) {
				return domain.ErrInvalidTransition
			}

			time.Sleep(baseRetryDelay * time.Duration(1<<uint(attempt)))
			continue
		}

		order.Status = previous
		w.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"attempt":  attempt + 1,
		}).Error("failed to persist status transition")
		return err
	}

	return domain.ErrOrderVersionConflict
}

func (w *Workflow) notifyCancellation(ctx context.Context, order *domain.Order, reason string) {
	body := fmt.Sprintf("Your order %s has been canceled.", order.ID)
	if reason != "" {
		body = fmt.Sprintf("Your order %s has been canceled: %s.", order.ID, reason)
	}
	w.notifyBestEffort(ctx, domain.Notification{
		Recipient: order.CustomerEmail,
		Subject:   "Order canceled",
		Body:      body,
		TemplateData: map[string]string{
			"order_id": order.ID,
			"reason":   reason,
		},
	})
}

// notifyBestEffort отправляет уведомление, не влияя на исход операции.
func (w *Workflow) notifyBestEffort(ctx context.Context, n domain.Notification) {
	if w.notifier == nil || n.Recipient == "" {
		return
	}
	if err := w.notifier.Send(ctx, n); err != nil {
		if w.metrics != nil {
			w.metrics.RecordNotificationFailed()
		}
		w.logger.WithError(err).WithField("recipient", n.Recipient).Warn("notification delivery failed")
	}
}

func (w *Workflow) emitEvent(order *domain.Order, eventType string, payload map[string]interface{}) {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["order_id"] = order.ID
	payload["status"] = string(order.Status)
	payload["ts"] = w.clock.Now().Format(time.RFC3339Nano)

	if w.outbox != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			w.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Error("marshal event failed")
			return
		}
		msg := domain.OutboxMessage{
			AggregateType: "order",
			AggregateID:   order.ID,
			EventType:     eventType,
			Payload:       data,
		}
		if _, err := w.outbox.Enqueue(msg); err != nil {
			w.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Error("enqueue event failed")
		} else if w.metrics != nil {
			w.metrics.RecordOutboxEvent()
		}
	}

	if w.timeline != nil {
		var reason string
		if r, ok := payload["reason"].(string); ok {
			reason = r
		}
		event := domain.TimelineEvent{
			OrderID:  order.ID,
			Type:     eventType,
			Reason:   reason,
			Occurred: w.clock.Now(),
		}
		if err := w.timeline.Append(event); err != nil {
			w.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"event":    eventType,
			}).Warn("append timeline event failed")
		} else if w.metrics != nil {
			w.metrics.RecordTimelineEvent()
		}
	}
}

// beginIdempotent регистрирует ключ идемпотентности и возвращает
// сохранённый результат, если запрос уже обрабатывался.
func (w *Workflow) beginIdempotent(req PlaceOrderRequest) (Result, bool, error) {
	if w.idem == nil || req.IdempotencyKey == "" {
		return Result{}, false, nil
	}

	hash, err := requestHash(req)
	if err != nil {
		return Result{}, false, err
	}

	ttlAt := w.clock.Now().Add(defaultIdempotencyTTL)
	record, err := w.idem.CreateProcessing(req.IdempotencyKey, hash, ttlAt)
	if err == nil {
		return Result{}, false, nil
	}

	switch {
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return Result{}, false, err
	case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
		if record.Status == domain.IdempotencyStatusProcessing {
			return Result{}, false, fmt.Errorf("request with key %s is still being processed: %w",
				req.IdempotencyKey, domain.ErrIdempotencyKeyAlreadyExists)
		}
		replay, decodeErr := decodeStoredResult(record.ResponseBody)
		if decodeErr != nil {
			return Result{}, false, decodeErr
		}
		return replay, true, nil
	default:
		return Result{}, false, err
	}
}

func (w *Workflow) finishIdempotent(key string, result Result) {
	if w.idem == nil || key == "" {
		return
	}

	body, err := encodeStoredResult(result)
	if err != nil {
		w.logger.WithError(err).WithField("key", key).Error("failed to encode idempotency result")
		return
	}

	if result.Success {
		err = w.idem.MarkDone(key, body)
	} else {
		err = w.idem.MarkFailed(key, body)
	}
	if err != nil {
		w.logger.WithError(err).WithField("key", key).Warn("failed to persist idempotency result")
	}
}

// storedResult — сериализуемая форма Result для повторной выдачи.
// Типизированность ошибки при replay теряется: хранится только текст.
type storedResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

func encodeStoredResult(result Result) ([]byte, error) {
	return json.Marshal(storedResult{
		Success: result.Success,
		OrderID: result.OrderID,
		Status:  string(result.Status),
		Error:   result.ErrorMessage(),
	})
}

func decodeStoredResult(body []byte) (Result, error) {
	var stored storedResult
	if err := json.Unmarshal(body, &stored); err != nil {
		return Result{}, fmt.Errorf("decode stored idempotency result: %w", err)
	}
	result := Result{
		Success: stored.Success,
		OrderID: stored.OrderID,
		Status:  domain.OrderStatus(stored.Status),
	}
	if stored.Error != "" {
		result.Err = errors.New(stored.Error)
	}
	return result, nil
}

func requestHash(req PlaceOrderRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("hash place request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
