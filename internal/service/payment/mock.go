package payment

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

// MockGateway — конфигурируемый платёжный шлюз для разработки и тестов.
// По умолчанию все операции успешны; поведение отказов задаётся полями
// Decline*, Unavailable и Latency.
type MockGateway struct {
	mu sync.Mutex

	// DeclineCharges заставляет Charge отклонять все списания.
	DeclineCharges bool
	// DeclineMessage — текст отказа шлюза при отклонении списания.
	DeclineMessage string
	// RejectRefunds заставляет Refund отклонять все возвраты.
	RejectRefunds bool
	// Unavailable имитирует недоступность шлюза для обеих операций.
	Unavailable bool
	// Latency добавляет задержку перед ответом, учитывая контекст.
	Latency time.Duration

	chargeCalls atomic.Int64
	refundCalls atomic.Int64

	charges []domain.ChargeRequest
	refunds []RefundRequest
}

// RefundRequest фиксирует параметры, с которыми был вызван Refund.
type RefundRequest struct {
	TransactionID string
	AmountMinor   int64
	Currency      string
}

var _ domain.PaymentGateway = (*MockGateway)(nil)

// NewMockGateway возвращает шлюз, одобряющий все операции.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Charge имитирует списание средств.
func (g *MockGateway) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	g.chargeCalls.Add(1)
	g.mu.Lock()
	g.charges = append(g.charges, req)
	g.mu.Unlock()

	if err := g.wait(ctx); err != nil {
		return domain.ChargeResult{}, err
	}
	if g.Unavailable {
		return domain.ChargeResult{}, &domain.GatewayError{
			Kind:    domain.ErrGatewayUnavailable,
			Message: "gateway unavailable",
		}
	}
	if g.DeclineCharges {
		msg := g.DeclineMessage
		if msg == "" {
			msg = "Card declined"
		}
		return domain.ChargeResult{}, &domain.GatewayError{
			Kind:    domain.ErrPaymentDeclined,
			Message: msg,
		}
	}

	return domain.ChargeResult{
		TransactionID: fmt.Sprintf("txn_%s", uuid.NewString()),
	}, nil
}

// Refund имитирует возврат средств по transaction id.
func (g *MockGateway) Refund(ctx context.Context, transactionID string, amountMinor int64, currency string) (domain.RefundResult, error) {
	g.refundCalls.Add(1)
	g.mu.Lock()
	g.refunds = append(g.refunds, RefundRequest{
		TransactionID: transactionID,
		AmountMinor:   amountMinor,
		Currency:      currency,
	})
	g.mu.Unlock()

	if err := g.wait(ctx); err != nil {
		return domain.RefundResult{}, err
	}
	if g.Unavailable {
		return domain.RefundResult{}, &domain.GatewayError{
			Kind:    domain.ErrGatewayUnavailable,
			Message: "gateway unavailable",
		}
	}
	if g.RejectRefunds {
		return domain.RefundResult{}, &domain.GatewayError{
			Kind:    domain.ErrRefundRejected,
			Message: "refund rejected",
		}
	}

	return domain.RefundResult{
		RefundID: fmt.Sprintf("rfnd_%s", uuid.NewString()),
	}, nil
}

// ChargeCalls возвращает количество вызовов Charge.
func (g *MockGateway) ChargeCalls() int64 { return g.chargeCalls.Load() }

// RefundCalls возвращает количество вызовов Refund.
func (g *MockGateway) RefundCalls() int64 { return g.refundCalls.Load() }

// LastCharge возвращает последний запрос на списание.
func (g *MockGateway) LastCharge() (domain.ChargeRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.charges) == 0 {
		return domain.ChargeRequest{}, false
	}
	return g.charges[len(g.charges)-1], true
}

// LastRefund возвращает последний запрос на возврат.
func (g *MockGateway) LastRefund() (RefundRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.refunds) == 0 {
		return RefundRequest{}, false
	}
	return g.refunds[len(g.refunds)-1], true
}

func (g *MockGateway) wait(ctx context.Context) error {
	if g.Latency <= 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	}
	timer := time.NewTimer(g.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
