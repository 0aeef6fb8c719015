package payment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/payment"
)

func TestMockGatewayChargeSuccess(t *testing.T) {
	gw := payment.NewMockGateway()

	result, err := gw.Charge(context.Background(), domain.ChargeRequest{
		AmountMinor:     23600,
		Currency:        "INR",
		InstrumentToken: "tok_test",
	})
	if err != nil {
		t.Fatalf("Charge returned error: %v", err)
	}
	if !strings.HasPrefix(result.TransactionID, "txn_") {
		t.Errorf("expected txn_ prefix, got %q", result.TransactionID)
	}
	if gw.ChargeCalls() != 1 {
		t.Errorf("expected 1 charge call, got %d", gw.ChargeCalls())
	}

	last, ok := gw.LastCharge()
	if !ok {
		t.Fatal("expected recorded charge request")
	}
	if last.AmountMinor != 23600 || last.Currency != "INR" {
		t.Errorf("unexpected recorded charge: %+v", last)
	}
}

func TestMockGatewayDecline(t *testing.T) {
	gw := payment.NewMockGateway()
	gw.DeclineCharges = true
	gw.DeclineMessage = "Card declined"

	_, err := gw.Charge(context.Background(), domain.ChargeRequest{AmountMinor: 100, Currency: "INR"})
	if !errors.Is(err, domain.ErrPaymentDeclined) {
		t.Fatalf("expected ErrPaymentDeclined, got %v", err)
	}
	if err.Error() != "Card declined" {
		t.Errorf("expected gateway message, got %q", err.Error())
	}
}

func TestMockGatewayUnavailable(t *testing.T) {
	gw := payment.NewMockGateway()
	gw.Unavailable = true

	if _, err := gw.Charge(context.Background(), domain.ChargeRequest{AmountMinor: 1}); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable on charge, got %v", err)
	}
	if _, err := gw.Refund(context.Background(), "txn_1", 1, "INR"); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Errorf("expected ErrGatewayUnavailable on refund, got %v", err)
	}
}

func TestMockGatewayRefund(t *testing.T) {
	gw := payment.NewMockGateway()

	result, err := gw.Refund(context.Background(), "txn_123", 23600, "INR")
	if err != nil {
		t.Fatalf("Refund returned error: %v", err)
	}
	if !strings.HasPrefix(result.RefundID, "rfnd_") {
		t.Errorf("expected rfnd_ prefix, got %q", result.RefundID)
	}

	last, ok := gw.LastRefund()
	if !ok {
		t.Fatal("expected recorded refund request")
	}
	if last.TransactionID != "txn_123" || last.AmountMinor != 23600 || last.Currency != "INR" {
		t.Errorf("unexpected recorded refund: %+v", last)
	}

	gw.RejectRefunds = true
	if _, err := gw.Refund(context.Background(), "txn_123", 23600, "INR"); !errors.Is(err, domain.ErrRefundRejected) {
		t.Errorf("expected ErrRefundRejected, got %v", err)
	}
	if gw.RefundCalls() != 2 {
		t.Errorf("expected 2 refund calls, got %d", gw.RefundCalls())
	}
}

func TestMockGatewayLatencyHonorsContext(t *testing.T) {
	gw := payment.NewMockGateway()
	gw.Latency = 200 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Charge(ctx, domain.ChargeRequest{AmountMinor: 1})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
