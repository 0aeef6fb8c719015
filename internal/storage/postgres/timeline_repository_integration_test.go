package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

func TestTimelineRepository_PostgresAppendList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewTimelineRepository(store)

	orderID := uuid.NewString()
	now := time.Now().UTC().Round(time.Microsecond)

	events := []domain.TimelineEvent{
		{OrderID: orderID, Type: "order.placed", Occurred: now.Add(-2 * time.Minute)},
		{OrderID: orderID, Type: "order.paid", Reason: "txn_123", Occurred: now.Add(-time.Minute)},
	}
	for _, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append %s: %v", event.Type, err)
		}
	}

	listed, err := repo.List(orderID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 events, got %d", len(listed))
	}
	if listed[0].Type != "order.placed" || listed[1].Type != "order.paid" {
		t.Fatalf("unexpected event order: %+v", listed)
	}
	if listed[1].Reason != "txn_123" {
		t.Fatalf("unexpected reason: %s", listed[1].Reason)
	}
}

func TestTimelineRepository_PostgresValidation(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewTimelineRepository(store)

	if err := repo.Append(domain.TimelineEvent{Type: "order.placed"}); err == nil {
		t.Fatal("expected error for missing order id")
	}
	if _, err := repo.List(""); err == nil {
		t.Fatal("expected error for empty order id")
	}
}
