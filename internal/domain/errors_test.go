package domain_test

import (
	"fmt"
	"testing"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

func TestIsVersionConflict(t *testing.T) {
	if !domain.IsVersionConflict(domain.ErrOrderVersionConflict) {
		t.Error("plain conflict error must be detected")
	}
	wrapped := fmt.Errorf("update order: %w", domain.ErrOrderVersionConflict)
	if !domain.IsVersionConflict(wrapped) {
		t.Error("wrapped conflict error must be detected")
	}
	if domain.IsVersionConflict(domain.ErrOrderNotFound) {
		t.Error("not found must not be a version conflict")
	}
}

func TestIsValidation(t *testing.T) {
	valid := []error{
		domain.ErrItemsRequired,
		domain.ErrTooManyItems,
		fmt.Errorf("place order: %w", domain.ErrItemQtyInvalid),
	}
	for _, err := range valid {
		if !domain.IsValidation(err) {
			t.Errorf("expected %v to be a validation error", err)
		}
	}

	invalid := []error{
		domain.ErrOrderNotFound,
		domain.ErrPaymentDeclined,
		domain.ErrOrderVersionConflict,
	}
	for _, err := range invalid {
		if domain.IsValidation(err) {
			t.Errorf("expected %v to not be a validation error", err)
		}
	}
}
