package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Policy содержит настраиваемые параметры оформления заказа.
// Значения неизменяемы в течение одного вызова workflow.
type Policy struct {
	// TaxRate — ставка налога, применяется к subtotal с однократным
	// округлением до минимальной денежной единицы.
	TaxRate decimal.Decimal
	// MaxItemsPerOrder ограничивает число позиций в одном заказе.
	MaxItemsPerOrder int
	// RequireConfirmation включает отправку подтверждения после оплаты.
	RequireConfirmation bool
	// PaymentTimeout ограничивает время ожидания ответа шлюза.
	PaymentTimeout time.Duration
	// DefaultCurrency используется, если запрос не указал валюту.
	DefaultCurrency string
}

// DefaultPolicy возвращает параметры по умолчанию: 18% налога,
// до 50 позиций, подтверждение включено.
func DefaultPolicy() Policy {
	return Policy{
		TaxRate:             decimal.NewFromFloat(0.18),
		MaxItemsPerOrder:    50,
		RequireConfirmation: true,
		PaymentTimeout:      10 * time.Minute,
		DefaultCurrency:     "INR",
	}
}

// Validate проверяет согласованность политики.
func (p Policy) Validate() error {
	if p.TaxRate.IsNegative() {
		return errors.New("tax rate must be non-negative")
	}
	if p.MaxItemsPerOrder <= 0 {
		return errors.New("max items per order must be positive")
	}
	if p.PaymentTimeout <= 0 {
		return errors.New("payment timeout must be positive")
	}
	if p.DefaultCurrency == "" {
		return errors.New("default currency is required")
	}
	return nil
}

// TaxFor считает налог от subtotal в минимальных единицах.
// Округление выполняется ровно один раз, дальше сумма не пересчитывается.
func (p Policy) TaxFor(subtotalMinor int64) int64 {
	return decimal.NewFromInt(subtotalMinor).Mul(p.TaxRate).Round(0).IntPart()
}
