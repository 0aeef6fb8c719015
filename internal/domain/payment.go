package domain

// ChargeRequest описывает запрос на списание в платёжный шлюз.
// Metadata связывает платёж с заказом и клиентом: шлюз использует её
// для идемпотентных повторов и сверки на своей стороне.
type ChargeRequest struct {
	AmountMinor     int64
	Currency        string
	InstrumentToken string
	Description     string
	Metadata        map[string]string
}

// ChargeResult возвращается шлюзом при успешном списании.
type ChargeResult struct {
	TransactionID string
}

// RefundResult возвращается шлюзом при успешном возврате.
type RefundResult struct {
	RefundID string
}

// GatewayError несёт человекочитаемое сообщение шлюза и оборачивает
// один из сентинелов: ErrPaymentDeclined, ErrGatewayUnavailable, ErrRefundRejected.
type GatewayError struct {
	Kind    error
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Kind
}
