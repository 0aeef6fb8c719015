package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	"github.com/vladislavdragonenkov/fulfillment/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/workflow"
)

// commandHandler транслирует команды из Kafka в операции workflow.
type commandHandler struct {
	wf     *workflow.Workflow
	logger *log.Entry
}

func newCommandHandler(wf *workflow.Workflow, logger *log.Entry) *commandHandler {
	if logger == nil {
		logger = log.WithField("component", "command-handler")
	}
	return &commandHandler{wf: wf, logger: logger}
}

// Handle обрабатывает одно сообщение командного топика.
// Возвращённая ошибка приводит к retry и затем DLQ на стороне consumer.
func (h *commandHandler) Handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	cmd, err := kafka.ParseOrderCommand(message)
	if err != nil {
		// Сообщение не распарсится и при повторе: сразу в DLQ без retry
		// смысла нет, но consumer сам решает судьбу по max retries.
		return fmt.Errorf("parse order command: %w", err)
	}

	logger := h.logger.WithFields(log.Fields{
		"command":   cmd.CommandType,
		"order_id":  cmd.OrderID,
		"partition": message.Partition,
		"offset":    message.Offset,
	})

	var result workflow.Result
	switch cmd.CommandType {
	case kafka.CommandTypePlaceOrder:
		result = h.wf.Place(ctx, placeRequestFromCommand(cmd))
	case kafka.CommandTypeCancelOrder:
		result = h.wf.Cancel(ctx, cmd.OrderID, cmd.Reason)
	case kafka.CommandTypeRefundOrder:
		result = h.wf.Refund(ctx, cmd.OrderID, cmd.Reason)
	default:
		return fmt.Errorf("unknown command type: %s", cmd.CommandType)
	}

	if result.Err != nil {
		// Бизнес-отказы (невалидный запрос, недопустимый переход,
		// отклонённый платёж) финальны: повтор даст тот же исход.
		if isPermanentFailure(result.Err) {
			logger.WithError(result.Err).Warn("command rejected")
			return nil
		}
		logger.WithError(result.Err).Error("command processing failed")
		return result.Err
	}

	logger.WithField("status", result.Status).Info("command processed")
	return nil
}

func placeRequestFromCommand(cmd *kafka.OrderCommand) workflow.PlaceOrderRequest {
	items := make([]workflow.ItemRequest, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, workflow.ItemRequest{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			Qty:            item.Qty,
			UnitPriceMinor: item.UnitPriceMinor,
		})
	}
	return workflow.PlaceOrderRequest{
		CustomerID:     cmd.CustomerID,
		CustomerEmail:  cmd.CustomerEmail,
		Currency:       cmd.Currency,
		Items:          items,
		PaymentToken:   cmd.PaymentToken,
		IdempotencyKey: cmd.IdempotencyKey,
	}
}

// isPermanentFailure отличает окончательные бизнес-отказы от временных
// сбоев инфраструктуры, которые стоит повторить.
func isPermanentFailure(err error) bool {
	if domain.IsValidation(err) {
		return true
	}
	for _, sentinel := range []error{
		domain.ErrOrderNotFound,
		domain.ErrInvalidTransition,
		domain.ErrNoPaymentToRefund,
		domain.ErrPaymentDeclined,
		domain.ErrRefundRejected,
		domain.ErrIdempotencyHashMismatch,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
