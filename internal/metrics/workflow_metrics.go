package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics содержит метрики операций fulfillment workflow.
type WorkflowMetrics struct {
	// Счётчики исходов
	ordersPlaced   prometheus.Counter
	ordersPaid     prometheus.Counter
	paymentsFailed prometheus.Counter
	ordersCanceled prometheus.Counter
	ordersRefunded prometheus.Counter
	refundsFailed  prometheus.Counter

	// Гистограммы времени выполнения
	operationDuration *prometheus.HistogramVec

	// Побочные эффекты
	notificationsFailed prometheus.Counter
	versionConflicts    prometheus.Counter
	timelineEvents      prometheus.Counter
	outboxEvents        prometheus.Counter

	// Gauge активных операций
	activeOperations prometheus.Gauge
}

// NewWorkflowMetrics создаёт метрики и регистрирует их в default registerer.
func NewWorkflowMetrics() *WorkflowMetrics {
	return newWorkflowMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newWorkflowMetricsWithRegisterer(registerer prometheus.Registerer) *WorkflowMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &WorkflowMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_placed_total",
			Help: "Total number of place-order operations started",
		}),
		ordersPaid: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_paid_total",
			Help: "Total number of orders that reached paid status",
		}),
		paymentsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_payments_failed_total",
			Help: "Total number of charge attempts rejected by the gateway",
		}),
		ordersCanceled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_canceled_total",
			Help: "Total number of orders moved to canceled status",
		}),
		ordersRefunded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_orders_refunded_total",
			Help: "Total number of orders refunded in full",
		}),
		refundsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_refunds_failed_total",
			Help: "Total number of refund attempts rejected by the gateway",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "fulfillment_operation_duration_seconds",
			Help:    "Duration of workflow operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"operation"}),
		notificationsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_notifications_failed_total",
			Help: "Total number of best-effort notifications that failed to send",
		}),
		versionConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_version_conflicts_total",
			Help: "Total number of optimistic-lock conflicts observed during updates",
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "fulfillment_outbox_events_total",
			Help: "Total number of events enqueued into the transactional outbox",
		}),
		activeOperations: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "fulfillment_active_operations",
			Help: "Number of currently running workflow operations",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик запущенных размещений.
func (m *WorkflowMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordOrderPaid увеличивает счётчик оплаченных заказов.
func (m *WorkflowMetrics) RecordOrderPaid() {
	m.ordersPaid.Inc()
}

// RecordPaymentFailed увеличивает счётчик отклонённых платежей.
func (m *WorkflowMetrics) RecordPaymentFailed() {
	m.paymentsFailed.Inc()
}

// RecordOrderCanceled увеличивает счётчик отменённых заказов.
func (m *WorkflowMetrics) RecordOrderCanceled() {
	m.ordersCanceled.Inc()
}

// RecordOrderRefunded увеличивает счётчик возвратов.
func (m *WorkflowMetrics) RecordOrderRefunded() {
	m.ordersRefunded.Inc()
}

// RecordRefundFailed увеличивает счётчик отклонённых возвратов.
func (m *WorkflowMetrics) RecordRefundFailed() {
	m.refundsFailed.Inc()
}

// RecordOperationDuration записывает время выполнения операции workflow.
func (m *WorkflowMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNotificationFailed увеличивает счётчик неудачных уведомлений.
func (m *WorkflowMetrics) RecordNotificationFailed() {
	m.notificationsFailed.Inc()
}

// RecordVersionConflict увеличивает счётчик конфликтов optimistic locking.
func (m *WorkflowMetrics) RecordVersionConflict() {
	m.versionConflicts.Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *WorkflowMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *WorkflowMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// OperationStarted увеличивает количество активных операций.
func (m *WorkflowMetrics) OperationStarted() {
	m.activeOperations.Inc()
}

// OperationFinished уменьшает количество активных операций.
func (m *WorkflowMetrics) OperationFinished() {
	m.activeOperations.Dec()
}
