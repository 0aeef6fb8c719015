package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/fulfillment/internal/health"
	"github.com/vladislavdragonenkov/fulfillment/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/fulfillment/internal/metrics"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/idempotency"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/notification"
	outboxsvc "github.com/vladislavdragonenkov/fulfillment/internal/service/outbox"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/payment"
	"github.com/vladislavdragonenkov/fulfillment/internal/service/workflow"
	"github.com/vladislavdragonenkov/fulfillment/internal/version"
)

// Run собирает зависимости и запускает сервис до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := deps.Close(); closeErr != nil {
			logger.WithError(closeErr).Warn("failed to close storage")
		}
	}()

	producer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.Warn("running without kafka: events stay in outbox until broker is available")
	}
	defer closeKafka(producer, logger)

	// NOTE: mock-шлюз для разработки; боевой клиент платёжного провайдера
	// подключается здесь же через domain.PaymentGateway.
	gateway := payment.NewMockGateway()

	notifier := buildNotifier(producer, logger)

	wf, err := workflow.New(workflow.Config{
		Orders:      deps.Orders,
		Outbox:      deps.Outbox,
		Timeline:    deps.Timeline,
		Idempotency: deps.Idempotency,
		Gateway:     gateway,
		Notifier:    notifier,
		Policy:      policyFromConfig(cfg),
		Logger:      logger.WithField("layer", "workflow"),
		Metrics:     metrics.NewWorkflowMetrics(),
	})
	if err != nil {
		return err
	}

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.Register("postgres", func(checkCtx context.Context) error {
			return deps.Store.Ping(checkCtx)
		})
	}

	var wg sync.WaitGroup

	if producer != nil {
		publisher := kafka.NewOutboxPublisher(producer, cfg.EventTopic)
		dlqPublisher := kafka.NewOutboxPublisher(producer, cfg.DLQTopic)
		worker := outboxsvc.NewWorker(
			deps.Outbox,
			publisher,
			outboxsvc.WithLogger(logger.WithField("component", "outbox-worker")),
			outboxsvc.WithDLQPublisher(dlqPublisher),
			outboxsvc.WithPollInterval(cfg.OutboxPollInterval),
			outboxsvc.WithBatchSize(cfg.OutboxBatchSize),
			outboxsvc.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outboxsvc.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}

	// Redis чистит ключи через TTL самостоятельно, воркер нужен только
	// для postgres и memory хранилищ.
	if cfg.RedisAddr == "" {
		cleanup := idempotency.NewCleanupWorker(
			deps.Idempotency,
			idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup-worker")),
			idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
			idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			cleanup.Run(ctx)
		}()
	}

	var consumer *kafka.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		handler := newCommandHandler(wf, logger.WithField("component", "command-handler"))
		consumer, err = kafka.NewConsumerWithDLQ(
			cfg.KafkaBrokers,
			cfg.KafkaConsumerGroup,
			[]string{cfg.CommandTopic},
			handler.Handle,
			producer,
			cfg.ConsumerMaxRetries,
		)
		if err != nil {
			logger.WithError(err).Warn("failed to create command consumer, continuing without command ingress")
			consumer = nil
		} else {
			if startErr := consumer.Start(ctx); startErr != nil {
				logger.WithError(startErr).Warn("failed to start command consumer")
				consumer = nil
			} else {
				logger.WithFields(log.Fields{
					"group": cfg.KafkaConsumerGroup,
					"topic": cfg.CommandTopic,
				}).Info("command consumer started")
			}
		}
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping service")

	if consumer != nil {
		if stopErr := consumer.Stop(); stopErr != nil {
			logger.WithError(stopErr).Warn("failed to stop command consumer")
		}
	}
	wg.Wait()
	shutdownHTTP(metricsSrv, logger)

	return ctx.Err()
}

// policyFromConfig строит доменную политику из настроек сервиса.
func policyFromConfig(cfg Config) domain.Policy {
	policy := domain.DefaultPolicy()
	policy.TaxRate = cfg.TaxRate
	if cfg.MaxItemsPerOrder > 0 {
		policy.MaxItemsPerOrder = cfg.MaxItemsPerOrder
	}
	if cfg.PaymentTimeout > 0 {
		policy.PaymentTimeout = cfg.PaymentTimeout
	}
	if cfg.DefaultCurrency != "" {
		policy.DefaultCurrency = cfg.DefaultCurrency
	}
	policy.RequireConfirmation = cfg.RequireConfirmation
	return policy
}

// buildNotifier собирает канал уведомлений: Kafka при наличии брокера,
// лог-отправитель всегда.
func buildNotifier(producer *kafka.Producer, logger *log.Entry) *notification.FanoutSender {
	logSender := notification.NewLogSender(logger.WithField("component", "notification-log"))
	if producer == nil {
		return notification.NewFanoutSender(logSender)
	}

	kafkaSender, err := notification.NewKafkaSender(producer, notification.DefaultNotificationTopic)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka notification sender")
		return notification.NewFanoutSender(logSender)
	}
	return notification.NewFanoutSender(kafkaSender, logSender)
}

// startMetricsServer поднимает HTTP-сервер с метриками и health-эндпоинтами.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("metrics available at %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
