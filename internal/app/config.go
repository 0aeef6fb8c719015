package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StorageDriver определяет хранилище заказов.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool
	RedisAddr           string

	KafkaBrokers       []string
	KafkaConsumerGroup string
	CommandTopic       string
	EventTopic         string
	DLQTopic           string
	ConsumerMaxRetries int

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int

	TaxRate             decimal.Decimal
	DefaultCurrency     string
	MaxItemsPerOrder    int
	PaymentTimeout      time.Duration
	RequireConfirmation bool
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		MetricsAddr: ":9090",

		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,

		KafkaConsumerGroup: "fulfillment-service",
		CommandTopic:       "fulfillment.order.commands",
		EventTopic:         "fulfillment.order.events",
		DLQTopic:           "fulfillment.dlq",
		ConsumerMaxRetries: 3,

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,

		IdempotencyCleanupInterval:  10 * time.Minute,
		IdempotencyCleanupBatchSize: 500,

		TaxRate:             decimal.NewFromFloat(0.18),
		DefaultCurrency:     "INR",
		MaxItemsPerOrder:    50,
		PaymentTimeout:      10 * time.Minute,
		RequireConfirmation: true,
	}
}

// LoadConfig читает конфигурацию из переменных окружения FULFILLMENT_*,
// подставляя значения по умолчанию вместо пустых и некорректных.
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.MetricsAddr = envString("FULFILLMENT_METRICS_ADDR", cfg.MetricsAddr)

	if driver := strings.ToLower(envString("FULFILLMENT_STORAGE_DRIVER", string(cfg.StorageDriver))); driver != "" {
		cfg.StorageDriver = StorageDriver(driver)
	}
	cfg.PostgresDSN = envString("FULFILLMENT_POSTGRES_DSN", cfg.PostgresDSN)
	cfg.PostgresAutoMigrate = envBool("FULFILLMENT_POSTGRES_AUTO_MIGRATE", cfg.PostgresAutoMigrate)
	cfg.RedisAddr = envString("FULFILLMENT_REDIS_ADDR", cfg.RedisAddr)

	if brokers := envString("FULFILLMENT_KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	cfg.KafkaConsumerGroup = envString("FULFILLMENT_KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.CommandTopic = envString("FULFILLMENT_COMMAND_TOPIC", cfg.CommandTopic)
	cfg.EventTopic = envString("FULFILLMENT_EVENT_TOPIC", cfg.EventTopic)
	cfg.DLQTopic = envString("FULFILLMENT_DLQ_TOPIC", cfg.DLQTopic)
	cfg.ConsumerMaxRetries = envInt("FULFILLMENT_CONSUMER_MAX_RETRIES", cfg.ConsumerMaxRetries)

	cfg.OutboxPollInterval = envDuration("FULFILLMENT_OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = envInt("FULFILLMENT_OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxAttempts = envInt("FULFILLMENT_OUTBOX_MAX_ATTEMPTS", cfg.OutboxMaxAttempts)
	cfg.OutboxRetryDelay = envDuration("FULFILLMENT_OUTBOX_RETRY_DELAY", cfg.OutboxRetryDelay)

	cfg.IdempotencyCleanupInterval = envDuration("FULFILLMENT_IDEMPOTENCY_CLEANUP_INTERVAL", cfg.IdempotencyCleanupInterval)
	cfg.IdempotencyCleanupBatchSize = envInt("FULFILLMENT_IDEMPOTENCY_CLEANUP_BATCH_SIZE", cfg.IdempotencyCleanupBatchSize)

	if rate := envString("FULFILLMENT_TAX_RATE", ""); rate != "" {
		if parsed, err := decimal.NewFromString(rate); err == nil && !parsed.IsNegative() {
			cfg.TaxRate = parsed
		}
	}
	cfg.DefaultCurrency = envString("FULFILLMENT_DEFAULT_CURRENCY", cfg.DefaultCurrency)
	cfg.MaxItemsPerOrder = envInt("FULFILLMENT_MAX_ITEMS_PER_ORDER", cfg.MaxItemsPerOrder)
	cfg.PaymentTimeout = envDuration("FULFILLMENT_PAYMENT_TIMEOUT", cfg.PaymentTimeout)
	cfg.RequireConfirmation = envBool("FULFILLMENT_REQUIRE_CONFIRMATION", cfg.RequireConfirmation)

	return cfg
}

func envString(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envBool(name string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
