package redis

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

func openRedisForIntegrationTest(t *testing.T) *goredis.Client {
	t.Helper()

	addr := strings.TrimSpace(os.Getenv("FULFILLMENT_REDIS_TEST_ADDR"))
	if addr == "" {
		addr = "localhost:6379"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis is not available for integration tests: %v", err)
	}

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cleanupCancel()
		keys, err := client.Keys(cleanupCtx, keyPrefix+"*").Result()
		if err == nil && len(keys) > 0 {
			_ = client.Del(cleanupCtx, keys...).Err()
		}
		_ = client.Close()
	})

	return client
}

func TestIdempotencyRepository_RedisLifecycle(t *testing.T) {
	client := openRedisForIntegrationTest(t)
	repo := NewIdempotencyRepositoryWithClient(client)

	ttl := time.Now().UTC().Add(time.Hour)
	record, err := repo.CreateProcessing("redis-key-1", "hash-1", ttl)
	if err != nil {
		t.Fatalf("create processing: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("unexpected status: %s", record.Status)
	}

	if _, err := repo.CreateProcessing("redis-key-1", "hash-1", ttl); !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected ErrIdempotencyKeyAlreadyExists, got %v", err)
	}
	if _, err := repo.CreateProcessing("redis-key-1", "hash-2", ttl); !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}

	body := []byte(`{"order_id":"order-1","status":"paid"}`)
	if err := repo.MarkDone("redis-key-1", body); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	stored, err := repo.Get("redis-key-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.IdempotencyStatusDone {
		t.Fatalf("unexpected status: %s", stored.Status)
	}
	if string(stored.ResponseBody) != string(body) {
		t.Fatalf("unexpected response body: %s", stored.ResponseBody)
	}
}

func TestIdempotencyRepository_RedisMissingKey(t *testing.T) {
	client := openRedisForIntegrationTest(t)
	repo := NewIdempotencyRepositoryWithClient(client)

	if _, err := repo.Get("redis-missing"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected ErrIdempotencyKeyNotFound, got %v", err)
	}
	if err := repo.MarkFailed("redis-missing", nil); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected ErrIdempotencyKeyNotFound, got %v", err)
	}
}

func TestIdempotencyRepository_RedisValidation(t *testing.T) {
	client := openRedisForIntegrationTest(t)
	repo := NewIdempotencyRepositoryWithClient(client)

	if _, err := repo.CreateProcessing("", "hash", time.Time{}); !errors.Is(err, domain.ErrIdempotencyKeyRequired) {
		t.Fatalf("expected ErrIdempotencyKeyRequired, got %v", err)
	}
	if _, err := repo.CreateProcessing("key", "", time.Time{}); !errors.Is(err, domain.ErrIdempotencyRequestHashRequired) {
		t.Fatalf("expected ErrIdempotencyRequestHashRequired, got %v", err)
	}
}
