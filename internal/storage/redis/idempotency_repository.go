package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

const (
	keyPrefix = "fulfillment:idem:"
	opTimeout = 3 * time.Second
)

// record — сериализуемое представление IdempotencyRecord в Redis.
type record struct {
	Key          string    `json:"key"`
	RequestHash  string    `json:"request_hash"`
	ResponseBody []byte    `json:"response_body,omitempty"`
	Status       string    `json:"status"`
	TTLAt        time.Time `json:"ttl_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type idempotencyRepository struct {
	client *redis.Client
}

// NewIdempotencyRepository создаёт Redis-реализацию IdempotencyRepository.
// Протухание записей делегируется Redis через TTL ключа; DeleteExpired
// остаётся no-op для совместимости с cleanup worker.
func NewIdempotencyRepository(addr string) domain.IdempotencyRepository {
	return &idempotencyRepository{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// NewIdempotencyRepositoryWithClient принимает готовый клиент (для тестов).
func NewIdempotencyRepositoryWithClient(client *redis.Client) domain.IdempotencyRepository {
	return &idempotencyRepository{client: client}
}

func (r *idempotencyRepository) CreateProcessing(key, requestHash string, ttlAt time.Time) (domain.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	requestHash = strings.TrimSpace(requestHash)

	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}
	if requestHash == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyRequestHashRequired
	}

	now := time.Now().UTC()
	if ttlAt.IsZero() {
		ttlAt = now.Add(24 * time.Hour)
	}

	rec := record{
		Key:         key,
		RequestHash: requestHash,
		Status:      string(domain.IdempotencyStatusProcessing),
		TTLAt:       ttlAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("marshal idempotency record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	created, err := r.client.SetNX(ctx, redisKey(key), body, time.Until(ttlAt)).Result()
	if err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("setnx idempotency key: %w", err)
	}
	if !created {
		existing, getErr := r.Get(key)
		if getErr != nil {
			return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyAlreadyExists
		}
		if existing.RequestHash != requestHash {
			return existing, domain.ErrIdempotencyHashMismatch
		}
		return existing, domain.ErrIdempotencyKeyAlreadyExists
	}

	return toDomain(rec), nil
}

func (r *idempotencyRepository) Get(key string) (domain.IdempotencyRecord, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyRequired
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	raw, err := r.client.Get(ctx, redisKey(key)).Result()
	if err == redis.Nil {
		return domain.IdempotencyRecord{}, domain.ErrIdempotencyKeyNotFound
	}
	if err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("get idempotency key: %w", err)
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.IdempotencyRecord{}, fmt.Errorf("unmarshal idempotency record: %w", err)
	}

	result := toDomain(rec)
	if !result.Status.Valid() {
		return domain.IdempotencyRecord{}, fmt.Errorf("invalid idempotency status %q for key %s", rec.Status, key)
	}

	return result, nil
}

func (r *idempotencyRepository) MarkDone(key string, responseBody []byte) error {
	return r.markStatus(key, domain.IdempotencyStatusDone, responseBody)
}

func (r *idempotencyRepository) MarkFailed(key string, responseBody []byte) error {
	return r.markStatus(key, domain.IdempotencyStatusFailed, responseBody)
}

// DeleteExpired не нужен для Redis: протухшие ключи удаляет сам сервер.
func (r *idempotencyRepository) DeleteExpired(before time.Time, limit int) (int, error) {
	return 0, nil
}

func (r *idempotencyRepository) markStatus(key string, status domain.IdempotencyStatus, responseBody []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrIdempotencyKeyRequired
	}

	existing, err := r.Get(key)
	if err != nil {
		return err
	}

	rec := record{
		Key:          existing.Key,
		RequestHash:  existing.RequestHash,
		ResponseBody: append([]byte(nil), responseBody...),
		Status:       string(status),
		TTLAt:        existing.TTLAt,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// KeepTTL сохраняет исходный срок жизни ключа.
	if err := r.client.Set(ctx, redisKey(key), body, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update idempotency key: %w", err)
	}

	return nil
}

func redisKey(key string) string {
	return keyPrefix + key
}

func toDomain(rec record) domain.IdempotencyRecord {
	return domain.IdempotencyRecord{
		Key:          rec.Key,
		RequestHash:  rec.RequestHash,
		ResponseBody: append([]byte(nil), rec.ResponseBody...),
		Status:       domain.IdempotencyStatus(rec.Status),
		TTLAt:        rec.TTLAt,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

var _ domain.IdempotencyRepository = (*idempotencyRepository)(nil)
