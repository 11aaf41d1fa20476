package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// IdempotencyRepository remembers which order an Idempotency-Key produced.
// A key moves from "pending" to the order id once the order is committed.
type IdempotencyRepository struct {
	client *redis.Client
}

func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{
		client: client,
	}
}

func idempotencyKey(key string) string {
	// key format: "idempotency:order:{user_id}:{client_key}"
	return fmt.Sprintf("idempotency:order:%s", key)
}

// Reserve claims key for a new request. When the key is already held it
// returns the stored value: the order id, or "" if still in flight.
func (r *IdempotencyRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKey(key), pendingMarker, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := r.client.Get(ctx, idempotencyKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET, let the caller retry
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == pendingMarker {
		return "", false, nil
	}

	return val, false, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, orderID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, idempotencyKey(key), orderID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency result: %w", err)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}
