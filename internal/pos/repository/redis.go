package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pushsport/pos/internal/pos/domain"
)

const (
	sessionKeyPrefix  = "pos:session:"
	checkoutKeyPrefix = "pos:checkout:"

	// A terminal left alone for a shift's length loses its session.
	sessionTTL = 12 * time.Hour

	// The checkout lock must outlive the slowest plausible submission
	// but still expire if the process dies mid-checkout.
	checkoutLockTTL = 30 * time.Second
)

// RedisSessionRepository stores sessions in redis so terminals survive a
// POS service restart and multiple replicas see the same sessions.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository creates a redis-backed session store.
func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func checkoutKey(id string) string {
	return checkoutKeyPrefix + id
}

func (r *RedisSessionRepository) write(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(session.ID), payload, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	return r.write(ctx, session)
}

func (r *RedisSessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.Session) error {
	exists, err := r.client.Exists(ctx, sessionKey(session.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if exists == 0 {
		return domain.ErrSessionNotFound
	}
	return r.write(ctx, session)
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, sessionKey(id), checkoutKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if deleted == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// BeginCheckout takes the per-session checkout lock with SETNX, so two
// replicas racing on the same session can never both enter Submitting.
func (r *RedisSessionRepository) BeginCheckout(ctx context.Context, id string) error {
	session, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	acquired, err := r.client.SetNX(ctx, checkoutKey(id), "1", checkoutLockTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !acquired {
		return domain.ErrCheckoutInFlight
	}

	session.Checkout = domain.CheckoutSubmitting
	return r.write(ctx, session)
}

func (r *RedisSessionRepository) EndCheckout(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, checkoutKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release checkout lock: %w", err)
	}

	session, err := r.Find(ctx, id)
	if err != nil {
		return err
	}
	session.Checkout = domain.CheckoutIdle
	return r.write(ctx, session)
}
