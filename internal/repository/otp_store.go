package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOTPStore keeps one-time codes in Redis and lets key expiry evict them.
type RedisOTPStore struct {
	client *redis.Client
}

// NewOTPStore creates a new OTPStore backed by Redis
func NewOTPStore(client *redis.Client) OTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, NormalizeEmail(email))
}

func otpAttemptsKey(purpose, email string) string {
	return otpKey(purpose, email) + ":attempts"
}

// Save stores a code for (purpose, email), replacing any previous one
func (s *RedisOTPStore) Save(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, otpKey(purpose, email), code, ttl)
	pipe.Del(ctx, otpAttemptsKey(purpose, email))
	_, err := pipe.Exec(ctx)
	return err
}

// Get returns the stored code
func (s *RedisOTPStore) Get(ctx context.Context, purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOTPNotFound
	}
	return code, err
}

// IncrementAttempts counts a failed verification; the counter expires with the code
func (s *RedisOTPStore) IncrementAttempts(ctx context.Context, purpose, email string) (int64, error) {
	key := otpAttemptsKey(purpose, email)

	ttl, err := s.client.TTL(ctx, otpKey(purpose, email)).Result()
	if err != nil {
		return 0, err
	}
	if ttl <= 0 {
		return 0, ErrOTPNotFound
	}

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// Delete removes the code and its attempt counter
func (s *RedisOTPStore) Delete(ctx context.Context, purpose, email string) error {
	return s.client.Del(ctx, otpKey(purpose, email), otpAttemptsKey(purpose, email)).Err()
}
