package redisstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"textok/internal/repository"
)

const (
	verificationCodePrefix     = "verification:code:"
	verificationAttemptsPrefix = "verification:attempts:"
	verificationTokenPrefix    = "verification:token:"
)

// VerificationRedis stores email verification codes and verified tokens.
type VerificationRedis struct {
	client redis.Cmdable
}

// NewVerificationRedis creates a new VerificationRedis store.
func NewVerificationRedis(client redis.Cmdable) *VerificationRedis {
	return &VerificationRedis{client: client}
}

var _ repository.VerificationStore = (*VerificationRedis)(nil)

// Emails are compared case-insensitively.
func emailKey(prefix, email string) string {
	return prefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *VerificationRedis) get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrNotFound
	}
	return v, err
}

func (s *VerificationRedis) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, emailKey(verificationCodePrefix, email), code, ttl).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, emailKey(verificationAttemptsPrefix, email)).Err()
}

func (s *VerificationRedis) FindCode(ctx context.Context, email string) (string, error) {
	return s.get(ctx, emailKey(verificationCodePrefix, email))
}

func (s *VerificationRedis) DeleteCode(ctx context.Context, email string) error {
	return s.client.Del(ctx, emailKey(verificationCodePrefix, email), emailKey(verificationAttemptsPrefix, email)).Err()
}

func (s *VerificationRedis) IncrCodeAttempts(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	key := emailKey(verificationAttemptsPrefix, email)
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, err
		}
	}
	return n, nil
}

func (s *VerificationRedis) SaveToken(ctx context.Context, email, token string, ttl time.Duration) error {
	return s.client.Set(ctx, emailKey(verificationTokenPrefix, email), token, ttl).Err()
}

func (s *VerificationRedis) FindToken(ctx context.Context, email string) (string, error) {
	return s.get(ctx, emailKey(verificationTokenPrefix, email))
}

func (s *VerificationRedis) DeleteToken(ctx context.Context, email string) error {
	return s.client.Del(ctx, emailKey(verificationTokenPrefix, email)).Err()
}
