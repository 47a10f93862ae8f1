// Package redisstore keeps short-lived auth state in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"textok/internal/model"
	"textok/internal/repository"
)

const refreshTokenPrefix = "refreshToken:"

// RefreshTokenRedis stores one refresh token per user under refreshToken:<userID>.
// The key expires with the token's TTL.
type RefreshTokenRedis struct {
	client redis.Cmdable
}

// NewRefreshTokenRedis creates a new RefreshTokenRedis store.
func NewRefreshTokenRedis(client redis.Cmdable) *RefreshTokenRedis {
	return &RefreshTokenRedis{client: client}
}

var _ repository.RefreshTokenStore = (*RefreshTokenRedis)(nil)

func refreshTokenKey(userID int64) string {
	return refreshTokenPrefix + strconv.FormatInt(userID, 10)
}

// Save overwrites any token already stored for the user.
func (s *RefreshTokenRedis) Save(ctx context.Context, t model.RefreshToken) error {
	if t.TTL <= 0 {
		return fmt.Errorf("refresh token ttl must be positive")
	}
	return s.client.Set(ctx, refreshTokenKey(t.UserID), t.Token, t.TTL).Err()
}

// Find returns the live token of a user along with its remaining TTL.
func (s *RefreshTokenRedis) Find(ctx context.Context, userID int64) (*model.RefreshToken, error) {
	key := refreshTokenKey(userID)
	token, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return &model.RefreshToken{UserID: userID, Token: token, TTL: ttl}, nil
}

// Delete is a no-op when the user has no token.
func (s *RefreshTokenRedis) Delete(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, refreshTokenKey(userID)).Err()
}
