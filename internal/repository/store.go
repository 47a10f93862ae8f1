package repository

import (
	"context"
	"errors"
	"time"

	"textok/internal/model"
)

// ErrNotFound is returned by key-value stores when a key is absent or expired.
var ErrNotFound = errors.New("not found")

// RefreshTokenStore keeps at most one refresh token per user with a TTL.
type RefreshTokenStore interface {
	Save(ctx context.Context, token model.RefreshToken) error
	// Find returns ErrNotFound when the user has no live refresh token.
	Find(ctx context.Context, userID int64) (*model.RefreshToken, error)
	Delete(ctx context.Context, userID int64) error
}

// VerificationStore keeps short-lived email verification codes and the
// tokens handed out once a code is verified.
type VerificationStore interface {
	SaveCode(ctx context.Context, email, code string, ttl time.Duration) error
	// FindCode returns ErrNotFound when no code is pending for email.
	FindCode(ctx context.Context, email string) (string, error)
	// DeleteCode removes the pending code and its failed attempt counter.
	DeleteCode(ctx context.Context, email string) error
	// IncrCodeAttempts counts a failed guess against the pending code. The
	// counter expires after ttl and is reset by SaveCode.
	IncrCodeAttempts(ctx context.Context, email string, ttl time.Duration) (int64, error)

	SaveToken(ctx context.Context, email, token string, ttl time.Duration) error
	// FindToken returns ErrNotFound when no verified token exists for email.
	FindToken(ctx context.Context, email string) (string, error)
	DeleteToken(ctx context.Context, email string) error
}
