package repository

import (
	"context"
	"errors"

	"textok/internal/model"
)

// Returned by Create and Update when a unique column already holds the value.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateNickname = errors.New("nickname already exists")
)

// UserRepository defines data access for users using SQL queries only.
// Lookups return sql.ErrNoRows when no row matches.
// Writes return ErrDuplicateUsername or ErrDuplicateNickname on unique violations.
type UserRepository interface {
	// Create inserts a new user and returns it with ID and timestamps filled.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByNickname(ctx context.Context, nickname string) (*model.User, error)

	// List returns every user that completed registration, newest first.
	List(ctx context.Context) ([]model.User, error)

	// Search matches keyword against nickname and username, case-insensitively.
	Search(ctx context.Context, keyword string) ([]model.User, error)

	// Update persists every mutable column of u and refreshes UpdatedAt.
	Update(ctx context.Context, u *model.User) error

	// DeleteCompletely removes the user and everything it owns in one transaction.
	DeleteCompletely(ctx context.Context, id int64) error
}
