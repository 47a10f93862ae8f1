package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"textok/internal/model"
	"textok/internal/repository"
	"textok/internal/security/token"
)

// SessionService manages the single refresh token a user may hold.
type SessionService interface {
	// Issue replaces any stored refresh token and returns a fresh token pair.
	Issue(ctx context.Context, userID int64, role model.Role) (*model.TokenPair, error)

	// Find returns repository.ErrNotFound when the user has no session.
	Find(ctx context.Context, userID int64) (*model.RefreshToken, error)

	Revoke(ctx context.Context, userID int64) error

	// Refresh exchanges a refresh token for a new access token. The refresh
	// token must match the stored one; a mismatch means the user logged in
	// elsewhere since.
	Refresh(ctx context.Context, refreshToken string) (string, *model.Principal, error)
}

type sessionService struct {
	tokens *token.Provider
	store  repository.RefreshTokenStore
	users  repository.UserRepository
}

// NewSessionService constructs a SessionService.
func NewSessionService(tokens *token.Provider, store repository.RefreshTokenStore, users repository.UserRepository) SessionService {
	return &sessionService{tokens: tokens, store: store, users: users}
}

func (s *sessionService) Issue(ctx context.Context, userID int64, role model.Role) (*model.TokenPair, error) {
	if err := s.store.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete refresh token: %w", err)
	}
	access, err := s.tokens.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, model.RefreshToken{UserID: userID, Token: refresh, TTL: s.tokens.RefreshTTL()}); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *sessionService) Find(ctx context.Context, userID int64) (*model.RefreshToken, error) {
	return s.store.Find(ctx, userID)
}

func (s *sessionService) Revoke(ctx context.Context, userID int64) error {
	return s.store.Delete(ctx, userID)
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (string, *model.Principal, error) {
	userID, err := s.tokens.UserID(refreshToken)
	if err != nil {
		return "", nil, ErrInvalidRefreshToken
	}

	stored, err := s.store.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrSessionExpired
		}
		return "", nil, err
	}
	if stored.Token != refreshToken {
		return "", nil, ErrLoggedInElsewhere
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, ErrSessionExpired
		}
		return "", nil, err
	}

	access, err := s.tokens.GenerateAccessToken(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	return access, &model.Principal{UserID: u.ID, Role: u.Role}, nil
}
