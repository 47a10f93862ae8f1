package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"textok/internal/model"
)

type MockRefreshTokenStore struct {
	mock.Mock
}

func (m *MockRefreshTokenStore) Save(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenStore) Find(ctx context.Context, userID int64) (*model.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenStore) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockVerificationStore struct {
	mock.Mock
}

func (m *MockVerificationStore) SaveCode(ctx context.Context, email, code string, ttl time.Duration) error {
	args := m.Called(ctx, email, code, ttl)
	return args.Error(0)
}

func (m *MockVerificationStore) FindCode(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationStore) DeleteCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockVerificationStore) IncrCodeAttempts(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, email, ttl)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationStore) SaveToken(ctx context.Context, email, token string, ttl time.Duration) error {
	args := m.Called(ctx, email, token, ttl)
	return args.Error(0)
}

func (m *MockVerificationStore) FindToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationStore) DeleteToken(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
