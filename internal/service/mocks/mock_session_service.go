package mocks

import (
	"context"

	"textok/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Issue(ctx context.Context, userID int64, role model.Role) (*model.TokenPair, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenPair), args.Error(1)
}

func (m *MockSessionService) Find(ctx context.Context, userID int64) (*model.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}

func (m *MockSessionService) Revoke(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (string, *model.Principal, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.Principal), args.Error(2)
}
