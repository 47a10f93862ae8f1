package mocks

import (
	"context"

	"textok/internal/model"
	"textok/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Join(ctx context.Context, req service.JoinRequest) (*model.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAuthService) FindOrCreateOAuth2User(ctx context.Context, username, profileImgURL string) (*model.User, error) {
	return m.user(m.Called(ctx, username, profileImgURL))
}

func (m *MockAuthService) CompleteOAuth2Join(ctx context.Context, req service.CompleteOAuth2JoinRequest) (*model.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAuthService) Login(ctx context.Context, req service.LoginRequest) (*model.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockAuthService) Logout(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) PasswordReset(ctx context.Context, req service.PasswordResetRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockAuthService) IsAvailableUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) GetEmailByUsername(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Withdraw(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, p *model.Principal) (*model.UserDto, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDto), args.Error(1)
}
