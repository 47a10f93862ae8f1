package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) SendCode(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockVerificationService) VerifyCode(ctx context.Context, email, code string) (string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.Error(1)
}

func (m *MockVerificationService) IsValidToken(ctx context.Context, email, token string) (bool, error) {
	args := m.Called(ctx, email, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockVerificationService) DeleteToken(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
