package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"textok/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) users(args mock.Arguments) ([]model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) (*model.User, error) {
	return m.user(m.Called(ctx, u))
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return m.user(m.Called(ctx, nickname))
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	return m.users(m.Called(ctx))
}

func (m *MockUserRepository) Search(ctx context.Context, keyword string) ([]model.User, error) {
	return m.users(m.Called(ctx, keyword))
}

func (m *MockUserRepository) Update(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteCompletely(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
