package mocks

import (
	"context"

	"textok/internal/model"
	"textok/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) items(args mock.Arguments) ([]model.UserListItem, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserListItem), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]model.UserListItem, error) {
	return m.items(m.Called(ctx))
}

func (m *MockUserService) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockUserService) GetMine(ctx context.Context, id int64) (*model.MyProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MyProfile), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id int64, req service.UpdateProfileRequest, image *service.ImageUpload) (*model.UserDto, error) {
	args := m.Called(ctx, id, req, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserDto), args.Error(1)
}

func (m *MockUserService) IsAvailableNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, keyword string) ([]model.UserListItem, error) {
	return m.items(m.Called(ctx, keyword))
}
