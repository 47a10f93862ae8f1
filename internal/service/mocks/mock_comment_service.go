package mocks

import (
	"context"

	"textok/internal/model"
	"textok/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) comment(args mock.Arguments) (*model.Comment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, userID int64, req service.CreateCommentRequest) (*model.Comment, error) {
	return m.comment(m.Called(ctx, userID, req))
}

func (m *MockCommentService) Update(ctx context.Context, p *model.Principal, id int64, content string) (*model.Comment, error) {
	return m.comment(m.Called(ctx, p, id, content))
}

func (m *MockCommentService) Delete(ctx context.Context, p *model.Principal, id int64) error {
	args := m.Called(ctx, p, id)
	return args.Error(0)
}

func (m *MockCommentService) DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error {
	args := m.Called(ctx, targetType, targetID)
	return args.Error(0)
}

func (m *MockCommentService) CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, targetType, targetIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockCommentService) Count(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentService) Activities(ctx context.Context, userID int64, targetType model.CommentTargetType, page, size int) (*service.ActivityPage, error) {
	args := m.Called(ctx, userID, targetType, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivityPage), args.Error(1)
}
