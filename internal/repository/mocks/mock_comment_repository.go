package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"textok/internal/model"
	"textok/internal/repository"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error) {
	args := m.Called(ctx, targetType, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommentRepository) DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error {
	args := m.Called(ctx, targetType, targetID)
	return args.Error(0)
}

func (m *MockCommentRepository) CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, targetType, targetIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockCommentRepository) CountByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) UserActivities(ctx context.Context, userID int64, targetType model.CommentTargetType, pq repository.PageQuery) (*repository.PageResult[model.CommentActivity], error) {
	args := m.Called(ctx, userID, targetType, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.CommentActivity]), args.Error(1)
}
