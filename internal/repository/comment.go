package repository

import (
	"context"

	"textok/internal/model"
)

// CommentRepository defines data access for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)

	// FindByID returns sql.ErrNoRows when the comment does not exist.
	FindByID(ctx context.Context, id int64) (*model.Comment, error)

	// ListByTarget returns root comments ordered by creation time, each
	// carrying its replies (also ordered by creation time) and author summaries.
	ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error)

	UpdateContent(ctx context.Context, id int64, content string) error

	// Delete removes a comment; replies are removed by the foreign key cascade.
	Delete(ctx context.Context, id int64) error

	DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error

	// CountByTargets returns comment counts keyed by target ID. Targets
	// without comments are absent from the map.
	CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error)

	CountByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error)

	// UserActivities groups a user's comments per target, most recently
	// commented target first.
	UserActivities(ctx context.Context, userID int64, targetType model.CommentTargetType, pq PageQuery) (*PageResult[model.CommentActivity], error)
}
