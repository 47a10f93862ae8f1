package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"textok/internal/model"
	"textok/internal/repository"
)

const (
	maxCommentLength    = 1000
	defaultActivitySize = 20
	maxActivitySize     = 100
)

// CommentService manages comments attached to blogs and shorlogs.
type CommentService interface {
	// ListByTarget returns root comments, each with its replies, oldest first.
	ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error)

	Create(ctx context.Context, userID int64, req CreateCommentRequest) (*model.Comment, error)
	Update(ctx context.Context, p *model.Principal, id int64, content string) (*model.Comment, error)

	// Delete removes a comment together with its replies.
	Delete(ctx context.Context, p *model.Principal, id int64) error

	DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error

	// CountByTargets reports a count for every requested id, zero included.
	CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error)

	Count(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error)

	// Activities pages through the targets a user commented on, most
	// recently commented first. page is zero-based.
	Activities(ctx context.Context, userID int64, targetType model.CommentTargetType, page, size int) (*ActivityPage, error)
}

type commentService struct {
	comments repository.CommentRepository
}

// NewCommentService constructs a CommentService.
func NewCommentService(comments repository.CommentRepository) CommentService {
	return &commentService{comments: comments}
}

// ParseTargetType maps a path or body value to a target type.
func ParseTargetType(s string) (model.CommentTargetType, error) {
	t, ok := model.ParseCommentTargetType(s)
	if !ok {
		return "", ErrInvalidTargetType
	}
	return t, nil
}

func cleanContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", Invalid("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", Invalid("content must be at most 1000 characters")
	}
	return content, nil
}

func (s *commentService) find(ctx context.Context, id int64) (*model.Comment, error) {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *commentService) ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error) {
	return s.comments.ListByTarget(ctx, targetType, targetID)
}

func (s *commentService) Create(ctx context.Context, userID int64, req CreateCommentRequest) (*model.Comment, error) {
	targetType, err := ParseTargetType(req.TargetType)
	if err != nil {
		return nil, err
	}
	if req.TargetID <= 0 {
		return nil, Invalid("targetId must be positive")
	}
	content, err := cleanContent(req.Content)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.comments.FindByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
		if !parent.IsRoot() || parent.TargetType != targetType || parent.TargetID != req.TargetID {
			return nil, ErrInvalidParent
		}
	}

	return s.comments.Create(ctx, &model.Comment{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   req.TargetID,
		ParentID:   req.ParentID,
		Content:    content,
	})
}

// authorize loads the comment and checks the caller may modify it.
func (s *commentService) authorize(ctx context.Context, p *model.Principal, id int64) (*model.Comment, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || (c.UserID != p.UserID && !p.IsAdmin()) {
		return nil, ErrCommentForbidden
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, p *model.Principal, id int64, content string) (*model.Comment, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, p, id); err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, p *model.Principal, id int64) error {
	if _, err := s.authorize(ctx, p, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

func (s *commentService) DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error {
	return s.comments.DeleteByTarget(ctx, targetType, targetID)
}

func (s *commentService) CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error) {
	counts, err := s.comments.CountByTargets(ctx, targetType, targetIDs)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = make(map[int64]int64, len(targetIDs))
	}
	for _, id := range targetIDs {
		if _, ok := counts[id]; !ok {
			counts[id] = 0
		}
	}
	return counts, nil
}

func (s *commentService) Count(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error) {
	return s.comments.CountByTarget(ctx, targetType, targetID)
}

func (s *commentService) Activities(ctx context.Context, userID int64, targetType model.CommentTargetType, page, size int) (*ActivityPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultActivitySize
	}
	if size > maxActivitySize {
		size = maxActivitySize
	}

	if page > math.MaxInt/size {
		return nil, ErrPageOutOfRange
	}

	pq := repository.PageQuery{Limit: size, Offset: page * size}
	res, err := s.comments.UserActivities(ctx, userID, targetType, pq)
	if err != nil {
		return nil, err
	}
	return &ActivityPage{
		Items:   res.Items,
		Total:   res.Total,
		Page:    page,
		Size:    size,
		HasNext: res.HasNext(pq),
	}, nil
}
