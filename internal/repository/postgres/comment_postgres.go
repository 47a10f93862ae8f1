package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"textok/internal/model"
	"textok/internal/repository"
)

// CommentPostgres is a PostgreSQL implementation of repository.CommentRepository.
type CommentPostgres struct {
	db *sql.DB
}

// NewCommentPostgres creates a new CommentPostgres repository.
func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

const commentSelect = `
	SELECT c.id, c.user_id, c.target_type, c.target_id, c.parent_id, c.content, c.created_at, c.updated_at,
	       COALESCE(u.nickname, ''), u.profile_img_url
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

func scanComment(s rowScanner) (*model.Comment, error) {
	var (
		c          model.Comment
		targetType string
		parentID   sql.NullInt64
	)
	if err := s.Scan(
		&c.ID,
		&c.UserID,
		&targetType,
		&c.TargetID,
		&parentID,
		&c.Content,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.Author.Nickname,
		&c.Author.ProfileImgURL,
	); err != nil {
		return nil, err
	}
	c.TargetType = model.CommentTargetType(targetType)
	c.Author.ID = c.UserID
	if parentID.Valid {
		p := parentID.Int64
		c.ParentID = &p
	}
	return &c, nil
}

// Create inserts a comment and returns it with author summary attached.
func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		WITH inserted AS (
			INSERT INTO comments (user_id, target_type, target_id, parent_id, content)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, user_id, target_type, target_id, parent_id, content, created_at, updated_at
		)
		SELECT c.id, c.user_id, c.target_type, c.target_id, c.parent_id, c.content, c.created_at, c.updated_at,
		       COALESCE(u.nickname, ''), u.profile_img_url
		FROM inserted c
		JOIN users u ON u.id = c.user_id
	`
	var parentID sql.NullInt64
	if c.ParentID != nil {
		parentID = sql.NullInt64{Int64: *c.ParentID, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q, c.UserID, string(c.TargetType), c.TargetID, parentID, c.Content)
	return scanComment(row)
}

// FindByID fetches a single comment.
func (r *CommentPostgres) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	q := commentSelect + ` WHERE c.id = $1`
	return scanComment(r.db.QueryRowContext(ctx, q, id))
}

// ListByTarget loads every comment of a target in one query and assembles
// the root/reply tree in memory.
func (r *CommentPostgres) ListByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) ([]model.Comment, error) {
	q := commentSelect + `
		WHERE c.target_type = $1 AND c.target_id = $2
		ORDER BY c.created_at ASC, c.id ASC`
	rows, err := r.db.QueryContext(ctx, q, string(targetType), targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buildCommentTree(all), nil
}

// buildCommentTree keeps input order for roots and for replies within a root.
// Replies whose parent is not in the set are dropped.
func buildCommentTree(all []model.Comment) []model.Comment {
	roots := make([]model.Comment, 0)
	index := make(map[int64]int)
	for _, c := range all {
		if c.IsRoot() {
			index[c.ID] = len(roots)
			roots = append(roots, c)
		}
	}
	for _, c := range all {
		if c.IsRoot() {
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			roots[i].Children = append(roots[i].Children, c)
		}
	}
	return roots
}

// UpdateContent replaces the text of a comment.
func (r *CommentPostgres) UpdateContent(ctx context.Context, id int64, content string) error {
	const q = `UPDATE comments SET content = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, content)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a comment by ID. It does not return an error if the row does not exist.
func (r *CommentPostgres) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

// DeleteByTarget removes every comment attached to a target.
func (r *CommentPostgres) DeleteByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) error {
	const q = `DELETE FROM comments WHERE target_type = $1 AND target_id = $2`
	_, err := r.db.ExecContext(ctx, q, string(targetType), targetID)
	return err
}

// CountByTargets counts comments for several targets in one query.
func (r *CommentPostgres) CountByTargets(ctx context.Context, targetType model.CommentTargetType, targetIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	placeholders := make([]string, len(targetIDs))
	args := make([]any, 0, len(targetIDs)+1)
	args = append(args, string(targetType))
	for i, id := range targetIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	q := `SELECT target_id, COUNT(*) FROM comments
		WHERE target_type = $1 AND target_id IN (` + strings.Join(placeholders, ", ") + `)
		GROUP BY target_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountByTarget counts the comments of a single target.
func (r *CommentPostgres) CountByTarget(ctx context.Context, targetType model.CommentTargetType, targetID int64) (int64, error) {
	const q = `SELECT COUNT(*) FROM comments WHERE target_type = $1 AND target_id = $2`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, string(targetType), targetID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// UserActivities pages through the targets a user commented on.
func (r *CommentPostgres) UserActivities(ctx context.Context, userID int64, targetType model.CommentTargetType, pq repository.PageQuery) (*repository.PageResult[model.CommentActivity], error) {
	const qCount = `SELECT COUNT(DISTINCT target_id) FROM comments WHERE user_id = $1 AND target_type = $2`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID, string(targetType)).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT target_id, MAX(created_at), COUNT(*)
		FROM comments
		WHERE user_id = $1 AND target_type = $2
		GROUP BY target_id
		ORDER BY MAX(id) DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, string(targetType), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.CommentActivity, 0)
	for rows.Next() {
		var a model.CommentActivity
		if err := rows.Scan(&a.TargetID, &a.LastCommentedAt, &a.CommentCount); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.CommentActivity]{Items: items, Total: total}, nil
}
