package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"textok/internal/model"
	"textok/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commentCols = []string{"id", "user_id", "target_type", "target_id", "parent_id", "content", "created_at", "updated_at", "nickname", "profile_img_url"}

func TestCommentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	now := time.Now().UTC()
	parent := int64(10)

	mock.ExpectQuery("INSERT INTO comments").
		WithArgs(int64(1), "BLOG", int64(77), int64(10), "nice post").
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(11, 1, "BLOG", 77, 10, "nice post", now, now, "neo", "https://img/neo.png"))

	c, err := repo.Create(context.Background(), &model.Comment{
		UserID:     1,
		TargetType: model.CommentTargetBlog,
		TargetID:   77,
		ParentID:   &parent,
		Content:    "nice post",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), c.ID)
	assert.Equal(t, "neo", c.Author.Nickname)
	assert.Equal(t, int64(1), c.Author.ID)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, int64(10), *c.ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM comments c (.+) WHERE c.id = ").
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	c, err := repo.FindByID(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Nil(t, c)
}

func TestCommentPostgres_ListByTarget(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(commentCols).
		AddRow(1, 1, "SHORLOG", 5, nil, "first", base, base, "a", "").
		AddRow(2, 2, "SHORLOG", 5, 1, "reply to first", base.Add(time.Minute), base, "b", "").
		AddRow(3, 3, "SHORLOG", 5, nil, "second", base.Add(2*time.Minute), base, "c", "").
		AddRow(4, 1, "SHORLOG", 5, 1, "another reply", base.Add(3*time.Minute), base, "a", "").
		AddRow(5, 2, "SHORLOG", 5, 999, "orphan", base.Add(4*time.Minute), base, "b", "")

	mock.ExpectQuery("SELECT (.+) WHERE c.target_type = (.+) ORDER BY c.created_at ASC").
		WithArgs("SHORLOG", int64(5)).
		WillReturnRows(rows)

	roots, err := repo.ListByTarget(context.Background(), model.CommentTargetShorlog, 5)

	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "first", roots[0].Content)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "reply to first", roots[0].Children[0].Content)
	assert.Equal(t, "another reply", roots[0].Children[1].Content)
	assert.Equal(t, "second", roots[1].Content)
	assert.Empty(t, roots[1].Children)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_UpdateContent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE comments SET content").
		WithArgs(int64(1), "edited").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateContent(ctx, 1, "edited"))

	mock.ExpectExec("UPDATE comments SET content").
		WithArgs(int64(2), "edited").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateContent(ctx, 2, "edited"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM comments WHERE id = ").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(ctx, 3))

	mock.ExpectExec("DELETE FROM comments WHERE target_type = (.+) AND target_id = ").
		WithArgs("BLOG", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 12))
	assert.NoError(t, repo.DeleteByTarget(ctx, model.CommentTargetBlog, 8))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	ctx := context.Background()

	t.Run("many targets", func(t *testing.T) {
		mock.ExpectQuery(`SELECT target_id, COUNT\(\*\) FROM comments (.+) IN \(\$2, \$3, \$4\)`).
			WithArgs("BLOG", int64(1), int64(2), int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"target_id", "count"}).
				AddRow(1, 4).
				AddRow(3, 1))

		counts, err := repo.CountByTargets(ctx, model.CommentTargetBlog, []int64{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, map[int64]int64{1: 4, 3: 1}, counts)
	})

	t.Run("no targets skips query", func(t *testing.T) {
		counts, err := repo.CountByTargets(ctx, model.CommentTargetBlog, nil)
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("single target", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM comments WHERE target_type`).
			WithArgs("SHORLOG", int64(9)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

		n, err := repo.CountByTarget(ctx, model.CommentTargetShorlog, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(6), n)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_UserActivities(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCommentPostgres(db)
	last := time.Now().UTC()

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT target_id\) FROM comments`).
		WithArgs(int64(1), "BLOG").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT target_id, MAX\(created_at\), COUNT\(\*\)`).
		WithArgs(int64(1), "BLOG", 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"target_id", "max", "count"}).
			AddRow(30, last, 2).
			AddRow(10, last.Add(-time.Hour), 1))

	pq := repository.PageQuery{Limit: 2, Offset: 0}
	res, err := repo.UserActivities(context.Background(), 1, model.CommentTargetBlog, pq)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(30), res.Items[0].TargetID)
	assert.Equal(t, int64(2), res.Items[0].CommentCount)
	assert.True(t, res.HasNext(pq))
	assert.NoError(t, mock.ExpectationsWereMet())
}
