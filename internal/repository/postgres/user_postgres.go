package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"textok/internal/model"
	"textok/internal/repository"
)

const userColumns = `id, email, username, password, nickname, date_of_birth, gender, role, profile_img_url, bio, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner) (*model.User, error) {
	var (
		u        model.User
		nickname sql.NullString
		dob      sql.NullTime
		role     string
	)
	if err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&nickname,
		&dob,
		&u.Gender,
		&role,
		&u.ProfileImgURL,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Nickname = nickname.String
	if dob.Valid {
		t := dob.Time
		u.DateOfBirth = &t
	}
	u.Role = model.Role(role)
	return &u, nil
}

const uniqueViolation = "23505"

// duplicateError maps unique violations on users to repository sentinels.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "nickname"):
		return fmt.Errorf("%w: %s", repository.ErrDuplicateNickname, pgErr.ConstraintName)
	case strings.Contains(pgErr.ConstraintName, "username"):
		return fmt.Errorf("%w: %s", repository.ErrDuplicateUsername, pgErr.ConstraintName)
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	q := `
		INSERT INTO users (email, username, password, nickname, date_of_birth, gender, role, profile_img_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns
	role := u.Role
	if role == "" {
		role = model.RoleUser
	}
	row := r.db.QueryRowContext(ctx, q,
		u.Email,
		u.Username,
		u.PasswordHash,
		nullString(u.Nickname),
		nullTime(u.DateOfBirth),
		u.Gender,
		string(role),
		u.ProfileImgURL,
		u.Bio,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, duplicateError(err)
	}
	return created, nil
}

func (r *UserPostgres) findOne(ctx context.Context, where string, arg any) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	return scanUser(r.db.QueryRowContext(ctx, q, arg))
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByUsername fetches a single user by its login name.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

// FindByNickname fetches a single user by its nickname.
func (r *UserPostgres) FindByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return r.findOne(ctx, "nickname = $1", nickname)
}

func (r *UserPostgres) queryUsers(ctx context.Context, q string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// List returns users that completed registration, newest first.
func (r *UserPostgres) List(ctx context.Context) ([]model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE nickname IS NOT NULL ORDER BY id DESC`
	return r.queryUsers(ctx, q)
}

// Search matches keyword as a substring of nickname or username.
func (r *UserPostgres) Search(ctx context.Context, keyword string) ([]model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users
		WHERE nickname IS NOT NULL AND (nickname ILIKE $1 OR username ILIKE $1)
		ORDER BY nickname ASC`
	return r.queryUsers(ctx, q, "%"+escapeLike(keyword)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Update writes every mutable column of u.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const q = `
		UPDATE users
		SET email = $2, password = $3, nickname = $4, date_of_birth = $5, gender = $6,
		    role = $7, profile_img_url = $8, bio = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Email,
		u.PasswordHash,
		nullString(u.Nickname),
		nullTime(u.DateOfBirth),
		u.Gender,
		string(u.Role),
		u.ProfileImgURL,
		u.Bio,
	).Scan(&u.UpdatedAt)
	return duplicateError(err)
}

// DeleteCompletely removes the user's comments and then the user row.
// Replies written by others under those comments go with them.
func (r *UserPostgres) DeleteCompletely(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return tx.Commit()
}
