package migration

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db")
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "db_migration_skip")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for range steps {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db")
		assert.NoError(t, err)
		assert.Contains(t, buf.String(), "db_migration_success")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops on failing step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, zerolog.New(&buf), "db")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "create_table_users")
		assert.Contains(t, buf.String(), `"level":"error"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel query error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT to_regclass").WillReturnError(errors.New("conn refused"))

		err = EnsureMigrated(ctx, db, zerolog.Nop(), "db")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check sentinel table")
	})
}
