package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum/dialect"
)

// TestOpenDB tests the OpenDB function with different dialects.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    string
	}{
		{"Postgres", dialect.Postgres, dialect.Postgres},
		{"MySQL", dialect.MySQL, dialect.MySQL},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"Suffixed", "postgres-debug", dialect.Postgres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.want, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

// TestDriverQuery tests query operations.
func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery("SELECT gender_cd FROM users WHERE id = \\$1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"gender_cd"}).AddRow(1))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT gender_cd FROM users WHERE id = $1", []any{1}, rows)
		require.NoError(t, err)
		require.True(t, rows.Next())
		var code int64
		require.NoError(t, rows.Scan(&code))
		assert.Equal(t, int64(1), code)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("database error"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT", []any{}, rows)
		assert.ErrorContains(t, err, "dialect/sql: query: database error")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_types", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT", []any{}, nil)
		assert.ErrorContains(t, err, "expect *sql.Rows")
		err = drv.Query(context.Background(), "SELECT", 1, &Rows{})
		assert.ErrorContains(t, err, "expect []any for args")
	})
}

// TestDriverExec tests execute operations.
func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Postgres, db)

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET gender_cd = \\$1 WHERE id = \\$2").
			WithArgs(1, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		var res Result
		err := drv.Exec(context.Background(), "UPDATE users SET gender_cd = $1 WHERE id = $2", []any{1, 7}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DELETE").WillReturnError(errors.New("constraint violation"))

		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil)
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_result", func(t *testing.T) {
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, new(int))
		assert.ErrorContains(t, err, "expect *sql.Result")
	})
}

// TestDriverTransaction tests transaction operations.
func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.SQLite, db)

	t.Run("successful_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.NoError(t, tx.Exec(context.Background(), "UPDATE users SET gender_cd = 1", []any{}, nil))
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnError(errors.New("error"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		require.Error(t, tx.Exec(context.Background(), "UPDATE users SET gender_cd = 1", []any{}, nil))
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBuilder(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{dialect.Postgres, `UPDATE "public"."users" SET "gender_cd" = $1 WHERE "id" = $2 AND "status_cd" NOT IN (0, 1)`},
		{dialect.SQLite, `UPDATE "public"."users" SET "gender_cd" = ? WHERE "id" = ? AND "status_cd" NOT IN (0, 1)`},
		{dialect.MySQL, "UPDATE `public`.`users` SET `gender_cd` = ? WHERE `id` = ? AND `status_cd` NOT IN (0, 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			query, args, err := Dialect(tt.dialect).
				WriteString("UPDATE ").Ident("public.users").
				WriteString(" SET ").Ident("gender_cd").WriteString(" = ").Arg(int64(1)).
				WriteString(" WHERE ").Ident("id").WriteString(" = ").Arg(7).
				WriteString(" AND ").Ident("status_cd").WriteString(" NOT IN (").Ints(0, 1).WriteString(")").
				Query()
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{int64(1), 7}, args)
		})
	}

	_, _, err := Dialect(dialect.Postgres).Ident("users; DROP TABLE users").Query()
	assert.ErrorContains(t, err, "invalid identifier")
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"users", true},
		{"public.users", true},
		{"_gender_cd", true},
		{"", false},
		{"1users", false},
		{"users--", false},
		{"a b", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isValidIdentifier(tt.in), tt.in)
	}
}
