package sql

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/dialect"
)

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open(dialect.SQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, gender_cd INTEGER, status_cd INTEGER)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (id, gender_cd, status_cd) VALUES (1, 0, 1), (2, 1, NULL), (3, 5, 'other'), (4, 5, 2)`)
	require.NoError(t, err)

	s, err := NewStore(OpenDB(dialect.SQLite, db), "users", WithLogger(discard()))
	require.NoError(t, err)
	gender, status := definitions(t)

	type user struct{ asenum.Fields }
	genderEnum := asenum.Bind[*user, string](gender)

	f, err := s.Load(ctx, 2, Columns(gender, status)...)
	require.NoError(t, err)
	u := &user{Fields: *f}
	got, ok := genderEnum.Get(u)
	require.True(t, ok)
	assert.Equal(t, "female", got)

	require.NoError(t, genderEnum.Set(u, "male"))
	require.NoError(t, s.Save(ctx, 2, &u.Fields))
	f, err = s.Load(ctx, 2, "gender_cd")
	require.NoError(t, err)
	v, _ := f.Field("gender_cd")
	assert.Equal(t, int64(0), v)

	rep, err := s.Audit(ctx, gender, status)
	require.NoError(t, err)
	assert.Equal(t, []Finding{
		{Attribute: "gender", Column: "gender_cd", Value: int64(5), Count: 2},
		{Attribute: "status", Column: "status_cd", Value: "other", Count: 1},
	}, rep.Findings)
}

func TestSQLite_CheckConstraint(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open(dialect.SQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, status_cd INTEGER CHECK (status_cd IN (0, 1)))`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO users (id, status_cd) VALUES (1, 0)`)
	require.NoError(t, err)

	s, err := NewStore(OpenDB(dialect.SQLite, db), "users", WithLogger(discard()))
	require.NoError(t, err)
	_, status := definitions(t)
	type user struct{ asenum.Fields }
	statusEnum := asenum.Bind[*user, string](status)

	f, err := s.Load(ctx, 1, "status_cd")
	require.NoError(t, err)
	u := &user{Fields: *f}
	require.NoError(t, statusEnum.Set(u, "disabled"))
	err = s.Save(ctx, 1, &u.Fields)
	assert.ErrorIs(t, err, asenum.ErrInvalidValue)
	assert.True(t, IsCheckConstraintError(err))
}
