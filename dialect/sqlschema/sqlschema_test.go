package sqlschema_test

import (
	"context"
	"database/sql"
	"testing"

	"ariga.io/atlas/sql/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/dialect"
	"github.com/syssam/asenum/dialect/sqlschema"
	"github.com/syssam/asenum/schema/field"
)

func gender(t *testing.T) *asenum.Definition {
	t.Helper()
	d, err := asenum.Build(field.Enum("gender").Pairs("female", 1, "male", 0, "other", 5).Comment("sex").Descriptor())
	require.NoError(t, err)
	return d
}

func TestColumn(t *testing.T) {
	d := gender(t)
	c := sqlschema.Column(d)
	assert.Equal(t, "gender_cd", c.Name)
	assert.True(t, c.Type.Null)
	it, ok := c.Type.Type.(*schema.IntegerType)
	require.True(t, ok)
	assert.Equal(t, sqlschema.DefaultColumnType, it.T)

	c = sqlschema.Column(d, sqlschema.Annotation{ColumnType: "smallint", NotNull: true})
	assert.False(t, c.Type.Null)
	assert.Equal(t, "smallint", c.Type.Type.(*schema.IntegerType).T)

	c = sqlschema.Column(d, sqlschema.ColumnType("integer"), sqlschema.NotNull(), sqlschema.ColumnType("smallint"))
	assert.False(t, c.Type.Null)
	assert.Equal(t, "smallint", c.Type.Type.(*schema.IntegerType).T)
}

func TestMerge(t *testing.T) {
	a := sqlschema.Merge(sqlschema.SkipCheck(), sqlschema.ColumnType("int"), sqlschema.Annotation{})
	assert.Equal(t, sqlschema.Annotation{ColumnType: "int", SkipCheck: true}, a)
	assert.Zero(t, sqlschema.Merge())
}

func TestCheck(t *testing.T) {
	d := gender(t)
	assert.Equal(t, "gender_cd IN (1, 0, 5)", sqlschema.CheckExpr(d))
	c := sqlschema.Check("users", d)
	assert.Equal(t, "users_gender_cd_check", c.Name)
	assert.Equal(t, "gender_cd IN (1, 0, 5)", c.Expr)
}

func TestTable(t *testing.T) {
	status, err := asenum.Build(field.Enum("status").Values("a", "b").Descriptor())
	require.NoError(t, err)

	tbl := sqlschema.TableWith("users", map[string]sqlschema.Annotation{"status": {SkipCheck: true}}, gender(t), status)
	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, []string{"id", "gender_cd", "status_cd"}, []string{tbl.Columns[0].Name, tbl.Columns[1].Name, tbl.Columns[2].Name})
	require.NotNil(t, tbl.PrimaryKey)

	var checks []*schema.Check
	for _, a := range tbl.Attrs {
		if c, ok := a.(*schema.Check); ok {
			checks = append(checks, c)
		}
	}
	require.Len(t, checks, 1)
	assert.Equal(t, "users_gender_cd_check", checks[0].Name)
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	tbl := sqlschema.Table("users", gender(t))

	for _, name := range []string{dialect.Postgres, dialect.MySQL, dialect.SQLite} {
		t.Run(name, func(t *testing.T) {
			stmts, err := sqlschema.CreateTable(ctx, name, tbl)
			require.NoError(t, err)
			require.NotEmpty(t, stmts)
			assert.Contains(t, stmts[0], "CREATE TABLE")
			assert.Contains(t, stmts[0], "gender_cd IN (1, 0, 5)")
		})
	}

	_, err := sqlschema.CreateTable(ctx, "oracle", tbl)
	assert.ErrorContains(t, err, "unsupported dialect")
}

func TestCreateTable_SQLite(t *testing.T) {
	ctx := context.Background()
	stmts, err := sqlschema.CreateTable(ctx, dialect.SQLite, sqlschema.Table("users", gender(t)))
	require.NoError(t, err)

	db, err := sql.Open(dialect.SQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()
	for _, s := range stmts {
		_, err := db.ExecContext(ctx, s)
		require.NoError(t, err, s)
	}

	_, err = db.ExecContext(ctx, "INSERT INTO users (id, gender_cd) VALUES (1, 5), (2, NULL)")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO users (id, gender_cd) VALUES (3, 2)")
	assert.Error(t, err, "codes outside the mapping violate the constraint")
}
