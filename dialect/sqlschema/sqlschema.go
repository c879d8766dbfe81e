// Package sqlschema describes the storage columns of enum definitions
// as atlas schema objects: an integer column per attribute and a CHECK
// constraint limiting it to the codes of the mapping.
//
//	t := sqlschema.Table("users", genderDef, statusDef)
//	stmts, err := sqlschema.CreateTable(ctx, dialect.Postgres, t)
//
// The CHECK constraint is the storage level counterpart of
// Enum.ValidatesAsEnum. NULL passes the constraint, as it passes
// validators declared with AllowNil.
package sqlschema

import (
	"context"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/dialect"
	"github.com/syssam/asenum/dialect/sql"
)

// DefaultColumnType is the column type of enum codes.
const DefaultColumnType = "bigint"

// Column returns the storage column of d.
func Column(d *asenum.Definition, ant ...Annotation) *schema.Column {
	a := Merge(ant...)
	typ := DefaultColumnType
	if a.ColumnType != "" {
		typ = a.ColumnType
	}
	c := schema.NewIntColumn(d.Column(), typ)
	if !a.NotNull {
		c.SetNull(true)
	}
	if d.Comment() != "" {
		c.SetComment(d.Comment())
	}
	return c
}

// CheckName returns the name of the CHECK constraint of d on table.
func CheckName(table string, d *asenum.Definition) string {
	return fmt.Sprintf("%s_%s_check", table, d.Column())
}

// CheckExpr returns the CHECK expression of d, e.g. "gender_cd IN (0, 1)".
func CheckExpr(d *asenum.Definition) string {
	query, _, _ := sql.Dialect("").WriteString(d.Column()).WriteString(" IN (").Ints(d.Codes()...).WriteString(")").Query()
	return query
}

// Check returns the CHECK constraint of d on table.
func Check(table string, d *asenum.Definition) *schema.Check {
	return &schema.Check{Name: CheckName(table, d), Expr: CheckExpr(d)}
}

// Table returns a table holding an id column and the storage columns of
// defs with their CHECK constraints.
func Table(name string, defs ...*asenum.Definition) *schema.Table {
	return TableWith(name, nil, defs...)
}

// TableWith is like Table, with per-attribute annotations.
func TableWith(name string, ants map[string]Annotation, defs ...*asenum.Definition) *schema.Table {
	id := schema.NewIntColumn("id", "integer")
	t := schema.NewTable(name).AddColumns(id).SetPrimaryKey(schema.NewPrimaryKey(id))
	for _, d := range defs {
		a := ants[d.Attribute()]
		t.AddColumns(Column(d, a))
		if !a.SkipCheck {
			t.AddChecks(Check(name, d))
		}
	}
	return t
}

// CreateTable plans the statements creating t in the given dialect.
func CreateTable(ctx context.Context, name string, t *schema.Table) ([]string, error) {
	pa, err := planApplier(name)
	if err != nil {
		return nil, err
	}
	plan, err := pa.PlanChanges(ctx, "create_"+t.Name, []schema.Change{&schema.AddTable{T: t}})
	if err != nil {
		return nil, fmt.Errorf("sqlschema: plan %s: %w", t.Name, err)
	}
	stmts := make([]string, len(plan.Changes))
	for i, c := range plan.Changes {
		stmts[i] = c.Cmd
	}
	return stmts, nil
}

func planApplier(name string) (migrate.PlanApplier, error) {
	switch name {
	case dialect.Postgres:
		return postgres.DefaultPlan, nil
	case dialect.MySQL:
		return mysql.DefaultPlan, nil
	case dialect.SQLite:
		return sqlite.DefaultPlan, nil
	default:
		return nil, fmt.Errorf("sqlschema: unsupported dialect %q", name)
	}
}
