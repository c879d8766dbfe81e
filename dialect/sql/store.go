package sql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/dialect"
)

// ErrNotFound is returned when no row matches the requested key.
var ErrNotFound = errors.New("dialect/sql: record not found")

// Store loads and saves the raw columns of enum records in a table.
type Store struct {
	drv    dialect.Driver
	table  string
	key    string
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithKey sets the primary key column. Defaults to "id".
func WithKey(column string) StoreOption {
	return func(s *Store) error {
		if !isValidIdentifier(column) {
			return fmt.Errorf("dialect/sql: invalid key column %q", column)
		}
		s.key = column
		return nil
	}
}

// WithLogger sets the logger of the store. Defaults to slog.Default().
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) error {
		if l == nil {
			return errors.New("dialect/sql: nil logger")
		}
		s.logger = l
		return nil
	}
}

// NewStore returns a store of table.
func NewStore(drv dialect.Driver, table string, opts ...StoreOption) (*Store, error) {
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("dialect/sql: invalid table name %q", table)
	}
	s := &Store{drv: drv, table: table, key: "id", logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Table returns the table name of the store.
func (s *Store) Table() string { return s.table }

// Columns returns the storage columns of the given definitions.
func Columns(defs ...*asenum.Definition) []string {
	cols := make([]string, len(defs))
	for i, d := range defs {
		cols[i] = d.Column()
	}
	return cols
}

// Load reads the given columns of the row with the given key. The result
// holds no changes.
func (s *Store) Load(ctx context.Context, id any, columns ...string) (*asenum.Fields, error) {
	if len(columns) == 0 {
		return nil, errors.New("dialect/sql: load: no columns")
	}
	b := Dialect(s.drv.Dialect()).WriteString("SELECT ").IdentComma(columns...).
		WriteString(" FROM ").Ident(s.table).
		WriteString(" WHERE ").Ident(s.key).WriteString(" = ").Arg(id)
	query, args, err := b.Query()
	if err != nil {
		return nil, err
	}
	var rows Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("dialect/sql: load: %w", err)
		}
		return nil, fmt.Errorf("%w: %s %s=%v", ErrNotFound, s.table, s.key, id)
	}
	dest := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("dialect/sql: load: %w", err)
	}
	values := make(map[string]asenum.Value, len(columns))
	for i, c := range columns {
		values[c] = normalize(dest[i])
	}
	return asenum.NewFields(values), rows.Err()
}

// Save writes the changed columns of f to the row with the given key and
// commits f. Unchanged records are not written.
func (s *Store) Save(ctx context.Context, id any, f *asenum.Fields) error {
	changed := f.ChangedFields()
	if len(changed) == 0 {
		return nil
	}
	values := f.Map()
	b := Dialect(s.drv.Dialect()).WriteString("UPDATE ").Ident(s.table).WriteString(" SET ")
	for i, c := range changed {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c).WriteString(" = ").Arg(values[c])
	}
	b.WriteString(" WHERE ").Ident(s.key).WriteString(" = ").Arg(id)
	query, args, err := b.Query()
	if err != nil {
		return err
	}
	var res Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		if IsCheckConstraintError(err) {
			return &CheckError{Table: s.table, Columns: changed, Err: err}
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("dialect/sql: save: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s=%v", ErrNotFound, s.table, s.key, id)
	}
	s.logger.DebugContext(ctx, "record saved", "table", s.table, "key", id, "columns", changed)
	f.Commit()
	return nil
}

// normalize converts driver values to the types used by asenum.Fields.
// Drivers using a text protocol return integers as []byte.
func normalize(v any) asenum.Value {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return n
	}
	return string(b)
}
