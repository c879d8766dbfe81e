package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/asenum"
)

// LoadMany reads the given columns of the rows with the given integer
// keys in a single query. The results have the length and order of ids,
// as expected by dataloader batch functions: a missing row leaves a nil
// record and an ErrNotFound error at its index, and a failed query
// reports its error at every index.
func (s *Store) LoadMany(ctx context.Context, ids []int64, columns ...string) ([]*asenum.Fields, []error) {
	records := make([]*asenum.Fields, len(ids))
	errs := make([]error, len(ids))
	fail := func(err error) ([]*asenum.Fields, []error) {
		for i := range errs {
			errs[i] = err
		}
		return records, errs
	}
	if len(ids) == 0 {
		return records, errs
	}
	if len(columns) == 0 {
		return fail(errors.New("dialect/sql: load: no columns"))
	}
	b := Dialect(s.drv.Dialect()).WriteString("SELECT ").IdentComma(append([]string{s.key}, columns...)...).
		WriteString(" FROM ").Ident(s.table).
		WriteString(" WHERE ").Ident(s.key).WriteString(" IN (")
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Arg(id)
	}
	query, args, err := b.WriteString(")").Query()
	if err != nil {
		return fail(err)
	}
	var rows Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return fail(err)
	}
	defer rows.Close()

	found := make(map[int64]*asenum.Fields, len(ids))
	dest := make([]any, len(columns)+1)
	ptrs := make([]any, len(dest))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fail(fmt.Errorf("dialect/sql: load: %w", err))
		}
		key, ok := normalize(dest[0]).(int64)
		if !ok {
			return fail(fmt.Errorf("dialect/sql: load: non integer key %v", dest[0]))
		}
		values := make(map[string]asenum.Value, len(columns))
		for i, c := range columns {
			values[c] = normalize(dest[i+1])
		}
		found[key] = asenum.NewFields(values)
	}
	if err := rows.Err(); err != nil {
		return fail(fmt.Errorf("dialect/sql: load: %w", err))
	}
	for i, id := range ids {
		if f, ok := found[id]; ok {
			records[i] = f
			continue
		}
		errs[i] = fmt.Errorf("%w: %s %s=%d", ErrNotFound, s.table, s.key, id)
	}
	return records, errs
}
