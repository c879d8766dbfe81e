package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/asenum"
)

// Finding is a stored value that is not a code of a definition. Value
// is usually an int64, but lenient attributes on loosely typed databases
// may leave other values behind.
type Finding struct {
	Attribute string       `json:"attribute"`
	Column    string       `json:"column"`
	Value     asenum.Value `json:"value"`
	Count     int64        `json:"count"`
}

// AuditReport is the result of Store.Audit.
type AuditReport struct {
	ID       uuid.UUID     `json:"id"`
	Table    string        `json:"table"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Findings []Finding     `json:"findings"`
}

// Clean reports whether no unknown codes were found.
func (r *AuditReport) Clean() bool {
	return len(r.Findings) == 0
}

// Audit scans the storage columns of defs for codes that are not part of
// their mapping, as left behind by lenient assignments or by values that
// were removed from a declaration. NULL columns are not reported. All
// columns are read within a single transaction.
func (s *Store) Audit(ctx context.Context, defs ...*asenum.Definition) (rep *AuditReport, rerr error) {
	rep = &AuditReport{ID: uuid.New(), Table: s.table, Started: time.Now()}
	logger := s.logger.With("audit", rep.ID.String(), "table", s.table)
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: audit: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			rerr = errors.Join(rerr, err)
		}
	}()
	for _, d := range defs {
		b := Dialect(s.drv.Dialect()).WriteString("SELECT ").Ident(d.Column()).WriteString(", COUNT(*) FROM ").Ident(s.table).
			WriteString(" WHERE ").Ident(d.Column()).WriteString(" IS NOT NULL AND ").Ident(d.Column()).
			WriteString(" NOT IN (").Ints(d.Codes()...).WriteString(") GROUP BY ").Ident(d.Column()).
			WriteString(" ORDER BY ").Ident(d.Column())
		query, args, err := b.Query()
		if err != nil {
			return nil, err
		}
		var rows Rows
		if err := tx.Query(ctx, query, args, &rows); err != nil {
			return nil, fmt.Errorf("dialect/sql: audit %q: %w", d.Attribute(), err)
		}
		found, err := scanFindings(&rows, d)
		if err != nil {
			return nil, fmt.Errorf("dialect/sql: audit %q: %w", d.Attribute(), err)
		}
		for _, f := range found {
			logger.WarnContext(ctx, "unknown enum value", "attribute", f.Attribute, "column", f.Column, "value", f.Value, "count", f.Count)
		}
		rep.Findings = append(rep.Findings, found...)
	}
	rep.Duration = time.Since(rep.Started)
	logger.InfoContext(ctx, "audit finished", "definitions", len(defs), "findings", len(rep.Findings), "duration", rep.Duration)
	return rep, nil
}

func scanFindings(rows *Rows, d *asenum.Definition) ([]Finding, error) {
	defer rows.Close()
	var found []Finding
	for rows.Next() {
		var (
			v     any
			count int64
		)
		if err := rows.Scan(&v, &count); err != nil {
			return nil, err
		}
		found = append(found, Finding{Attribute: d.Attribute(), Column: d.Column(), Value: normalize(v), Count: count})
	}
	return found, rows.Err()
}
