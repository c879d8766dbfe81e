package sql

import (
	"context"
	"log/slog"
	"time"

	"github.com/syssam/asenum/dialect"
)

// DebugDriver wraps a dialect.Driver with statement logging.
type DebugDriver struct {
	dialect.Driver
	logger *slog.Logger
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger. Defaults to slog.Default().
func DebugWithLogger(l *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.logger = l
	}
}

// NewDebugDriver wraps a Driver with debug logging.
//
//	drv, _ := sql.Open("postgres", dsn)
//	store, _ := sql.NewStore(sql.NewDebugDriver(drv), "users")
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{Driver: drv, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	logStatement(ctx, d.logger, "query", query, args, start, err)
	return err
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	logStatement(ctx, d.logger, "exec", query, args, start, err)
	return err
}

// Tx starts a transaction with debug logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.logger.DebugContext(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, logger: d.logger}, nil
}

// DebugTx wraps a transaction with debug logging.
type DebugTx struct {
	dialect.Tx
	logger *slog.Logger
}

// Query executes a query within the transaction and logs it.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	logStatement(ctx, tx.logger, "tx query", query, args, start, err)
	return err
}

// Exec executes a statement within the transaction and logs it.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	logStatement(ctx, tx.logger, "tx exec", query, args, start, err)
	return err
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.logger.Debug("commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.logger.Debug("rollback transaction")
	return tx.Tx.Rollback()
}

func logStatement(ctx context.Context, l *slog.Logger, kind, query string, args any, start time.Time, err error) {
	attrs := []any{"query", query, "args", args, "duration", time.Since(start)}
	if err != nil {
		l.ErrorContext(ctx, kind+" failed", append(attrs, "error", err)...)
		return
	}
	l.DebugContext(ctx, kind, attrs...)
}

var (
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
