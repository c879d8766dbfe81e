// Package dialect defines the database drivers used by the stores of
// enum records.
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// The Driver interface wraps the operations a store needs:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// Sub-packages:
//
//   - dialect/sql: database/sql driver, debug logging and the record store
//   - dialect/sqlschema: integer columns and CHECK constraints for enum definitions
package dialect
