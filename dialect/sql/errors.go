package sql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/asenum"
)

// CheckError is returned by Store.Save when the database rejects a
// stored code through a CHECK constraint, as created by
// sqlschema.Check. It matches asenum.ErrInvalidValue.
type CheckError struct {
	Table   string
	Columns []string
	Err     error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("dialect/sql: check constraint on %s(%s): %v", e.Table, strings.Join(e.Columns, ", "), e.Err)
}

// Unwrap returns the driver error.
func (e *CheckError) Unwrap() error { return e.Err }

// Is reports whether target is asenum.ErrInvalidValue.
func (e *CheckError) Is(target error) bool {
	return target == asenum.ErrInvalidValue
}

// sqlStateError is implemented by pq.Error and pgx.
type sqlStateError interface {
	SQLState() string
}

// errorNumberer is implemented by MySQL driver errors exposing a number.
type errorNumberer interface {
	Number() uint16
}

const (
	pgCheckViolation    = "23514"
	mysqlCheckViolation = 3819
)

// IsCheckConstraintError reports whether err resulted from a CHECK
// constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[sqlStateError](err); ok && e.SQLState() == pgCheckViolation {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok && e.Number() == mysqlCheckViolation {
		return true
	}
	// Drivers without typed errors.
	msg := err.Error()
	for _, s := range []string{"Error 3819", "violates check constraint", "CHECK constraint failed"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// asError returns the first error in the chain of err implementing T.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
