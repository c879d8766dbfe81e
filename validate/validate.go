// Package validate provides a small per-record validation chain. Checks
// report violations attached to a field, and are combined, made
// conditional and evaluated in declaration order.
package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every *Error returned from Check.
var ErrInvalid = errors.New("validate: record is invalid")

// Violation codes reported by the built-in checks.
const (
	CodeInclusion = "enum_invalid"
	CodeRequired  = "required"
)

// DefaultMessage is used when a check has no configured message.
const DefaultMessage = "is invalid"

// Violation describes a failed check on a single field.
type Violation struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String returns the field and message, e.g. "gender is invalid".
func (v Violation) String() string {
	return v.Field + " " + v.Message
}

type (
	// Validator checks a record and returns the violations found.
	Validator[T any] interface {
		Validate(context.Context, T) []Violation
	}

	// Validators combines multiple validators. All of them are evaluated.
	Validators[T any] []Validator[T]
)

// Func type is an adapter which allows the use of ordinary functions
// as validators.
type Func[T any] func(context.Context, T) []Violation

// Validate returns f(ctx, v).
func (f Func[T]) Validate(ctx context.Context, v T) []Violation {
	return f(ctx, v)
}

// Validate evaluates all validators in order and concatenates their
// violations.
func (vs Validators[T]) Validate(ctx context.Context, v T) []Violation {
	var violations []Violation
	for _, val := range vs {
		violations = append(violations, val.Validate(ctx, v)...)
	}
	return violations
}

// Check evaluates the validators and returns an *Error when any
// violation was found.
func (vs Validators[T]) Check(ctx context.Context, v T) error {
	if violations := vs.Validate(ctx, v); len(violations) > 0 {
		return &Error{Violations: violations}
	}
	return nil
}

// Options holds the generic options of a check.
type Options[T any] struct {
	// If, when set, must return true for the check to run.
	If func(context.Context, T) bool
	// Unless, when set, must return false for the check to run.
	Unless func(context.Context, T) bool
	// AllowNil accepts a nil field value.
	AllowNil bool
	// Message replaces DefaultMessage in reported violations.
	Message string
}

// Applies reports whether the If and Unless conditions allow the check
// to run on v.
func (o Options[T]) Applies(ctx context.Context, v T) bool {
	if o.If != nil && !o.If(ctx, v) {
		return false
	}
	if o.Unless != nil && o.Unless(ctx, v) {
		return false
	}
	return true
}

// MessageOr returns the configured message, or def if none.
func (o Options[T]) MessageOr(def string) string {
	if o.Message != "" {
		return o.Message
	}
	return def
}

// Conditional wraps val so that it only runs when the If and Unless
// options allow it.
func Conditional[T any](o Options[T], val Validator[T]) Validator[T] {
	if o.If == nil && o.Unless == nil {
		return val
	}
	return Func[T](func(ctx context.Context, v T) []Violation {
		if !o.Applies(ctx, v) {
			return nil
		}
		return val.Validate(ctx, v)
	})
}

// Error is returned by Check and holds all violations found.
type Error struct {
	Violations []Violation
}

// Error returns the error string.
func (e *Error) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validate: %s", e.Violations[0])
	}
	var sb strings.Builder
	sb.WriteString("validate: multiple violations:")
	for i, v := range e.Violations {
		fmt.Fprintf(&sb, "\n  [%d] %s", i+1, v)
	}
	return sb.String()
}

// Is reports whether the target matches ErrInvalid.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// On returns the violations reported for the given field.
func (e *Error) On(field string) []Violation {
	var vs []Violation
	for _, v := range e.Violations {
		if v.Field == field {
			vs = append(vs, v)
		}
	}
	return vs
}
