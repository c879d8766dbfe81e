package asenum

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for enum declarations and assignments.
var (
	// ErrConfiguration is returned when an enum declaration is malformed.
	ErrConfiguration = errors.New("asenum: invalid enum declaration")

	// ErrInvalidValue is returned when a strict (whiny) attribute is
	// assigned a value that is neither a known name nor a known code.
	ErrInvalidValue = errors.New("asenum: invalid enum value")

	// ErrUnknownValue is returned when a code is requested for a name
	// that is not part of the mapping.
	ErrUnknownValue = errors.New("asenum: unknown enum value")

	// ErrNotDeclared is returned when no definition is registered for a
	// host type and attribute.
	ErrNotDeclared = errors.New("asenum: enum not declared")

	// ErrDirtyDisabled is returned by the change tracking helpers of an
	// attribute that was not declared with Dirty.
	ErrDirtyDisabled = errors.New("asenum: change tracking disabled")
)

// ConfigurationError represents a malformed enum declaration.
type ConfigurationError struct {
	Attribute string // Attribute name
	Messages  []string
	Cause     error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("asenum: invalid enum declaration")
	if e.Attribute != "" {
		fmt.Fprintf(&b, " %q", e.Attribute)
	}
	if len(e.Messages) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError returns a new ConfigurationError.
func NewConfigurationError(attribute string, cause error, messages ...string) *ConfigurationError {
	return &ConfigurationError{Attribute: attribute, Messages: messages, Cause: cause}
}

// IsConfigurationError returns true if the error is a ConfigurationError.
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e) || errors.Is(err, ErrConfiguration)
}

// InvalidEnumValueError represents the assignment of an unrecognized
// value to a whiny attribute.
type InvalidEnumValueError struct {
	Attribute string
	Value     any
}

// Error implements the error interface.
func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("asenum: invalid enum value %#v for %q", e.Value, e.Attribute)
}

// Is reports whether the target matches ErrInvalidValue.
func (e *InvalidEnumValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// NewInvalidEnumValueError returns a new InvalidEnumValueError.
func NewInvalidEnumValueError(attribute string, value any) *InvalidEnumValueError {
	return &InvalidEnumValueError{Attribute: attribute, Value: value}
}

// IsInvalidEnumValue returns true if the error is an InvalidEnumValueError.
func IsInvalidEnumValue(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidEnumValueError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidValue)
}

// UnknownEnumValueError represents a lookup of an undeclared name.
type UnknownEnumValueError struct {
	Attribute string
	Name      string
}

// Error implements the error interface.
func (e *UnknownEnumValueError) Error() string {
	return fmt.Sprintf("asenum: unknown value %q for %q", e.Name, e.Attribute)
}

// Is reports whether the target matches ErrUnknownValue.
func (e *UnknownEnumValueError) Is(target error) bool {
	return target == ErrUnknownValue
}

// NewUnknownEnumValueError returns a new UnknownEnumValueError.
func NewUnknownEnumValueError(attribute, name string) *UnknownEnumValueError {
	return &UnknownEnumValueError{Attribute: attribute, Name: name}
}

// IsUnknownEnumValue returns true if the error is an UnknownEnumValueError.
func IsUnknownEnumValue(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownEnumValueError
	return errors.As(err, &e) || errors.Is(err, ErrUnknownValue)
}

// NotDeclaredError is returned when a lookup finds no definition.
type NotDeclaredError struct {
	Host      string
	Attribute string
}

// Error implements the error interface.
func (e *NotDeclaredError) Error() string {
	return fmt.Sprintf("asenum: enum %q not declared on %s", e.Attribute, e.Host)
}

// Is reports whether the target matches ErrNotDeclared.
func (e *NotDeclaredError) Is(target error) bool {
	return target == ErrNotDeclared
}

// IsNotDeclared returns true if the error is a NotDeclaredError.
func IsNotDeclared(err error) bool {
	if err == nil {
		return false
	}
	var e *NotDeclaredError
	return errors.As(err, &e) || errors.Is(err, ErrNotDeclared)
}
