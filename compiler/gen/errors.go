package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for code generation.
var (
	// ErrInvalidEntry is returned when a registry entry cannot be rendered.
	ErrInvalidEntry = errors.New("asenum: invalid entry")

	// ErrMissingConfig is returned when required configuration is missing.
	ErrMissingConfig = errors.New("asenum: missing required configuration")

	// ErrDuplicateType is returned when two entries render to the same Go type.
	ErrDuplicateType = errors.New("asenum: duplicate generated type")
)

// EntryError reports a problem rendering the definition of one host
// attribute.
type EntryError struct {
	Host      string
	Attribute string
	Message   string
	Cause     error
}

func (e *EntryError) Error() string {
	var b strings.Builder
	b.WriteString("asenum: gen")
	if e.Host != "" {
		b.WriteString(" ")
		b.WriteString(e.Host)
	}
	if e.Attribute != "" {
		b.WriteString(".")
		b.WriteString(e.Attribute)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *EntryError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidEntry.
func (e *EntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}

// NewEntryError creates an EntryError.
func NewEntryError(host, attribute, message string, cause error) *EntryError {
	return &EntryError{Host: host, Attribute: attribute, Message: message, Cause: cause}
}

// ConfigError reports an invalid generator option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("asenum: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("asenum: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether target is ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// IsEntryError reports whether err is an EntryError.
func IsEntryError(err error) bool {
	var e *EntryError
	return errors.As(err, &e)
}

// IsConfigError reports whether err is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}
