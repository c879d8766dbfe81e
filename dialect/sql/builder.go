package sql

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/asenum/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Builder is a minimal SQL string builder with dialect aware identifier
// quoting and argument placeholders.
type Builder struct {
	sb      strings.Builder
	dialect string
	args    []any
	total   int
	errs    []string
}

// Dialect returns a new Builder for the given dialect.
func Dialect(name string) *Builder {
	return &Builder{dialect: name}
}

// WriteString appends s as is.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Ident appends a quoted identifier. Invalid identifiers are reported by
// Query.
func (b *Builder) Ident(s string) *Builder {
	if !isValidIdentifier(s) {
		b.errs = append(b.errs, fmt.Sprintf("invalid identifier %q", s))
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		if b.dialect == dialect.MySQL {
			b.sb.WriteString("`" + p + "`")
		} else {
			b.sb.WriteString(strconv.Quote(p))
		}
	}
	return b
}

// IdentComma appends the quoted identifiers separated by commas.
func (b *Builder) IdentComma(s ...string) *Builder {
	for i, c := range s {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.Ident(c)
	}
	return b
}

// Arg appends a placeholder for a.
func (b *Builder) Arg(a any) *Builder {
	b.total++
	b.args = append(b.args, a)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$" + strconv.Itoa(b.total))
	} else {
		b.sb.WriteByte('?')
	}
	return b
}

// Ints appends a comma separated list of integer literals.
func (b *Builder) Ints(vs ...int64) *Builder {
	for i, v := range vs {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(strconv.FormatInt(v, 10))
	}
	return b
}

// Query returns the statement and its arguments.
func (b *Builder) Query() (string, []any, error) {
	if len(b.errs) > 0 {
		return "", nil, fmt.Errorf("dialect/sql: %s", strings.Join(b.errs, "; "))
	}
	return b.sb.String(), b.args, nil
}
