package gen

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"

	"github.com/syssam/asenum"
)

// Type is the generated Go type of one registry entry.
type Type struct {
	Host string
	Def  *asenum.Definition

	name   string
	consts map[string]string
}

// NewType validates e and computes the names of the generated
// declarations.
func NewType(e asenum.Entry) (*Type, error) {
	if e.Definition == nil {
		return nil, NewEntryError(e.Host, "", "nil definition", nil)
	}
	if e.Host == "" {
		return nil, NewEntryError("", e.Definition.Attribute(), "missing host", nil)
	}
	t := &Type{
		Host:   e.Host,
		Def:    e.Definition,
		name:   TypeName(e.Host, e.Definition.Attribute()),
		consts: make(map[string]string, e.Definition.Len()),
	}
	seen := make(map[string]string, e.Definition.Len())
	for _, v := range e.Definition.Values() {
		c := t.name + pascal(v.N)
		if prev, ok := seen[c]; ok {
			return nil, NewEntryError(e.Host, e.Definition.Attribute(),
				fmt.Sprintf("values %q and %q both render as %s", prev, v.N, c), nil)
		}
		seen[c] = v.N
		t.consts[v.N] = c
	}
	return t, nil
}

// checkGraphQL reports values sharing a GraphQL name, e.g. "active" and
// "ACTIVE".
func (t *Type) checkGraphQL() error {
	seen := make(map[string]string, t.Def.Len())
	for _, v := range t.Def.Values() {
		g := GraphQLName(v.N)
		if prev, ok := seen[g]; ok {
			return NewEntryError(t.Host, t.Def.Attribute(),
				fmt.Sprintf("values %q and %q both map to GraphQL value %s", prev, v.N, g), nil)
		}
		seen[g] = v.N
	}
	return nil
}

// Name returns the Go type name, e.g. "UserGender".
func (t *Type) Name() string { return t.name }

// ConstName returns the constant name of value, e.g. "UserGenderFemale".
func (t *Type) ConstName(value string) string { return t.consts[value] }

// Filename returns the name of the generated file, e.g. "user_gender.go".
func (t *Type) Filename() string {
	return inflect.Underscore(t.name) + ".go"
}

func (t *Type) unexported(suffix string) string {
	r := []rune(t.name)
	r[0] = unicode.ToLower(r[0])
	return string(r) + suffix
}

// TypeName returns the Go type name of attribute on host. The host is
// reduced to its base type name: "example.com/app/models.User" and
// "models.User" both yield "User".
func TypeName(host, attribute string) string {
	return pascal(hostBase(host)) + pascal(attribute)
}

// GraphQLName returns the GraphQL enum value of a value name, e.g.
// "IN_PROGRESS" for "in-progress".
func GraphQLName(value string) string {
	var b strings.Builder
	for i, r := range value {
		switch {
		case i == 0 && unicode.IsDigit(r):
			b.WriteRune('_')
			b.WriteRune(r)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func hostBase(host string) string {
	if i := strings.IndexByte(host, '['); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndexByte(host, '/'); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.LastIndexByte(host, '.'); i >= 0 {
		host = host[i+1:]
	}
	return host
}

// pascal converts a name to an exported Go identifier fragment.
// Characters outside letters and digits separate words.
func pascal(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
	return inflect.Camelize(s)
}
