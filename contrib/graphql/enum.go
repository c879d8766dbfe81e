package graphql

import (
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"golang.org/x/text/language"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/compiler/gen"
)

// Enum maps the values of one definition to GraphQL enum values.
// GraphQL values are the upper-cased value names, e.g. FEMALE.
type Enum struct {
	host  string
	name  string
	def   *asenum.Definition
	toGQL map[string]string
	byGQL map[string]string
}

// NewEnum returns the GraphQL enum of d declared on host. The type is
// named like the generated Go type, e.g. UserGender.
func NewEnum(host string, d *asenum.Definition) (*Enum, error) {
	e := &Enum{
		host:  host,
		name:  gen.TypeName(host, d.Attribute()),
		def:   d,
		toGQL: make(map[string]string, d.Len()),
		byGQL: make(map[string]string, d.Len()),
	}
	for _, n := range d.Names() {
		g := gen.GraphQLName(n)
		if prev, ok := e.byGQL[g]; ok {
			return nil, fmt.Errorf("graphql: %s: values %q and %q both map to %s", e.name, prev, n, g)
		}
		e.toGQL[n], e.byGQL[g] = g, n
	}
	return e, nil
}

// Name returns the GraphQL type name.
func (e *Enum) Name() string { return e.name }

// Definition returns the SDL definition of the enum. Value descriptions
// are the labels of tr in tag when tr is not nil.
func (e *Enum) Definition(tr *asenum.Translations, tag language.Tag) *ast.Definition {
	def := &ast.Definition{
		Kind:        ast.Enum,
		Name:        e.name,
		Description: e.def.Comment(),
	}
	for _, n := range e.def.Names() {
		v := &ast.EnumValueDefinition{Name: e.toGQL[n]}
		if tr != nil {
			v.Description = tr.Label(tag, e.host, e.def.Attribute(), n)
		}
		def.EnumValues = append(def.EnumValues, v)
	}
	return def
}

// Marshal returns the GraphQL value of name. Unknown names marshal
// to null.
func (e *Enum) Marshal(name string) graphql.Marshaler {
	g, ok := e.toGQL[name]
	if !ok {
		return graphql.Null
	}
	return graphql.MarshalString(g)
}

// MarshalCode returns the GraphQL value of the name stored as code.
func (e *Enum) MarshalCode(code int64) graphql.Marshaler {
	n, ok := e.def.Name(code)
	if !ok {
		return graphql.Null
	}
	return e.Marshal(n)
}

// Unmarshal returns the value name of a GraphQL input value.
func (e *Enum) Unmarshal(v any) (string, error) {
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return "", err
	}
	n, ok := e.byGQL[s]
	if !ok {
		return "", fmt.Errorf("%s is not a valid %s", s, e.name)
	}
	return n, nil
}

// UnmarshalCode returns the stored code of a GraphQL input value.
func (e *Enum) UnmarshalCode(v any) (int64, error) {
	n, err := e.Unmarshal(v)
	if err != nil {
		return 0, err
	}
	c, _ := e.def.Code(n)
	return c, nil
}
