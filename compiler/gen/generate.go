package gen

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/asenum"
)

// Generator renders registry entries into a Go package holding one typed
// string enum per entry.
type Generator struct {
	cfg   *Config
	types []*Type
}

// New returns a generator for entries. Entries are ordered by type name
// and two entries rendering to the same type name are rejected. With
// GraphQL enabled, values sharing a GraphQL name are rejected too.
func New(cfg *Config, entries ...asenum.Entry) (*Generator, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: cfg, types: make([]*Type, 0, len(entries))}
	names := make(map[string]string, len(entries))
	for _, e := range entries {
		t, err := NewType(e)
		if err != nil {
			return nil, err
		}
		if cfg.GraphQL {
			if err := t.checkGraphQL(); err != nil {
				return nil, err
			}
		}
		if prev, ok := names[t.Name()]; ok {
			return nil, fmt.Errorf("%w: %s for %s and %s", ErrDuplicateType, t.Name(), prev, t.Host+"."+t.Def.Attribute())
		}
		names[t.Name()] = t.Host + "." + t.Def.Attribute()
		g.types = append(g.types, t)
	}
	slices.SortFunc(g.types, func(a, b *Type) int { return cmp.Compare(a.Name(), b.Name()) })
	return g, nil
}

// Types returns the generated types ordered by name.
func (g *Generator) Types() []*Type { return g.types }

// File builds the jennifer file of t.
func (g *Generator) File(t *Type) *jen.File {
	f := jen.NewFile(g.cfg.Package)
	if g.cfg.Header != "" {
		f.HeaderComment(g.cfg.Header)
	}
	genEnumType(f, t, g.cfg.GraphQL)
	return f
}

// Render returns the formatted source of t.
func (g *Generator) Render(t *Type) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.File(t).Render(&buf); err != nil {
		return nil, NewEntryError(t.Host, t.Def.Attribute(), "render", err)
	}
	return buf.Bytes(), nil
}

// Generate renders every entry into cfg.Target and returns the written
// paths.
func Generate(ctx context.Context, entries []asenum.Entry, opts ...Option) ([]string, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g, err := New(cfg, entries...)
	if err != nil {
		return nil, err
	}
	return NewWriter(g).WriteAll(ctx)
}

func genEnumType(f *jen.File, t *Type, graphql bool) {
	d := t.Def
	name := t.Name()
	codes := t.unexported("Codes")
	values := d.Values()

	ref := func(value string) jen.Code {
		if d.Shortcuts() {
			return jen.Id(t.ConstName(value))
		}
		return jen.Id(name).Call(jen.Lit(value))
	}

	f.Commentf("%s is the %q enum of %s, stored as an integer code in %s.", name, d.Attribute(), t.Host, d.Column())
	if d.Comment() != "" {
		f.Comment("")
		f.Comment(d.Comment())
	}
	f.Type().Id(name).String()

	if d.Shortcuts() {
		f.Const().DefsFunc(func(defs *jen.Group) {
			for _, v := range values {
				defs.Id(t.ConstName(v.N)).Id(name).Op("=").Lit(v.N)
			}
		})
	}

	f.Commentf("%sColumn is the storage column of %s.", name, name)
	f.Const().Id(name + "Column").Op("=").Lit(d.Column())

	f.Var().Id(codes).Op("=").Map(jen.Id(name)).Int64().Values(jen.DictFunc(func(dict jen.Dict) {
		for _, v := range values {
			dict[ref(v.N)] = jen.Lit(v.C)
		}
	}))

	f.Commentf("%sValues returns the values of %s in declaration order.", name, name)
	f.Func().Id(name + "Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).ValuesFunc(func(vals *jen.Group) {
			for _, v := range values {
				vals.Add(ref(v.N))
			}
		})),
	)

	f.Commentf("%sFromCode returns the value stored as code.", name)
	f.Func().Id(name+"FromCode").Params(jen.Id("code").Int64()).Params(jen.Id(name), jen.Bool()).Block(
		jen.Switch(jen.Id("code")).BlockFunc(func(sw *jen.Group) {
			for _, v := range values {
				sw.Case(jen.Lit(v.C)).Block(jen.Return(ref(v.N), jen.True()))
			}
		}),
		jen.Return(jen.Lit(""), jen.False()),
	)

	f.Func().Params(jen.Id("e").Id(name)).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id("e"))),
	)

	f.Commentf("IsValid reports whether e is a value of %s.", name)
	f.Func().Params(jen.Id("e").Id(name)).Id("IsValid").Params().Bool().Block(
		jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id(codes).Index(jen.Id("e")),
		jen.Return(jen.Id("ok")),
	)

	f.Comment("Code returns the integer code of e.")
	f.Func().Params(jen.Id("e").Id(name)).Id("Code").Params().Params(jen.Int64(), jen.Bool()).Block(
		jen.List(jen.Id("c"), jen.Id("ok")).Op(":=").Id(codes).Index(jen.Id("e")),
		jen.Return(jen.Id("c"), jen.Id("ok")),
	)

	genValuer(f, t, codes)
	genScanner(f, t)
	if graphql {
		genGraphQL(f, t, ref)
	}
}

// genValuer writes codes. The empty value is stored as NULL. Unknown
// values fail for whiny definitions and are stored as is otherwise.
func genValuer(f *jen.File, t *Type, codes string) {
	name := t.Name()
	var unknown jen.Code = jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid "+name+" %q"), jen.String().Call(jen.Id("e"))))
	if !t.Def.Whiny() {
		unknown = jen.Return(jen.String().Call(jen.Id("e")), jen.Nil())
	}
	f.Comment("Value implements the driver.Valuer interface.")
	f.Func().Params(jen.Id("e").Id(name)).Id("Value").Params().Params(
		jen.Qual("database/sql/driver", "Value"),
		jen.Error(),
	).Block(
		jen.If(jen.Id("e").Op("==").Lit("")).Block(jen.Return(jen.Nil(), jen.Nil())),
		jen.If(jen.List(jen.Id("c"), jen.Id("ok")).Op(":=").Id(codes).Index(jen.Id("e")), jen.Id("ok")).Block(
			jen.Return(jen.Id("c"), jen.Nil()),
		),
		unknown,
	)
}

// genScanner reads codes. NULL scans to the empty value. Unknown codes
// fail for whiny definitions and scan to the empty value otherwise.
// Non numeric text, as written by a lenient Value, fails for whiny
// definitions and scans back as is otherwise.
func genScanner(f *jen.File, t *Type) {
	name := t.Name()
	parse := func(src jen.Code) []jen.Code {
		invalid := []jen.Code{jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid code %q for "+name), jen.Id("v")))}
		if !t.Def.Whiny() {
			invalid = []jen.Code{
				jen.Op("*").Id("e").Op("=").Id(name).Call(src),
				jen.Return(jen.Nil()),
			}
		}
		return []jen.Code{
			jen.List(jen.Id("n"), jen.Err()).Op(":=").Qual("strconv", "ParseInt").Call(src, jen.Lit(10), jen.Lit(64)),
			jen.If(jen.Err().Op("!=").Nil()).Block(invalid...),
			jen.Id("code").Op("=").Id("n"),
		}
	}
	var unknown jen.Code = jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("unknown code %d for "+name), jen.Id("code")))
	if !t.Def.Whiny() {
		unknown = jen.Return(jen.Nil())
	}
	f.Comment("Scan implements the sql.Scanner interface.")
	f.Func().Params(jen.Id("e").Op("*").Id(name)).Id("Scan").Params(jen.Id("value").Any()).Error().Block(
		jen.Op("*").Id("e").Op("=").Lit(""),
		jen.Var().Id("code").Int64(),
		jen.Switch(jen.Id("v").Op(":=").Id("value").Assert(jen.Type())).Block(
			jen.Case(jen.Nil()).Block(jen.Return(jen.Nil())),
			jen.Case(jen.Int64()).Block(jen.Id("code").Op("=").Id("v")),
			jen.Case(jen.Index().Byte()).Block(parse(jen.String().Call(jen.Id("v")))...),
			jen.Case(jen.String()).Block(parse(jen.Id("v"))...),
			jen.Default().Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("invalid type %T for "+name), jen.Id("value"))),
			),
		),
		jen.List(jen.Id("v"), jen.Id("ok")).Op(":=").Id(name+"FromCode").Call(jen.Id("code")),
		jen.If(jen.Op("!").Id("ok")).Block(unknown),
		jen.Op("*").Id("e").Op("=").Id("v"),
		jen.Return(jen.Nil()),
	)
}

func genGraphQL(f *jen.File, t *Type, ref func(string) jen.Code) {
	name := t.Name()
	values := t.Def.Values()

	f.Comment("MarshalGQL implements the graphql.Marshaler interface.")
	f.Func().Params(jen.Id("e").Id(name)).Id("MarshalGQL").Params(jen.Id("w").Qual("io", "Writer")).Block(
		jen.Switch(jen.Id("e")).BlockFunc(func(sw *jen.Group) {
			for _, v := range values {
				sw.Case(ref(v.N)).Block(
					jen.Qual("io", "WriteString").Call(jen.Id("w"), jen.Lit(strconv.Quote(GraphQLName(v.N)))),
				)
			}
			sw.Default().Block(
				jen.Qual("io", "WriteString").Call(jen.Id("w"), jen.Qual("strconv", "Quote").Call(jen.String().Call(jen.Id("e")))),
			)
		}),
	)

	f.Comment("UnmarshalGQL implements the graphql.Unmarshaler interface.")
	f.Func().Params(jen.Id("e").Op("*").Id(name)).Id("UnmarshalGQL").Params(jen.Id("val").Any()).Error().Block(
		jen.List(jen.Id("str"), jen.Id("ok")).Op(":=").Id("val").Assert(jen.String()),
		jen.If(jen.Op("!").Id("ok")).Block(
			jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("enum %T must be a string"), jen.Id("val"))),
		),
		jen.Switch(jen.Id("str")).BlockFunc(func(sw *jen.Group) {
			for _, v := range values {
				sw.Case(jen.Lit(GraphQLName(v.N))).Block(jen.Op("*").Id("e").Op("=").Add(ref(v.N)))
			}
			sw.Default().Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("%s is not a valid "+name), jen.Id("str"))),
			)
		}),
		jen.Return(jen.Nil()),
	)
}
