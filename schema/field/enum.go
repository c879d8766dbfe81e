package field

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Value is a single symbolic name and its stored integer code.
type Value struct {
	N string // symbolic name
	C int64  // stored code
}

// Descriptor holds the declaration of an enum attribute as collected
// by the builder. It is validated by asenum.Build.
type Descriptor struct {
	Name     string  // logical attribute name, e.g. "gender"
	Values   []Value // declaration order
	Column   string  // storage field override
	Prefix   string  // namespace for generated shortcut names
	Slim     bool    // suppress shortcut generation
	Whiny    bool    // reject unknown values on assignment
	Dirty    bool    // enable change tracking helpers
	Comment  string
	Err      error
	prefixed bool
}

// PrefixAttribute reports whether the prefix was requested as the
// attribute name itself (the `prefix: true` form).
func (d *Descriptor) PrefixAttribute() bool {
	return d.prefixed
}

// Codes reports the stored codes of the descriptor in declaration order.
func (d *Descriptor) Codes() []int64 {
	codes := make([]int64, len(d.Values))
	for i, v := range d.Values {
		codes[i] = v.C
	}
	return codes
}

// Builder is the interface implemented by enum builders.
type Builder interface {
	Descriptor() *Descriptor
}

// Enum returns a new builder for an enum attribute backed by an
// integer storage column.
//
//	field.Enum("gender").Map(map[string]int64{"female": 1, "male": 0})
//	field.Enum("status").Values("deleted", "active", "disabled")
func Enum(name string) *EnumBuilder {
	return &EnumBuilder{desc: &Descriptor{
		Name:  name,
		Whiny: true,
	}}
}

// EnumBuilder is the builder for enum attributes.
type EnumBuilder struct {
	desc *Descriptor
}

// Values adds symbolic names numbered in call order. The first name of
// the first call is 0, and numbering continues from the number of values
// already declared. Reordering the names changes the stored codes.
func (b *EnumBuilder) Values(names ...string) *EnumBuilder {
	for _, n := range names {
		b.desc.Values = append(b.desc.Values, Value{N: n, C: int64(len(b.desc.Values))})
	}
	return b
}

// Value adds a single symbolic name with an explicit code.
func (b *EnumBuilder) Value(name string, code int64) *EnumBuilder {
	b.desc.Values = append(b.desc.Values, Value{N: name, C: code})
	return b
}

// Pairs adds values given as alternating name and code arguments.
//
//	field.Enum("gender").Pairs("female", 1, "male", 0)
func (b *EnumBuilder) Pairs(pairs ...any) *EnumBuilder {
	if len(pairs)%2 != 0 {
		b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field: odd number of arguments to Pairs for %q", b.desc.Name))
		return b
	}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field: expect string name at position %d, got %T", i, pairs[i]))
			continue
		}
		code, err := IntCode(pairs[i+1])
		if err != nil {
			b.desc.Err = errors.Join(b.desc.Err, fmt.Errorf("field: value %q: %w", name, err))
			continue
		}
		b.desc.Values = append(b.desc.Values, Value{N: name, C: code})
	}
	return b
}

// Map adds values from an explicit name to code mapping. Go maps carry
// no order, so entries are added in ascending code order (ties broken
// by name).
func (b *EnumBuilder) Map(m map[string]int64) *EnumBuilder {
	names := slices.Collect(maps.Keys(m))
	slices.SortFunc(names, func(x, y string) int {
		return cmp.Or(cmp.Compare(m[x], m[y]), cmp.Compare(x, y))
	})
	for _, n := range names {
		b.desc.Values = append(b.desc.Values, Value{N: n, C: m[n]})
	}
	return b
}

// Column overrides the storage field name. The default is "<name>_cd".
func (b *EnumBuilder) Column(name string) *EnumBuilder {
	b.desc.Column = name
	return b
}

// StorageKey is an alias for Column.
func (b *EnumBuilder) StorageKey(name string) *EnumBuilder {
	return b.Column(name)
}

// Prefix namespaces the generated shortcut names with the given string.
// An empty string removes the prefix.
func (b *EnumBuilder) Prefix(prefix string) *EnumBuilder {
	b.desc.Prefix = prefix
	b.desc.prefixed = false
	return b
}

// PrefixAttribute namespaces the generated shortcut names with the
// attribute name, e.g. "gender_female?".
func (b *EnumBuilder) PrefixAttribute() *EnumBuilder {
	b.desc.Prefix = ""
	b.desc.prefixed = true
	return b
}

// Slim suppresses predicates, bang setters and per-value constants.
func (b *EnumBuilder) Slim() *EnumBuilder {
	b.desc.Slim = true
	return b
}

// Whiny sets whether assigning an unknown value fails. Defaults to true.
func (b *EnumBuilder) Whiny(whiny bool) *EnumBuilder {
	b.desc.Whiny = whiny
	return b
}

// Dirty enables the change tracking helpers for the attribute.
func (b *EnumBuilder) Dirty() *EnumBuilder {
	b.desc.Dirty = true
	return b
}

// Comment sets the comment of the attribute.
func (b *EnumBuilder) Comment(c string) *EnumBuilder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the Builder interface by returning its descriptor.
func (b *EnumBuilder) Descriptor() *Descriptor {
	return b.desc
}

// IntCode converts an integer value of any Go integer kind to a code.
func IntCode(v any) (int64, error) {
	switch v := v.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint:
		if uint64(v) > 1<<63-1 {
			return 0, fmt.Errorf("code %d overflows int64", v)
		}
		return int64(v), nil
	case uint64:
		if v > 1<<63-1 {
			return 0, fmt.Errorf("code %d overflows int64", v)
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("expect integer code, got %T", v)
	}
}
