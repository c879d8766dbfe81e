package asenum

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"

	"github.com/go-openapi/inflect"

	"github.com/syssam/asenum/schema/field"
)

// validIdentifierRe matches the names accepted for attributes, values,
// prefixes and columns.
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ColumnSuffix is appended to the attribute name to derive the default
// storage column.
const ColumnSuffix = "_cd"

// Definition is the validated, immutable mapping between the symbolic
// names of an attribute and their stored codes.
type Definition struct {
	attribute string
	column    string
	prefix    string
	comment   string
	shortcuts bool
	whiny     bool
	dirty     bool
	values    []field.Value
	byName    map[string]int64
	byCode    map[int64]string
}

// Build validates the descriptor and returns its definition. All problems
// found are reported at once in a single *ConfigurationError.
func Build(desc *field.Descriptor) (*Definition, error) {
	if desc == nil {
		return nil, NewConfigurationError("", nil, "nil descriptor")
	}
	var msgs []string
	if !validIdentifierRe.MatchString(desc.Name) {
		msgs = append(msgs, fmt.Sprintf("attribute name %q is not a valid identifier", desc.Name))
	}
	if len(desc.Values) == 0 {
		msgs = append(msgs, "missing values")
	}
	d := &Definition{
		attribute: desc.Name,
		column:    desc.Column,
		prefix:    desc.Prefix,
		comment:   desc.Comment,
		shortcuts: !desc.Slim,
		whiny:     desc.Whiny,
		dirty:     desc.Dirty,
		values:    make([]field.Value, 0, len(desc.Values)),
		byName:    make(map[string]int64, len(desc.Values)),
		byCode:    make(map[int64]string, len(desc.Values)),
	}
	if d.column == "" {
		d.column = desc.Name + ColumnSuffix
	} else if !validIdentifierRe.MatchString(d.column) {
		msgs = append(msgs, fmt.Sprintf("column %q is not a valid identifier", d.column))
	}
	if desc.PrefixAttribute() {
		d.prefix = desc.Name
	} else if d.prefix != "" && !validIdentifierRe.MatchString(d.prefix) {
		msgs = append(msgs, fmt.Sprintf("prefix %q is not a valid identifier", d.prefix))
	}
	for _, v := range desc.Values {
		switch name, code := v.N, v.C; {
		case !validIdentifierRe.MatchString(name):
			msgs = append(msgs, fmt.Sprintf("value %q is not a valid identifier", name))
		case code < 0:
			msgs = append(msgs, fmt.Sprintf("value %q has negative code %d", name, code))
		default:
			if _, ok := d.byName[name]; ok {
				msgs = append(msgs, fmt.Sprintf("duplicate value %q", name))
				continue
			}
			if other, ok := d.byCode[code]; ok {
				msgs = append(msgs, fmt.Sprintf("duplicate code %d for values %q and %q", code, other, name))
				continue
			}
			d.byName[name] = code
			d.byCode[code] = name
			d.values = append(d.values, v)
		}
	}
	if len(msgs) > 0 || desc.Err != nil {
		return nil, NewConfigurationError(desc.Name, desc.Err, msgs...)
	}
	return d, nil
}

// Attribute returns the logical attribute name.
func (d *Definition) Attribute() string { return d.attribute }

// Column returns the storage column holding the integer code.
func (d *Definition) Column() string { return d.column }

// Prefix returns the resolved shortcut prefix, or "" for none.
func (d *Definition) Prefix() string { return d.prefix }

// Comment returns the comment of the attribute.
func (d *Definition) Comment() string { return d.comment }

// Shortcuts reports whether predicates, bang setters and per-value
// constants are generated.
func (d *Definition) Shortcuts() bool { return d.shortcuts }

// Whiny reports whether unknown assignments fail.
func (d *Definition) Whiny() bool { return d.whiny }

// Dirty reports whether change tracking is enabled.
func (d *Definition) Dirty() bool { return d.dirty }

// Len returns the number of values.
func (d *Definition) Len() int { return len(d.values) }

// Values returns a copy of the ordered name and code pairs.
func (d *Definition) Values() []field.Value {
	return slices.Clone(d.values)
}

// Names returns the symbolic names in declaration order.
func (d *Definition) Names() []string {
	names := make([]string, len(d.values))
	for i, v := range d.values {
		names[i] = v.N
	}
	return names
}

// Codes returns the stored codes in declaration order.
func (d *Definition) Codes() []int64 {
	codes := make([]int64, len(d.values))
	for i, v := range d.values {
		codes[i] = v.C
	}
	return codes
}

// Code returns the code of the given name.
func (d *Definition) Code(name string) (int64, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// Name returns the name of the given code.
func (d *Definition) Name(code int64) (string, bool) {
	n, ok := d.byCode[code]
	return n, ok
}

// Plural returns the name of the class level accessor for the whole
// mapping, e.g. "genders" or "statuses".
func (d *Definition) Plural() string {
	return inflect.Pluralize(d.attribute)
}

// ShortcutName returns the prefixed name of the per-value constant.
func (d *Definition) ShortcutName(name string) string {
	if d.prefix == "" {
		return name
	}
	return d.prefix + "_" + name
}

// PredicateName returns the name of the per-value predicate.
func (d *Definition) PredicateName(name string) string {
	return d.ShortcutName(name) + "?"
}

// BangName returns the name of the per-value bang setter.
func (d *Definition) BangName(name string) string {
	return d.ShortcutName(name) + "!"
}

// resolve maps a raw assignment value to a code. Strings (and string
// kinds) are matched as names, integer kinds as codes.
func (d *Definition) resolve(v any) (int64, bool) {
	switch v := v.(type) {
	case string:
		c, ok := d.byName[v]
		return c, ok
	case fmt.Stringer:
		c, ok := d.byName[v.String()]
		return c, ok
	case field.Value:
		c, ok := d.byName[v.N]
		return c, ok && c == v.C
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		c, ok := d.byName[rv.String()]
		return c, ok
	}
	c, err := field.IntCode(v)
	if err != nil {
		return 0, false
	}
	_, ok := d.byCode[c]
	return c, ok
}
