package asenum

import (
	"context"
	"maps"
	"reflect"
	"slices"
)

// Value represents a raw storage value: nil, an integer code, or, for
// lenient attributes, whatever was assigned.
type Value = any

// Record is the storage side of a host object. It exposes the generic
// get and set by field name that the enum accessors operate on.
type Record interface {
	// Field returns the value of the named field, and whether the field
	// is present at all.
	Field(name string) (Value, bool)
	// SetField sets the value of the named field.
	SetField(name string, value Value) error
}

// OldFielder is implemented by records that remember the value a field
// held before it was changed. It is required by the change tracking
// helpers.
type OldFielder interface {
	OldField(ctx context.Context, name string) (Value, error)
}

// Fields is a map backed Record with change tracking. The zero value is
// ready to use, and host types usually embed it:
//
//	type User struct {
//	    asenum.Fields
//	}
type Fields struct {
	values map[string]Value
	old    map[string]Value
}

// NewFields returns Fields holding a copy of the given values. The values
// are considered persisted: none of them is reported as changed.
func NewFields(values map[string]Value) *Fields {
	return &Fields{values: maps.Clone(values)}
}

// Field implements Record.
func (f *Fields) Field(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// SetField implements Record. The first change of a field since the last
// Commit records its previous value.
func (f *Fields) SetField(name string, value Value) error {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.old[name]; !ok {
		if f.old == nil {
			f.old = make(map[string]Value)
		}
		f.old[name] = f.values[name]
	}
	f.values[name] = value
	return nil
}

// OldField implements OldFielder. An unchanged field returns its current
// value.
func (f *Fields) OldField(_ context.Context, name string) (Value, error) {
	if v, ok := f.old[name]; ok {
		return v, nil
	}
	return f.values[name], nil
}

// FieldChanged reports whether the field holds a value different from the
// one it held at the last Commit.
func (f *Fields) FieldChanged(name string) bool {
	old, ok := f.old[name]
	return ok && !reflect.DeepEqual(old, f.values[name])
}

// ChangedFields returns the sorted names of the changed fields.
func (f *Fields) ChangedFields() []string {
	var names []string
	for name := range f.old {
		if f.FieldChanged(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Commit marks all current values as persisted.
func (f *Fields) Commit() {
	clear(f.old)
}

// Map returns a copy of all field values.
func (f *Fields) Map() map[string]Value {
	return maps.Clone(f.values)
}

var (
	_ Record     = (*Fields)(nil)
	_ OldFielder = (*Fields)(nil)
)
