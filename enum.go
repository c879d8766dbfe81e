package asenum

import (
	"context"
	"fmt"
	"reflect"

	"golang.org/x/text/language"

	"github.com/syssam/asenum/schema/field"
	"github.com/syssam/asenum/validate"
)

// Pair is a symbolic name of type K and its code.
type Pair[K ~string] struct {
	Name K
	Code int64
}

// Option is a select option of an enum value.
type Option[K ~string] struct {
	Label string
	Name  K
	Code  int64
}

// Enum is the accessor table of an enum attribute on records of type T,
// with symbolic names of type K. It is built once at declaration time
// and is safe for concurrent use.
type Enum[T Record, K ~string] struct {
	def        *Definition
	host       string
	predicates map[string]K
	bangs      map[string]K
	consts     map[string]int64
}

// Declare builds the declaration, registers it in the DefaultRegistry
// for host type T and returns its accessor table. Nothing is registered
// when the declaration is invalid.
//
//	var Gender = asenum.MustDeclare[*User, GenderKey](
//	    field.Enum("gender").Value("female", 1).Value("male", 0),
//	)
func Declare[T Record, K ~string](b field.Builder) (*Enum[T, K], error) {
	return DeclareIn[T, K](DefaultRegistry, b)
}

// DeclareIn is like Declare, but registers in r.
func DeclareIn[T Record, K ~string](r *Registry, b field.Builder) (*Enum[T, K], error) {
	host := HostName[T]()
	d, err := r.Declare(host, b)
	if err != nil {
		return nil, err
	}
	return bind[T, K](host, d), nil
}

// MustDeclare is like Declare, but panics on invalid declarations. It is
// intended for package level variables.
func MustDeclare[T Record, K ~string](b field.Builder) *Enum[T, K] {
	e, err := Declare[T, K](b)
	if err != nil {
		panic(err)
	}
	return e
}

// Bind returns the accessor table of a definition registered elsewhere,
// for example by a catalog.
func Bind[T Record, K ~string](d *Definition) *Enum[T, K] {
	return bind[T, K](HostName[T](), d)
}

func bind[T Record, K ~string](host string, d *Definition) *Enum[T, K] {
	e := &Enum[T, K]{def: d, host: host}
	if !d.shortcuts {
		return e
	}
	e.predicates = make(map[string]K, len(d.values))
	e.bangs = make(map[string]K, len(d.values))
	e.consts = make(map[string]int64, len(d.values))
	for _, v := range d.values {
		e.predicates[d.PredicateName(v.N)] = K(v.N)
		e.bangs[d.BangName(v.N)] = K(v.N)
		e.consts[d.ShortcutName(v.N)] = v.C
	}
	return e
}

// Definition returns the underlying definition.
func (e *Enum[T, K]) Definition() *Definition { return e.def }

// Host returns the registry name of the host type.
func (e *Enum[T, K]) Host() string { return e.host }

// Raw returns the raw value of the storage field.
func (e *Enum[T, K]) Raw(rec T) Value {
	v, _ := rec.Field(e.def.column)
	return v
}

// Get returns the symbolic name of the stored code. It reports false when
// the field is nil, or holds a value that is not a code of the mapping.
func (e *Enum[T, K]) Get(rec T) (K, bool) {
	c, ok := e.code(rec)
	if !ok {
		return "", false
	}
	name, ok := e.def.byCode[c]
	return K(name), ok
}

// Set assigns v to the attribute. v is either a symbolic name (string or
// any string kind) or an integer code of the mapping. nil and "" clear
// the field. Unknown values fail with *InvalidEnumValueError for whiny
// attributes and leave the field unchanged, otherwise they are stored
// untranslated.
func (e *Enum[T, K]) Set(rec T, v any) error {
	if p, ok := v.(*K); ok {
		if p == nil {
			v = nil
		} else {
			v = *p
		}
	}
	if blank(v) {
		return rec.SetField(e.def.column, nil)
	}
	if c, ok := e.def.resolve(v); ok {
		return rec.SetField(e.def.column, c)
	}
	if e.def.whiny {
		return NewInvalidEnumValueError(e.def.attribute, v)
	}
	return rec.SetField(e.def.column, v)
}

// Is reports whether the stored code is the code of k.
func (e *Enum[T, K]) Is(rec T, k K) bool {
	want, ok := e.def.byName[string(k)]
	if !ok {
		return false
	}
	c, ok := e.code(rec)
	return ok && c == want
}

// SetTo assigns k and returns it.
func (e *Enum[T, K]) SetTo(rec T, k K) (K, error) {
	if err := e.Set(rec, k); err != nil {
		return "", err
	}
	return k, nil
}

// Values returns a copy of the ordered mapping.
func (e *Enum[T, K]) Values() []Pair[K] {
	pairs := make([]Pair[K], len(e.def.values))
	for i, v := range e.def.values {
		pairs[i] = Pair[K]{Name: K(v.N), Code: v.C}
	}
	return pairs
}

// Map returns a copy of the mapping as a Go map.
func (e *Enum[T, K]) Map() map[K]int64 {
	m := make(map[K]int64, len(e.def.values))
	for _, v := range e.def.values {
		m[K(v.N)] = v.C
	}
	return m
}

// Code returns the code of k, or an *UnknownEnumValueError.
func (e *Enum[T, K]) Code(k K) (int64, error) {
	c, ok := e.def.byName[string(k)]
	if !ok {
		return 0, NewUnknownEnumValueError(e.def.attribute, string(k))
	}
	return c, nil
}

// Predicate returns the generated predicate of the given name, e.g.
// "female?" or "gender_female?".
func (e *Enum[T, K]) Predicate(name string) (func(T) bool, bool) {
	k, ok := e.predicates[name]
	if !ok {
		return nil, false
	}
	return func(rec T) bool { return e.Is(rec, k) }, true
}

// Bang returns the generated bang setter of the given name, e.g.
// "female!" or "gender_female!".
func (e *Enum[T, K]) Bang(name string) (func(T) (K, error), bool) {
	k, ok := e.bangs[name]
	if !ok {
		return nil, false
	}
	return func(rec T) (K, error) { return e.SetTo(rec, k) }, true
}

// Const returns the code behind a generated per-value constant name,
// e.g. "female" or "gender_female".
func (e *Enum[T, K]) Const(name string) (int64, bool) {
	c, ok := e.consts[name]
	return c, ok
}

// InstanceMethods returns the names of the generated instance operations:
// getter, setter, then the predicate and bang setter of every value.
func (e *Enum[T, K]) InstanceMethods() []string {
	names := []string{e.def.attribute, e.def.attribute + "="}
	if !e.def.shortcuts {
		return names
	}
	for _, v := range e.def.values {
		names = append(names, e.def.PredicateName(v.N), e.def.BangName(v.N))
	}
	return names
}

// ClassMethods returns the names of the generated type level operations:
// the plural accessor, then the constant of every value.
func (e *Enum[T, K]) ClassMethods() []string {
	names := []string{e.def.Plural()}
	if !e.def.shortcuts {
		return names
	}
	for _, v := range e.def.values {
		names = append(names, e.def.ShortcutName(v.N))
	}
	return names
}

// Changed reports whether the stored code differs from the one the
// record held before it was modified.
func (e *Enum[T, K]) Changed(ctx context.Context, rec T) (bool, error) {
	old, err := e.old(ctx, rec)
	if err != nil {
		return false, err
	}
	cur, _ := rec.Field(e.def.column)
	return !reflect.DeepEqual(old, cur), nil
}

// Was returns the symbolic name the record held before it was modified.
func (e *Enum[T, K]) Was(ctx context.Context, rec T) (K, bool, error) {
	old, err := e.old(ctx, rec)
	if err != nil {
		return "", false, err
	}
	c, err := field.IntCode(old)
	if err != nil {
		return "", false, nil
	}
	name, ok := e.def.byCode[c]
	return K(name), ok, nil
}

func (e *Enum[T, K]) old(ctx context.Context, rec T) (Value, error) {
	if !e.def.dirty {
		return nil, fmt.Errorf("%w for %q", ErrDirtyDisabled, e.def.attribute)
	}
	of, ok := any(rec).(OldFielder)
	if !ok {
		return nil, fmt.Errorf("asenum: record %T does not track old values", rec)
	}
	return of.OldField(ctx, e.def.column)
}

// HumanName returns the localized label of k from DefaultTranslations.
func (e *Enum[T, K]) HumanName(k K, tag language.Tag) string {
	return DefaultTranslations.Label(tag, e.host, e.def.attribute, string(k))
}

// Options returns the labelled values in declaration order, suitable
// for select inputs.
func (e *Enum[T, K]) Options(tag language.Tag) []Option[K] {
	opts := make([]Option[K], len(e.def.values))
	for i, v := range e.def.values {
		opts[i] = Option[K]{Label: e.HumanName(K(v.N), tag), Name: K(v.N), Code: v.C}
	}
	return opts
}

// ValidatesAsEnum returns a validator checking that the raw storage
// field holds a code of the mapping.
func (e *Enum[T, K]) ValidatesAsEnum(o validate.Options[T]) validate.Validator[T] {
	return validator(e.def, o)
}

// ValidatesAsEnum returns a validator for the attribute declared on
// host type T in the DefaultRegistry.
func ValidatesAsEnum[T Record](attribute string, o validate.Options[T]) (validate.Validator[T], error) {
	d, err := DefaultRegistry.Get(HostName[T](), attribute)
	if err != nil {
		return nil, err
	}
	return validator(d, o), nil
}

func validator[T Record](d *Definition, o validate.Options[T]) validate.Validator[T] {
	return validate.Conditional(o, validate.Func[T](func(_ context.Context, rec T) []validate.Violation {
		raw, _ := rec.Field(d.column)
		if raw == nil && o.AllowNil {
			return nil
		}
		if raw != nil {
			if c, err := field.IntCode(raw); err == nil {
				if _, ok := d.byCode[c]; ok {
					return nil
				}
			}
		}
		return []validate.Violation{{
			Code:    validate.CodeInclusion,
			Field:   d.attribute,
			Message: o.MessageOr(validate.DefaultMessage),
		}}
	}))
}

func (e *Enum[T, K]) code(rec T) (int64, bool) {
	raw, ok := rec.Field(e.def.column)
	if !ok || raw == nil {
		return 0, false
	}
	c, err := field.IntCode(raw)
	return c, err == nil
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
