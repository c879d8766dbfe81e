package asenum

import (
	"cmp"
	"reflect"
	"slices"
	"strconv"
	"sync"

	"github.com/syssam/asenum/schema/field"
)

// Entry pairs a definition with the host type it was declared on.
type Entry struct {
	Host       string
	Definition *Definition
}

type registryKey struct {
	host      string
	attribute string
}

// Registry holds one definition per host type and attribute. Declaring
// an attribute again replaces the previous definition.
//
// Declarations are expected to happen at program start. The registry
// is safe for concurrent use, but readers holding an accessor built from
// a replaced definition keep using the old mapping.
type Registry struct {
	mu   sync.RWMutex
	defs map[registryKey]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[registryKey]*Definition)}
}

// DefaultRegistry is the process wide registry used by Declare and Lookup.
var DefaultRegistry = NewRegistry()

// Declare builds the descriptor of b and registers the result for host.
// Nothing is registered when the declaration is invalid.
func (r *Registry) Declare(host string, b field.Builder) (*Definition, error) {
	d, err := Build(b.Descriptor())
	if err != nil {
		return nil, err
	}
	r.Register(host, d)
	return d, nil
}

// Register stores d for host, replacing any previous definition of the
// same attribute.
func (r *Registry) Register(host string, d *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[registryKey{host, d.attribute}] = d
}

// RegisterAll stores all entries under a single lock, so readers observe
// either none or all of them.
func (r *Registry) RegisterAll(entries ...Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.defs[registryKey{e.Host, e.Definition.attribute}] = e.Definition
	}
}

// Lookup returns the definition of attribute on host.
func (r *Registry) Lookup(host, attribute string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[registryKey{host, attribute}]
	return d, ok
}

// Get is like Lookup, but returns a *NotDeclaredError for missing entries.
func (r *Registry) Get(host, attribute string) (*Definition, error) {
	d, ok := r.Lookup(host, attribute)
	if !ok {
		return nil, &NotDeclaredError{Host: host, Attribute: attribute}
	}
	return d, nil
}

// Definitions returns the definitions declared on host, sorted by
// attribute name.
func (r *Registry) Definitions(host string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var defs []*Definition
	for k, d := range r.defs {
		if k.host == host {
			defs = append(defs, d)
		}
	}
	slices.SortFunc(defs, func(a, b *Definition) int {
		return cmp.Compare(a.attribute, b.attribute)
	})
	return defs
}

// Entries returns all registered definitions sorted by host and attribute.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.defs))
	for k, d := range r.defs {
		entries = append(entries, Entry{Host: k.host, Definition: d})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Host, b.Host), cmp.Compare(a.Definition.attribute, b.Definition.attribute))
	})
	return entries
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

// hostNames remembers the name given to each host type, so that distinct
// types with the same qualified name never share registry entries.
var hostNames = struct {
	sync.Mutex
	byType map[reflect.Type]string
	taken  map[string]reflect.Type
}{
	byType: make(map[reflect.Type]string),
	taken:  make(map[string]reflect.Type),
}

// HostName returns the registry name of the host type T: its import path
// qualified name, e.g. "example.com/app/models.User". Pointer types are
// named after their element type. A type whose qualified name was already
// given to another type (function local types) gets a "#n" suffix in
// order of first use.
func HostName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	hostNames.Lock()
	defer hostNames.Unlock()
	if name, ok := hostNames.byType[t]; ok {
		return name
	}
	base := t.String()
	if t.PkgPath() != "" && t.Name() != "" {
		base = t.PkgPath() + "." + t.Name()
	}
	name := base
	for i := 2; hostNames.taken[name] != nil; i++ {
		name = base + "#" + strconv.Itoa(i)
	}
	hostNames.byType[t] = name
	hostNames.taken[name] = t
	return name
}

// Lookup returns the definition of attribute on host type T from the
// DefaultRegistry.
func Lookup[T any](attribute string) (*Definition, bool) {
	return DefaultRegistry.Lookup(HostName[T](), attribute)
}
