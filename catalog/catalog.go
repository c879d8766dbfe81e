// Package catalog loads enum declarations from YAML files.
//
// A catalog file declares the enums of one host type:
//
//	host: models.User
//	enums:
//	  - name: gender
//	    values: {female: 1, male: 0}
//	    prefix: true
//	  - name: status
//	    values: [deleted, active, disabled]
//	    whiny: false
//	    labels:
//	      en: {active: Active}
//	      de: {active: Aktiv}
//
// Mapping values keep the order in which they are written. Sequence
// values are numbered from 0.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/schema/field"
)

// Extensions lists the file extensions recognized by LoadDir.
var Extensions = []string{".yaml", ".yml"}

type (
	// File is a parsed catalog file.
	File struct {
		Path  string `yaml:"-"`
		Host  string `yaml:"host"`
		Enums []Enum `yaml:"enums"`
	}

	// Enum is a single enum declaration of a catalog file.
	Enum struct {
		Name    string                       `yaml:"name"`
		Values  Values                       `yaml:"values"`
		Column  string                       `yaml:"column,omitempty"`
		Prefix  Prefix                       `yaml:"prefix,omitempty"`
		Slim    bool                         `yaml:"slim,omitempty"`
		Whiny   *bool                        `yaml:"whiny,omitempty"`
		Dirty   bool                         `yaml:"dirty,omitempty"`
		Comment string                       `yaml:"comment,omitempty"`
		Labels  map[string]map[string]string `yaml:"labels,omitempty"`
	}

	// Values is the ordered mapping of an enum.
	Values []field.Value

	// Prefix is either the attribute name itself (`prefix: true`) or an
	// explicit string.
	Prefix struct {
		Attribute bool
		Name      string
	}
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Values) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		for i, c := range n.Content {
			var name string
			if err := c.Decode(&name); err != nil {
				return fmt.Errorf("line %d: %w", c.Line, err)
			}
			*v = append(*v, field.Value{N: name, C: int64(i)})
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, c := n.Content[i], n.Content[i+1]
			var code int64
			if err := c.Decode(&code); err != nil {
				return fmt.Errorf("line %d: code of %q: %w", c.Line, k.Value, err)
			}
			*v = append(*v, field.Value{N: k.Value, C: code})
		}
	default:
		return fmt.Errorf("line %d: values must be a sequence or a mapping", n.Line)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler. Values are always written as a
// mapping to keep their codes.
func (v Values) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	for _, e := range v {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.N},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(e.C)},
		)
	}
	return n, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Prefix) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: prefix must be a boolean or a string", n.Line)
	}
	if n.ShortTag() == "!!bool" {
		return n.Decode(&p.Attribute)
	}
	return n.Decode(&p.Name)
}

// MarshalYAML implements yaml.Marshaler.
func (p Prefix) MarshalYAML() (any, error) {
	if p.Attribute {
		return true, nil
	}
	return p.Name, nil
}

// IsZero reports whether no prefix is set. It is used by omitempty.
func (p Prefix) IsZero() bool {
	return !p.Attribute && p.Name == ""
}

// Builder returns the field builder of the declaration.
func (e *Enum) Builder() *field.EnumBuilder {
	b := field.Enum(e.Name).Column(e.Column).Comment(e.Comment)
	for _, v := range e.Values {
		b.Value(v.N, v.C)
	}
	switch {
	case e.Prefix.Attribute:
		b.PrefixAttribute()
	case e.Prefix.Name != "":
		b.Prefix(e.Prefix.Name)
	}
	if e.Slim {
		b.Slim()
	}
	if e.Whiny != nil {
		b.Whiny(*e.Whiny)
	}
	if e.Dirty {
		b.Dirty()
	}
	return b
}

// Parse parses a catalog file from data.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return f, nil
}

// LoadFile reads and parses the catalog file at path. The host defaults
// to the file name without extension.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	f.Path = path
	if f.Host == "" {
		f.Host = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return f, nil
}

// Catalog is a set of loaded catalog files.
type Catalog struct {
	Files []*File
}

// LoadFiles loads the given files concurrently. The files keep the order
// of paths.
func LoadFiles(ctx context.Context, paths ...string) (*Catalog, error) {
	files := make([]*File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Catalog{Files: files}, nil
}

// LoadDir loads all catalog files found directly in dir, in lexical order.
func LoadDir(ctx context.Context, dir string) (*Catalog, error) {
	paths, err := Paths(dir)
	if err != nil {
		return nil, err
	}
	return LoadFiles(ctx, paths...)
}

// Paths returns the sorted paths of the catalog files in dir.
func Paths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && isCatalogFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func isCatalogFile(name string) bool {
	return slices.Contains(Extensions, filepath.Ext(name))
}

// Entries builds the definitions of all declarations. Every invalid
// declaration is reported, each error naming its file and host.
func (c *Catalog) Entries() ([]asenum.Entry, error) {
	var (
		entries []asenum.Entry
		errs    []error
	)
	for _, f := range c.Files {
		for _, e := range f.Enums {
			d, err := asenum.Build(e.Builder().Descriptor())
			if err != nil {
				errs = append(errs, fmt.Errorf("catalog: %s: %s: %w", f.location(), f.Host, err))
				continue
			}
			entries = append(entries, asenum.Entry{Host: f.Host, Definition: d})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return entries, nil
}

// Register builds the catalog and registers all of its definitions in r,
// and its labels in t when t is not nil. Nothing is registered if any
// declaration is invalid.
func (c *Catalog) Register(r *asenum.Registry, t *asenum.Translations) ([]asenum.Entry, error) {
	entries, err := c.Entries()
	if err != nil {
		return nil, err
	}
	if t != nil {
		if err := c.translate(t); err != nil {
			return nil, err
		}
	}
	r.RegisterAll(entries...)
	return entries, nil
}

// translate sets the labels of the catalog in t. Every language tag is
// parsed before the first label is set.
func (c *Catalog) translate(t *asenum.Translations) error {
	type label struct {
		tag                    language.Tag
		file                   *File
		attribute, name, label string
	}
	var labels []label
	for _, f := range c.Files {
		for _, e := range f.Enums {
			for lang, values := range e.Labels {
				tag, err := language.Parse(lang)
				if err != nil {
					return fmt.Errorf("catalog: %s: labels of %q: %w", f.location(), e.Name, err)
				}
				for name, l := range values {
					labels = append(labels, label{tag: tag, file: f, attribute: e.Name, name: name, label: l})
				}
			}
		}
	}
	for _, l := range labels {
		if err := t.Set(l.tag, l.file.Host, l.attribute, l.name, l.label); err != nil {
			return fmt.Errorf("catalog: %s: label %q of %q: %w", l.file.location(), l.name, l.attribute, err)
		}
	}
	return nil
}

func (f *File) location() string {
	if f.Path == "" {
		return "<input>"
	}
	return f.Path
}
