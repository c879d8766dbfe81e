package graphql

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"golang.org/x/text/language"

	"github.com/syssam/asenum"
)

// SchemaOption configures schema generation.
type SchemaOption func(*Schema) error

// Schema renders the GraphQL enums of registry entries.
type Schema struct {
	enums        []*Enum
	translations *asenum.Translations
	tag          language.Tag
}

// WithTranslations fills enum value descriptions with the labels of tr
// in tag.
func WithTranslations(tr *asenum.Translations, tag language.Tag) SchemaOption {
	return func(s *Schema) error {
		if tr == nil {
			return errors.New("graphql: translations cannot be nil")
		}
		s.translations, s.tag = tr, tag
		return nil
	}
}

// NewSchema returns the schema of entries, ordered by type name.
func NewSchema(entries []asenum.Entry, opts ...SchemaOption) (*Schema, error) {
	s := &Schema{tag: language.English}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	seen := make(map[string]bool, len(entries))
	var errs []error
	for _, e := range entries {
		en, err := NewEnum(e.Host, e.Definition)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[en.Name()] {
			errs = append(errs, fmt.Errorf("graphql: duplicate enum %s", en.Name()))
			continue
		}
		seen[en.Name()] = true
		s.enums = append(s.enums, en)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	slices.SortFunc(s.enums, func(a, b *Enum) int { return cmp.Compare(a.Name(), b.Name()) })
	return s, nil
}

// Enums returns the enums of the schema.
func (s *Schema) Enums() []*Enum { return s.enums }

// Document returns the schema document holding one enum definition
// per entry.
func (s *Schema) Document() *ast.SchemaDocument {
	doc := &ast.SchemaDocument{}
	for _, e := range s.enums {
		doc.Definitions = append(doc.Definitions, e.Definition(s.translations, s.tag))
	}
	return doc
}

// Write writes the SDL of the schema to w.
func (s *Schema) Write(w io.Writer) {
	formatter.NewFormatter(w).FormatSchemaDocument(s.Document())
}

// String returns the SDL of the schema.
func (s *Schema) String() string {
	var buf bytes.Buffer
	s.Write(&buf)
	return buf.String()
}

// WriteFile writes the SDL of the schema to path.
func (s *Schema) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(s.String()), 0o644)
}
