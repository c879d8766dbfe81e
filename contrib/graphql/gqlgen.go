package graphql

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// GQLGenConfig is the part of a gqlgen.yml file touched by asenum.
// Other keys are kept in Rest and written back unchanged.
type GQLGenConfig struct {
	Schema   StringList              `yaml:"schema,omitempty"`
	Autobind []string                `yaml:"autobind,omitempty"`
	Models   map[string]TypeMapEntry `yaml:"models,omitempty"`
	Rest     map[string]any          `yaml:",inline"`
}

// TypeMapEntry binds a GraphQL type to Go models.
type TypeMapEntry struct {
	Model StringList     `yaml:"model,omitempty"`
	Rest  map[string]any `yaml:",inline"`
}

// StringList is a YAML scalar or sequence of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// LoadGQLGenConfig reads a gqlgen.yml file. A missing file yields an
// empty config.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	cfg := &GQLGenConfig{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse gqlgen config: %w", err)
		}
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}
	return cfg, nil
}

// Save writes the config to path.
func (c *GQLGenConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal gqlgen config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// AddSchemaPath adds a schema file unless already listed.
func (c *GQLGenConfig) AddSchemaPath(path string) {
	if !slices.Contains(c.Schema, path) {
		c.Schema = append(c.Schema, path)
	}
}

// SetModel adds a model binding for a GraphQL type.
func (c *GQLGenConfig) SetModel(typeName, modelPath string) {
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, modelPath) {
		entry.Model = append(entry.Model, modelPath)
	}
	c.Models[typeName] = entry
}

// BindEnums binds the GraphQL enums of s to the Go types generated in
// pkg, e.g. UserGender to "example.com/app/enums.UserGender".
func (c *GQLGenConfig) BindEnums(pkg string, s *Schema) {
	for _, e := range s.Enums() {
		c.SetModel(e.Name(), pkg+"."+e.Name())
	}
}
