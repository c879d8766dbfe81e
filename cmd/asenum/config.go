package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings of all commands. Values are read, in
// increasing precedence, from defaults, the config file, ASENUM_*
// environment variables and command line flags.
type Config struct {
	Catalog string    `mapstructure:"catalog"`
	Log     LogConfig `mapstructure:"log"`
	Gen     GenConfig `mapstructure:"gen"`
	DB      DBConfig  `mapstructure:"db"`
}

// LogConfig configures the slog handler on stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GenConfig configures code generation.
type GenConfig struct {
	Package string `mapstructure:"package"`
	Target  string `mapstructure:"target"`
	GraphQL bool   `mapstructure:"graphql"`
	Workers int    `mapstructure:"workers"`
	Schema  string `mapstructure:"schema"`
	GQLGen  string `mapstructure:"gqlgen"`
	Import  string `mapstructure:"import"`
}

// DBConfig configures database access.
type DBConfig struct {
	Dialect string `mapstructure:"dialect"`
	DSN     string `mapstructure:"dsn"`
	Table   string `mapstructure:"table"`
	Key     string `mapstructure:"key"`
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"catalog":    "catalog",
	"log-level":  "log.level",
	"log-format": "log.format",
	"package":    "gen.package",
	"target":     "gen.target",
	"graphql":    "gen.graphql",
	"workers":    "gen.workers",
	"schema":     "gen.schema",
	"gqlgen":     "gen.gqlgen",
	"import":     "gen.import",
	"dialect":    "db.dialect",
	"dsn":        "db.dsn",
	"table":      "db.table",
	"key":        "db.key",
}

// commonFlags registers the flags shared by all commands.
func commonFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.StringP("catalog", "c", "enums", "catalog directory")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
}

func loadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("catalog", "enums")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("gen.package", "enums")
	v.SetDefault("gen.target", "enums")
	v.SetDefault("db.key", "id")
	v.SetEnvPrefix("ASENUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func newLogger(w io.Writer, c LogConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, errors.New("log format must be text or json")
	}
}
