package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"golang.org/x/text/language"

	"github.com/syssam/asenum"
	"github.com/syssam/asenum/catalog"
	"github.com/syssam/asenum/compiler/gen"
	"github.com/syssam/asenum/contrib/graphql"
	"github.com/syssam/asenum/dialect"
	"github.com/syssam/asenum/dialect/sql"
	"github.com/syssam/asenum/dialect/sqlschema"
)

func loadCatalog(ctx context.Context, e *env) ([]asenum.Entry, *asenum.Translations, error) {
	c, err := catalog.LoadDir(ctx, e.cfg.Catalog)
	if err != nil {
		return nil, nil, err
	}
	tr := asenum.NewTranslations()
	entries, err := c.Register(asenum.NewRegistry(), tr)
	if err != nil {
		return nil, nil, err
	}
	e.logger.Debug("catalog loaded", "dir", e.cfg.Catalog, "files", len(c.Files), "definitions", len(entries))
	return entries, tr, nil
}

// hostDefinitions returns the definitions of host. The host may be
// omitted when the catalog declares a single one.
func hostDefinitions(entries []asenum.Entry, host string) ([]*asenum.Definition, error) {
	var hosts []string
	for _, en := range entries {
		if !slices.Contains(hosts, en.Host) {
			hosts = append(hosts, en.Host)
		}
	}
	if host == "" {
		if len(hosts) != 1 {
			return nil, fmt.Errorf("--host is required, catalog declares %s", strings.Join(hosts, ", "))
		}
		host = hosts[0]
	}
	var defs []*asenum.Definition
	for _, en := range entries {
		if en.Host == host {
			defs = append(defs, en.Definition)
		}
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no definitions for host %q", host)
	}
	return defs, nil
}

func genFlags(fs *pflag.FlagSet) {
	fs.String("package", "enums", "name of the generated package")
	fs.StringP("target", "o", "enums", "output directory")
	fs.Bool("graphql", false, "generate gqlgen marshalers")
	fs.Int("workers", 0, "parallel file writers (default GOMAXPROCS)")
	fs.String("schema", "", "also write the GraphQL SDL to this file")
	fs.String("gqlgen", "", "gqlgen.yml to bind the GraphQL enums in")
	fs.String("import", "", "import path of the generated package, for --gqlgen")
	fs.BoolP("watch", "w", false, "regenerate when the catalog changes")
}

func runGen(ctx context.Context, e *env) error {
	if watch, _ := e.flags.GetBool("watch"); !watch {
		entries, tr, err := loadCatalog(ctx, e)
		if err != nil {
			return err
		}
		return generate(ctx, e, entries, tr)
	}
	tr := asenum.NewTranslations()
	w, err := catalog.NewWatcher(e.cfg.Catalog,
		catalog.WithRegistry(asenum.NewRegistry()),
		catalog.WithTranslations(tr),
		catalog.WithLogger(e.logger),
		catalog.WithOnReload(func(entries []asenum.Entry, err error) {
			if err != nil {
				return
			}
			if err := generate(ctx, e, entries, tr); err != nil {
				e.logger.Error("generate failed", "error", err)
			}
		}),
	)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func generate(ctx context.Context, e *env, entries []asenum.Entry, tr *asenum.Translations) error {
	c := e.cfg.Gen
	opts := []gen.Option{gen.WithPackage(c.Package), gen.WithTarget(c.Target), gen.WithGraphQL(c.GraphQL)}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	paths, err := gen.Generate(ctx, entries, opts...)
	if err != nil {
		return err
	}
	e.logger.Info("enums generated", "target", c.Target, "files", len(paths))
	if c.Schema == "" {
		return nil
	}
	s, err := graphql.NewSchema(entries, graphql.WithTranslations(tr, language.English))
	if err != nil {
		return err
	}
	if err := s.WriteFile(c.Schema); err != nil {
		return err
	}
	e.logger.Info("graphql schema written", "path", c.Schema, "enums", len(s.Enums()))

	if c.GQLGen == "" {
		return nil
	}
	if c.Import == "" {
		return errors.New("--import is required with --gqlgen")
	}
	gc, err := graphql.LoadGQLGenConfig(c.GQLGen)
	if err != nil {
		return err
	}
	gc.AddSchemaPath(c.Schema)
	gc.BindEnums(c.Import, s)
	return gc.Save(c.GQLGen)
}

func describeFlags(fs *pflag.FlagSet) {
	fs.StringP("format", "f", "table", "output format: table, sdl or ddl")
	fs.String("host", "", "host type, for ddl")
	fs.String("lang", "en", "language of the labels")
	fs.String("dialect", dialect.Postgres, "SQL dialect, for ddl")
	fs.String("table", "", "table name, for ddl")
}

func runDescribe(ctx context.Context, e *env) error {
	entries, tr, err := loadCatalog(ctx, e)
	if err != nil {
		return err
	}
	lang, _ := e.flags.GetString("lang")
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("--lang: %w", err)
	}
	switch format, _ := e.flags.GetString("format"); format {
	case "table":
		return describeTable(e.stdout, entries, tr, tag)
	case "sdl":
		s, err := graphql.NewSchema(entries, graphql.WithTranslations(tr, tag))
		if err != nil {
			return err
		}
		s.Write(e.stdout)
		return nil
	case "ddl":
		host, _ := e.flags.GetString("host")
		return describeDDL(ctx, e.stdout, entries, host, e.cfg.DB)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func describeTable(w io.Writer, entries []asenum.Entry, tr *asenum.Translations, tag language.Tag) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HOST\tATTRIBUTE\tCOLUMN\tVALUE\tCODE\tLABEL")
	for _, en := range entries {
		d := en.Definition
		for _, v := range d.Values() {
			label := tr.Label(tag, en.Host, d.Attribute(), v.N)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", en.Host, d.Attribute(), d.Column(), v.N, v.C, label)
		}
	}
	return tw.Flush()
}

func describeDDL(ctx context.Context, w io.Writer, entries []asenum.Entry, host string, db DBConfig) error {
	if db.Table == "" {
		return errors.New("--table is required for ddl")
	}
	defs, err := hostDefinitions(entries, host)
	if err != nil {
		return err
	}
	stmts, err := sqlschema.CreateTable(ctx, db.Dialect, sqlschema.Table(db.Table, defs...))
	if err != nil {
		return err
	}
	for _, s := range stmts {
		fmt.Fprintf(w, "%s;\n", s)
	}
	return nil
}

func auditFlags(fs *pflag.FlagSet) {
	fs.String("host", "", "host type whose attributes are audited")
	fs.String("dialect", dialect.Postgres, "SQL dialect: postgres, mysql or sqlite")
	fs.String("dsn", "", "data source name")
	fs.String("table", "", "table holding the enum columns")
	fs.String("key", "id", "primary key column")
}

func runAudit(ctx context.Context, e *env) error {
	db := e.cfg.DB
	if !dialect.Supported(db.Dialect) {
		return fmt.Errorf("unsupported dialect %q", db.Dialect)
	}
	if db.DSN == "" || db.Table == "" {
		return errors.New("--dsn and --table are required")
	}
	entries, _, err := loadCatalog(ctx, e)
	if err != nil {
		return err
	}
	host, _ := e.flags.GetString("host")
	defs, err := hostDefinitions(entries, host)
	if err != nil {
		return err
	}
	drv, err := sql.Open(db.Dialect, db.DSN)
	if err != nil {
		return err
	}
	defer drv.Close()
	stats := sql.NewStatsDriver(sql.NewDebugDriver(drv, sql.DebugWithLogger(e.logger)), sql.WithStatsLogger(e.logger))
	store, err := sql.NewStore(stats, db.Table, sql.WithKey(db.Key), sql.WithLogger(e.logger))
	if err != nil {
		return err
	}
	rep, err := store.Audit(ctx, defs...)
	if err != nil {
		return err
	}
	e.logger.Info("audit finished", "table", db.Table, "findings", len(rep.Findings), "stats", stats.Stats())
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return err
	}
	if !rep.Clean() {
		return fmt.Errorf("%w: %d in %s", errFindings, len(rep.Findings), db.Table)
	}
	return nil
}

func snapshotFlags(fs *pflag.FlagSet) {
	fs.StringP("out", "o", "-", "output file, - for stdout")
}

func runSnapshot(ctx context.Context, e *env) error {
	entries, _, err := loadCatalog(ctx, e)
	if err != nil {
		return err
	}
	out, _ := e.flags.GetString("out")
	if out == "-" {
		return catalog.EncodeSnapshot(e.stdout, entries)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := catalog.EncodeSnapshot(f, entries); err != nil {
		f.Close()
		return err
	}
	e.logger.Info("snapshot written", "path", out, "definitions", len(entries))
	return f.Close()
}
