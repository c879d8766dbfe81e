// Command asenum works with catalogs of integer backed enum attributes.
//
//	asenum gen      -c enums --target internal/enums --graphql
//	asenum describe -c enums --format ddl --dialect postgres --table users
//	asenum audit    -c enums --dialect postgres --dsn "$DSN" --table users
//	asenum snapshot -c enums --out enums.msgpack
//
// Settings may also come from a config file (--config) and from
// ASENUM_* environment variables, e.g. ASENUM_DB_DSN.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/pflag"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitUsage    = 2
	exitFindings = 3
)

// errFindings is returned by audit when unknown codes were found.
var errFindings = errors.New("unknown codes found")

type command struct {
	summary string
	flags   func(*pflag.FlagSet)
	run     func(context.Context, *env) error
}

// env is passed to commands.
type env struct {
	cfg    *Config
	logger *slog.Logger
	stdout io.Writer
	flags  *pflag.FlagSet
}

var commands = map[string]command{
	"gen":      {"generate typed Go enums", genFlags, runGen},
	"describe": {"print the mappings as a table, GraphQL SDL or DDL", describeFlags, runDescribe},
	"audit":    {"report stored codes missing from the mappings", auditFlags, runAudit},
	"snapshot": {"write a msgpack snapshot of the catalog", snapshotFlags, runSnapshot},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		return exitUsage
	}
	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "asenum: unknown command %q\n\n", name)
		printUsage(stderr)
		return exitUsage
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	commonFlags(fs)
	cmd.flags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "asenum: %v\n", err)
		return exitUsage
	}
	logger, err := newLogger(stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "asenum: %v\n", err)
		return exitUsage
	}
	err = cmd.run(ctx, &env{cfg: cfg, logger: logger, stdout: stdout, flags: fs})
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFindings):
		logger.Warn("audit failed", "error", err)
		return exitFindings
	default:
		logger.Error("command failed", "command", name, "error", err)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: asenum <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
}
