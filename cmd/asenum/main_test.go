package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/asenum/catalog"
)

const users = `
host: models.User
enums:
  - name: gender
    values: {male: 0, female: 1}
    labels:
      de: {female: Weiblich}
  - name: status
    values: [deleted, active]
    whiny: false
`

func catalogDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.yaml"), []byte(users), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := execute(t)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "usage: asenum <command> [flags]")
	assert.Contains(t, stderr, "snapshot")

	code, _, stderr = execute(t, "deploy")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, `unknown command "deploy"`)

	code, _, _ = execute(t, "gen", "--no-such-flag")
	assert.Equal(t, exitUsage, code)

	code, _, stderr = execute(t, "describe", "--log-level", "loud")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "log level")
}

func TestRun_Describe(t *testing.T) {
	dir := catalogDir(t)

	code, out, _ := execute(t, "describe", "-c", dir, "--lang", "de")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "HOST")
	assert.Regexp(t, `models\.User\s+gender\s+gender_cd\s+female\s+1\s+Weiblich`, out)
	assert.Regexp(t, `models\.User\s+status\s+status_cd\s+active\s+1\s+Active`, out)

	code, out, _ = execute(t, "describe", "-c", dir, "-f", "sdl")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "enum UserGender")
	assert.Contains(t, out, "FEMALE")

	code, out, _ = execute(t, "describe", "-c", dir, "-f", "ddl", "--dialect", "sqlite", "--table", "users")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "CREATE TABLE")
	assert.Contains(t, out, "gender_cd IN (0, 1)")

	code, _, stderr := execute(t, "describe", "-c", dir, "-f", "ddl")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "--table is required")

	code, _, _ = execute(t, "describe", "-c", filepath.Join(dir, "missing"))
	assert.Equal(t, exitError, code)
}

func TestRun_Gen(t *testing.T) {
	dir := catalogDir(t)
	out := t.TempDir()
	schema := filepath.Join(out, "graph", "enums.graphql")
	gqlgen := filepath.Join(out, "gqlgen.yml")

	code, _, stderr := execute(t, "gen", "-c", dir, "-o", filepath.Join(out, "enums"), "--graphql",
		"--schema", schema, "--gqlgen", gqlgen, "--import", "example.com/app/enums")
	require.Equal(t, exitOK, code, stderr)

	src, err := os.ReadFile(filepath.Join(out, "enums", "user_gender.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type UserGender string")
	assert.Contains(t, string(src), "MarshalGQL")
	assert.FileExists(t, filepath.Join(out, "enums", "user_status.go"))

	sdl, err := os.ReadFile(schema)
	require.NoError(t, err)
	assert.Contains(t, string(sdl), "enum UserStatus")

	yml, err := os.ReadFile(gqlgen)
	require.NoError(t, err)
	assert.Contains(t, string(yml), "example.com/app/enums.UserGender")
}

func TestRun_GenEnv(t *testing.T) {
	dir := catalogDir(t)
	out := filepath.Join(t.TempDir(), "generated")
	t.Setenv("ASENUM_CATALOG", dir)
	t.Setenv("ASENUM_GEN_TARGET", out)
	t.Setenv("ASENUM_GEN_PACKAGE", "models")

	code, _, stderr := execute(t, "gen")
	require.Equal(t, exitOK, code, stderr)
	src, err := os.ReadFile(filepath.Join(out, "user_gender.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package models")
}

func TestRun_GenGQLGenSettings(t *testing.T) {
	dir := catalogDir(t)
	out := t.TempDir()
	gqlgen := filepath.Join(out, "gqlgen.yml")
	cfg := filepath.Join(t.TempDir(), "asenum.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("gen:\n  import: example.com/app/enums\n"), 0o644))
	t.Setenv("ASENUM_GEN_SCHEMA", filepath.Join(out, "enums.graphql"))
	t.Setenv("ASENUM_GEN_GQLGEN", gqlgen)

	code, _, stderr := execute(t, "gen", "--config", cfg, "-c", dir, "-o", filepath.Join(out, "enums"))
	require.Equal(t, exitOK, code, stderr)
	yml, err := os.ReadFile(gqlgen)
	require.NoError(t, err)
	assert.Contains(t, string(yml), "example.com/app/enums.UserGender")
	assert.Contains(t, string(yml), "enums.graphql")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := catalogDir(t)
	out := filepath.Join(t.TempDir(), "enums")
	cfg := filepath.Join(t.TempDir(), "asenum.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("catalog: "+dir+"\ngen:\n  target: "+out+"\n  package: codes\nlog:\n  format: json\n"), 0o644))

	code, _, stderr := execute(t, "gen", "--config", cfg, "--package", "enums")
	require.Equal(t, exitOK, code, stderr)
	src, err := os.ReadFile(filepath.Join(out, "user_gender.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package enums", "flags override the config file")
	assert.Contains(t, stderr, `"msg":"enums generated"`)
}

func TestRun_Snapshot(t *testing.T) {
	dir := catalogDir(t)
	code, out, _ := execute(t, "snapshot", "-c", dir)
	require.Equal(t, exitOK, code)

	entries, err := catalog.DecodeSnapshot(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "models.User", entries[0].Host)
	assert.Equal(t, []string{"male", "female"}, entries[0].Definition.Names())
}

func TestRun_Audit(t *testing.T) {
	dir := catalogDir(t)
	dsn := "file:" + filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, gender_cd INTEGER, status_cd INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, gender_cd, status_cd) VALUES (1, 0, 1), (2, 1, NULL)`)
	require.NoError(t, err)

	args := []string{"audit", "-c", dir, "--dialect", "sqlite", "--dsn", dsn, "--table", "users"}
	code, out, stderr := execute(t, args...)
	require.Equal(t, exitOK, code, stderr)
	var rep struct {
		Table    string           `json:"table"`
		Findings []map[string]any `json:"findings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "users", rep.Table)
	assert.Empty(t, rep.Findings)

	_, err = db.Exec(`INSERT INTO users (id, gender_cd, status_cd) VALUES (3, 7, 0)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	code, out, _ = execute(t, args...)
	assert.Equal(t, exitFindings, code)
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Findings, 1)
	assert.Equal(t, "gender_cd", rep.Findings[0]["column"])

	code, _, stderr = execute(t, "audit", "-c", dir, "--dialect", "oracle", "--dsn", dsn, "--table", "users")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unsupported dialect")
}
