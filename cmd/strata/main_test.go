package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `
packageName: com.example.demo
entityName: User
idFields: [id]
fields:
  - name: id
    type: Long
    nullable: false
  - name: email
    type: String
`

// workspace changes into a new directory holding a schema directory.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("schema", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("schema", "user.yaml"), []byte(schemaYAML), 0o644))
	return dir
}

func runCmd(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	workspace(t)
	code, _, stderr := runCmd(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "usage: strata")

	code, _, stderr = runCmd(t, "build")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown command "build"`)

	code, _, _ = runCmd(t, "generate", "--help")
	assert.Equal(t, 0, code)

	code, _, _ = runCmd(t, "generate", "--no-such-flag")
	assert.Equal(t, 1, code)
}

func TestRun_Generate(t *testing.T) {
	dir := workspace(t)
	code, stdout, stderr := runCmd(t, "generate", "--module", "example.com/app")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "created 8, overwritten 0, skipped 0")
	assert.FileExists(t, filepath.Join(dir, "internal", "com", "example", "demo", "user.go"))

	code, stdout, _ = runCmd(t, "generate", "--module", "example.com/app", "-f")
	require.Equal(t, 0, code)
	// Forcing rewrites everything but the migration.
	assert.Contains(t, stdout, "created 0, overwritten 7, skipped 1")

	code, stdout, _ = runCmd(t, "status", "--module", "example.com/app")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "clean")
	assert.NotContains(t, stdout, "modified")

	code, stdout, stderr = runCmd(t, "check")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "migrations=1")
}

func TestRun_Config(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile("strata.yaml", []byte(`
main-root: src
resource-root: res
author: jane
features: [service/test]
`), 0o644))
	t.Setenv("STRATA_MODULE", "example.com/app")

	code, _, stderr := runCmd(t, "generate", "schema")
	require.Equal(t, 0, code, stderr)
	pkg := filepath.Join(dir, "src", "com", "example", "demo")
	assert.FileExists(t, filepath.Join(pkg, "service", "base", "base_user_service_impl_test.go"))
	matches, err := filepath.Glob(filepath.Join(dir, "res", "db", "migration", "*.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "--changeset jane:")

	// Flags take precedence over the configuration file.
	code, _, stderr = runCmd(t, "generate", "--main-root", "other")
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(dir, "other", "com", "example", "demo", "user.go"))
}

func TestBindFlag(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("module", "", "")
	require.NoError(t, fs.Parse([]string{"--module", "example.com/app"}))
	require.NoError(t, bindFlag(v, "module", fs.Lookup("module")))
	assert.Equal(t, "example.com/app", v.GetString("module"))

	err := bindFlag(v, "dsn", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bind flag dsn")
}

func TestRun_Skip(t *testing.T) {
	dir := workspace(t)
	t.Setenv("STRATA_SKIP", "true")
	code, _, stderr := runCmd(t, "generate", "--module", "example.com/app")
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "generation skipped")
	assert.NoDirExists(t, filepath.Join(dir, "internal"))
}

func TestRun_Errors(t *testing.T) {
	workspace(t)
	code, _, stderr := runCmd(t, "generate", "--module", "example.com/app", "--features", "unknown")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid configuration")

	code, _, stderr = runCmd(t, "generate", "--module", "example.com/app", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "generate failed")

	code, _, _ = runCmd(t, "generate", "-c", "missing.yaml")
	assert.Equal(t, 1, code)
}

func TestRun_Watch(t *testing.T) {
	workspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"watch", "--module", "example.com/app", "--metrics-addr", "127.0.0.1:0"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "serving metrics")
	assert.Contains(t, stderr.String(), "watching schemas")
}
