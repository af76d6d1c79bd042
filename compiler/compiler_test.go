package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/dialect"
	"github.com/syssam/strata/dialect/sql"
)

const schemaYAML = `
- packageName: com.example.demo
  entityName: User
  idFields: [id]
  fields:
    - name: id
      type: Long
      nullable: false
    - name: username
      type: String
      length: 50
    - name: email
      type: String
- packageName: com.example.demo
  entityName: Product
  tableName: catalog_products
  idFields: [sku]
  fields:
    - name: sku
      type: UUID
      nullable: false
    - name: price
      type: BigDecimal
      defaultValue: "0"
`

func testConfig(t *testing.T, opts ...gen.Option) *gen.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := gen.NewConfig(append([]gen.Option{
		gen.WithMainRoot(filepath.Join(dir, "src")),
		gen.WithResourceRoot(filepath.Join(dir, "resources")),
		gen.WithModule("example.com/app"),
	}, opts...)...)
	require.NoError(t, err)
	return cfg
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(content), 0o644))
	return dir
}

func TestGenerate(t *testing.T) {
	cfg := testConfig(t)
	report, err := Generate(context.Background(), cfg, writeSchema(t, schemaYAML))
	require.NoError(t, err)
	assert.Equal(t, 16, report.Count(gen.ActionCreate))
	assert.FileExists(t, filepath.Join(cfg.MainRoot, "com", "example", "demo", "user.go"))

	_, err = Generate(context.Background(), cfg)
	assert.True(t, gen.IsConfigError(err))
	_, err = Generate(context.Background(), cfg, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	cfg := testConfig(t)
	_, err := Check(context.Background(), cfg, dialect.SQLite, ":memory:")
	require.Error(t, err, "migration directory does not exist yet")

	_, err = Generate(context.Background(), cfg, writeSchema(t, schemaYAML))
	require.NoError(t, err)
	stats, err := Check(context.Background(), cfg, dialect.SQLite, ":memory:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Migrations)
	assert.EqualValues(t, 4, stats.Statements)
	assert.Zero(t, stats.Errors)

	broken := filepath.Join(cfg.MigrationDir(), "V20990101000000__Create_broken_table.sql")
	require.NoError(t, os.WriteFile(broken, []byte("CREATE TABLE broken (id INT);\n--rollback DROP TABLE missing;\n"), 0o644))
	stats, err = Check(context.Background(), cfg, dialect.SQLite, ":memory:")
	require.Error(t, err)
	assert.True(t, sql.IsCheckError(err))
	assert.Contains(t, err.Error(), "V20990101000000__Create_broken_table.sql")
	assert.EqualValues(t, 3, stats.Migrations)
	assert.EqualValues(t, 1, stats.Errors)

	_, err = Check(context.Background(), cfg, "oracle", "")
	assert.Error(t, err)
}

func TestCheck_Sum(t *testing.T) {
	cfg := testConfig(t, gen.WithFeatures(gen.FeatureMigrationSum))
	_, err := Generate(context.Background(), cfg, writeSchema(t, schemaYAML))
	require.NoError(t, err)
	_, err = Check(context.Background(), cfg, dialect.SQLite, ":memory:")
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(cfg.MigrationDir(), "*__Create_user_table.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.NoError(t, os.WriteFile(matches[0], []byte("CREATE TABLE users (id INT);\n--rollback DROP TABLE users;\n"), 0o644))
	stats, err := Check(context.Background(), cfg, dialect.SQLite, ":memory:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration checksums")
	assert.Zero(t, stats.Migrations, "nothing runs against a tampered directory")

	// Without the feature the edited migration is checked as is.
	plain, err := gen.NewConfig(
		gen.WithMainRoot(cfg.MainRoot),
		gen.WithResourceRoot(cfg.ResourceRoot),
		gen.WithModule("example.com/app"),
	)
	require.NoError(t, err)
	_, err = Check(context.Background(), plain, dialect.SQLite, ":memory:")
	assert.NoError(t, err)
}

func TestStatus(t *testing.T) {
	cfg := testConfig(t)
	status, err := Status(cfg)
	require.NoError(t, err)
	assert.Empty(t, status)

	_, err = Generate(context.Background(), cfg, writeSchema(t, schemaYAML))
	require.NoError(t, err)
	pkg := filepath.Join(cfg.MainRoot, "com", "example", "demo")
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "service", "user_service_impl.go"), []byte("package service\n"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(pkg, "product.go")))

	status, err = Status(cfg)
	require.NoError(t, err)
	require.Len(t, status, 16)
	states := make(map[string]State)
	for _, st := range status {
		states[st.Path] = st.State
	}
	assert.Equal(t, StateModified, states[filepath.Join("com", "example", "demo", "service", "user_service_impl.go")])
	assert.Equal(t, StateMissing, states[filepath.Join("com", "example", "demo", "product.go")])
	assert.Equal(t, StateClean, states[filepath.Join("com", "example", "demo", "user.go")])
	assert.Equal(t, "modified", StateModified.String())
	assert.Equal(t, "invalid", State(9).String())
}

func TestWatch(t *testing.T) {
	cfg := testConfig(t)
	dir := writeSchema(t, schemaYAML)
	runs := make(chan *gen.Report, 4)
	metrics := NewMetrics(prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, []string{dir},
			WithDebounce(20*time.Millisecond),
			WithMetrics(metrics),
			WithOnRun(func(r *gen.Report, err error) {
				assert.NoError(t, err)
				runs <- r
			}),
		)
	}()
	next := func() *gen.Report {
		select {
		case r := <-runs:
			return r
		case <-time.After(5 * time.Second):
			require.FailNow(t, "no generation run")
			return nil
		}
	}
	first := next()
	require.NotNil(t, first)
	assert.Equal(t, 16, first.Count(gen.ActionCreate))

	// Files other than schemas are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schemaYAML+"\n"), 0o644))
	second := next()
	require.NotNil(t, second)
	assert.Zero(t, second.Count(gen.ActionCreate))
	assert.Equal(t, 6, second.Count(gen.ActionSkip))
	assert.GreaterOrEqual(t, testutil.ToFloat64(metrics.Runs.WithLabelValues("ok")), 2.0)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_Errors(t *testing.T) {
	cfg := testConfig(t)
	err := Watch(context.Background(), cfg, nil)
	assert.True(t, gen.IsConfigError(err))
	err = Watch(context.Background(), cfg, []string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}
