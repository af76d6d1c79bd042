package layer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/compiler/load"
)

// mockHelper is a GeneratorHelper with configurable feature flags and a
// deterministic migration version.
type mockHelper struct {
	*gen.Generator
	version  uint64
	features map[string]bool
}

func newMockHelper(g *gen.Graph) *mockHelper {
	return &mockHelper{
		Generator: gen.NewGenerator(g),
		version:   20240102030405,
		features:  make(map[string]bool),
	}
}

func (m *mockHelper) withFeatures(features ...string) *mockHelper {
	for _, f := range features {
		m.features[f] = true
	}
	return m
}

func (m *mockHelper) FeatureEnabled(name string) bool { return m.features[name] }

func (m *mockHelper) MigrationVersion(*gen.Type) (uint64, error) {
	v := m.version
	m.version++
	return v, nil
}

// Ensure mockHelper implements gen.GeneratorHelper.
var _ gen.GeneratorHelper = (*mockHelper)(nil)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func userSchema() *load.Schema {
	return &load.Schema{
		PackageName: "com.example.demo",
		EntityName:  "User",
		IDFields:    []string{"id"},
		Fields: []*load.Field{
			{Name: "id", Type: "Long", Nullable: boolPtr(false)},
			{Name: "username", Type: "String", Length: intPtr(50)},
			{Name: "email", Type: "String"},
			{Name: "active", Type: "Boolean"},
		},
	}
}

func productSchema() *load.Schema {
	return &load.Schema{
		PackageName: "com.example.demo",
		EntityName:  "Product",
		TableName:   "catalog_products",
		IDFields:    []string{"sku"},
		Fields: []*load.Field{
			{Name: "sku", Type: "UUID", Nullable: boolPtr(false)},
			{Name: "price", Type: "BigDecimal", DefaultValue: "0"},
			{Name: "createdAt", Type: "LocalDateTime", DefaultValue: "CURRENT_TIMESTAMP"},
			{Name: "weight", Type: "Double"},
		},
	}
}

func orderLineSchema() *load.Schema {
	return &load.Schema{
		PackageName: "com.example.shop",
		EntityName:  "OrderLine",
		IDFields:    []string{"orderId", "lineNo"},
		Fields: []*load.Field{
			{Name: "orderId", Type: "Long", Nullable: boolPtr(false)},
			{Name: "lineNo", Type: "Integer", Nullable: boolPtr(false)},
			{Name: "note", Type: "Text"},
		},
	}
}

// testGraph builds a graph rooted in a temporary directory.
func testGraph(t *testing.T, opts []gen.Option, schemas ...*load.Schema) *gen.Graph {
	t.Helper()
	dir := t.TempDir()
	c, err := gen.NewConfig(append([]gen.Option{
		gen.WithMainRoot(filepath.Join(dir, "src")),
		gen.WithResourceRoot(filepath.Join(dir, "resources")),
		gen.WithModule("example.com/app"),
	}, opts...)...)
	require.NoError(t, err)
	g, err := gen.NewGraph(c, schemas...)
	require.NoError(t, err)
	return g
}

// generate runs one layer over the first node of a new graph.
func generate(t *testing.T, fn func(gen.GeneratorHelper, *gen.Type) ([]*gen.Artifact, error), schema *load.Schema) []*gen.Artifact {
	t.Helper()
	g := testGraph(t, nil, schema)
	artifacts, err := fn(newMockHelper(g), g.Nodes[0])
	require.NoError(t, err)
	return artifacts
}
