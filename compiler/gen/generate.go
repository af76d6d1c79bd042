package gen

import (
	"context"
	"path/filepath"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/schema/field"
)

// Header comments of generated Go files.
const (
	BaseHeader       = "Code generated by strata. DO NOT EDIT."
	ExtensibleHeader = "Code generated by strata once; safe to edit."
)

// Generator runs the layers over every type of a graph and writes their
// artifacts. Types are processed one at a time in input order, and the
// layers of a type in the order they were registered.
type Generator struct {
	graph  *Graph
	layers []Layer
	writer *Writer
	// last migration version handed out during this run.
	lastVersion uint64
}

// NewGenerator creates a generator for the graph. Layers are added
// with WithLayers before calling Generate.
//
// Example:
//
//	import "github.com/syssam/strata/compiler/gen/layer"
//
//	g := gen.NewGenerator(graph)
//	g.WithLayers(layer.Layers(g)...)
//	report, err := g.Generate(ctx)
func NewGenerator(g *Graph) *Generator {
	return &Generator{graph: g}
}

// WithLayers appends layers to the generator.
func (g *Generator) WithLayers(layers ...Layer) *Generator {
	g.layers = append(g.layers, layers...)
	return g
}

// Layers returns the registered layers in execution order.
func (g *Generator) Layers() []Layer { return g.layers }

// Report summarizes a generation run.
type Report struct {
	Run     string
	Results []*Result
	Metrics WriterMetrics
}

// Count returns the number of results with the given action.
func (r *Report) Count(a Action) int {
	var n int
	for _, res := range r.Results {
		if res.Action == a {
			n++
		}
	}
	return n
}

// Generate writes the artifacts of every type. An error aborts the
// current type and the run. Files written for earlier types stay in
// place, and the returned report lists them.
func (g *Generator) Generate(ctx context.Context) (report *Report, err error) {
	if g.graph == nil || g.graph.Config == nil {
		return nil, NewConfigError("Graph", nil, "generator has no graph")
	}
	if len(g.layers) == 0 {
		return nil, NewConfigError("Layers", nil, "generator has no layers")
	}
	w, err := NewWriter(g.graph.Config)
	if err != nil {
		return nil, err
	}
	g.writer = w
	report = &Report{Run: w.Run()}
	defer func() {
		if ferr := w.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		report.Metrics = w.Metrics()
	}()
	if err := g.cleanup(); err != nil {
		return report, err
	}
	log := g.graph.logger()
	for _, t := range g.graph.Nodes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		log.Debug("generate entity", "entity", t.Name, "package", t.Package)
		if err := g.mkdirs(t); err != nil {
			return report, err
		}
		for _, l := range g.layers {
			artifacts, err := l.Generate(t)
			if err != nil {
				return report, &GenerationError{Entity: t.Name, Layer: l.Name(), Op: "generate", Cause: err}
			}
			for _, a := range artifacts {
				res, err := w.Write(a)
				if err != nil {
					return report, err
				}
				report.Results = append(report.Results, res)
			}
		}
	}
	return report, nil
}

// mkdirs creates the package directories of t under the main and test
// roots, and the migration directory.
func (g *Generator) mkdirs(t *Type) error {
	c := g.graph.Config
	for _, dir := range []string{
		filepath.Join(c.MainRoot, t.Dir()),
		filepath.Join(c.testRoot(), t.Dir()),
	} {
		if err := mkdirAll(dir); err != nil {
			return &GenerationError{Entity: t.Name, Path: dir, Op: "create package directory", Cause: err}
		}
	}
	if _, err := g.writer.MigrationDir(); err != nil {
		return &GenerationError{Path: c.MigrationDir(), Op: "create migration directory", Cause: err}
	}
	return nil
}

// cleanup removes the leftovers of disabled features.
func (g *Generator) cleanup() error {
	for _, f := range AllFeatures {
		if g.graph.FeatureEnabled(f.Name) {
			continue
		}
		if err := f.Cleanup(g.graph.Config); err != nil {
			return &GenerationError{Op: "clean up feature " + f.Name, Cause: err}
		}
	}
	return nil
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file for the package with the given
// import path and name, with the header comment of kind.
func (g *Generator) NewFile(path, name string, kind Kind) *jen.File {
	f := jen.NewFilePathName(path, name)
	switch {
	case kind == KindExtensible:
		f.HeaderComment(ExtensibleHeader)
	case g.graph != nil && g.graph.Header != "":
		f.HeaderComment(g.graph.Header)
	default:
		f.HeaderComment(BaseHeader)
	}
	return f
}

// GoType returns the Jennifer code for a field's Go type.
func (g *Generator) GoType(f *Field) jen.Code {
	return goType(f)
}

// IDType returns the Jennifer code for the identity type of a type.
func (g *Generator) IDType(t *Type) jen.Code {
	return goType(t.ID)
}

// ZeroValue returns the Jennifer code for a field's zero value.
func (g *Generator) ZeroValue(f *Field) jen.Code {
	return zeroValue(f)
}

// StructTags returns the struct tags for a field.
func (g *Generator) StructTags(f *Field) map[string]string {
	return f.StructTags()
}

// MigrationVersion returns a version greater than every existing migration
// and every version handed out before in this run.
func (g *Generator) MigrationVersion(*Type) (uint64, error) {
	if g.writer == nil {
		w, err := NewWriter(g.graph.Config)
		if err != nil {
			return 0, err
		}
		g.writer = w
	}
	dir, err := g.writer.MigrationDir()
	if err != nil {
		return 0, err
	}
	v, err := dir.NextVersion(g.graph.now(), g.lastVersion)
	if err != nil {
		return 0, err
	}
	g.lastVersion = v
	return v, nil
}

// FeatureEnabled reports if the given feature name is enabled.
func (g *Generator) FeatureEnabled(name string) bool {
	return g.graph.FeatureEnabled(name)
}

// Config returns the generation config.
func (g *Generator) Config() *Config {
	return g.graph.Config
}

// Graph returns the schema graph.
func (g *Generator) Graph() *Graph {
	return g.graph
}

var _ GeneratorHelper = (*Generator)(nil)

func goType(f *Field) jen.Code {
	if f.Type.PkgPath != "" {
		return jen.Qual(f.Type.PkgPath, f.Type.Ident)
	}
	return jen.Id(f.Type.Ident)
}

func zeroValue(f *Field) jen.Code {
	switch t := f.Type.Type; {
	case f.Type.Fallback, t == field.TypeString:
		return jen.Lit("")
	case t == field.TypeBoolean:
		return jen.False()
	case t == field.TypeBigDecimal:
		return jen.Qual(field.DecimalPkg, "Decimal").Values()
	case t == field.TypeUUID:
		return jen.Qual(field.UUIDPkg, "Nil")
	case t.Temporal():
		return jen.Qual(field.TimePkg, "Time").Values()
	default:
		return jen.Lit(0)
	}
}
