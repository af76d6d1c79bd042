package layer

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/strata/compiler/gen"
)

// Layer names, in execution order.
const (
	Migration   = "migration"
	Entity      = "entity"
	Repository  = "repository"
	Service     = "service"
	Controller  = "controller"
	ServiceTest = "servicetest"
)

// Import paths of the packages used by generated code.
const (
	ginPkg     = "github.com/gin-gonic/gin"
	gormPkg    = "gorm.io/gorm"
	assertPkg  = "github.com/stretchr/testify/assert"
	requirePkg = "github.com/stretchr/testify/require"
)

// Layers returns the layers of the architecture in execution order.
// The service test layer is included only if its feature is enabled.
func Layers(h gen.GeneratorHelper) []gen.Layer {
	layers := []gen.Layer{
		bind(Migration, h, genMigration),
		bind(Entity, h, genEntity),
		bind(Repository, h, genRepository),
		bind(Service, h, genService),
		bind(Controller, h, genController),
	}
	if h.FeatureEnabled(gen.FeatureServiceTest.Name) {
		layers = append(layers, bind(ServiceTest, h, genServiceTest))
	}
	return layers
}

// Generate is a convenience function to generate all layers of the graph.
// This is the recommended entry point for code generation.
//
// Example:
//
//	report, err := layer.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) (*gen.Report, error) {
	if g == nil || g.Config == nil {
		return nil, gen.NewConfigError("Graph", nil, "missing graph config")
	}
	generator := gen.NewGenerator(g)
	generator.WithLayers(Layers(generator)...)
	return generator.Generate(ctx)
}

func bind(name string, h gen.GeneratorHelper, fn func(gen.GeneratorHelper, *gen.Type) ([]*gen.Artifact, error)) gen.Layer {
	return gen.LayerFunc{LayerName: name, Fn: func(t *gen.Type) ([]*gen.Artifact, error) {
		return fn(h, t)
	}}
}

// source returns a Go source artifact of t under the main root.
func source(t *gen.Type, layer string, kind gen.Kind, f *jen.File, pkg string, path ...string) *gen.Artifact {
	return &gen.Artifact{
		Path:    t.Dir(path...),
		Root:    gen.RootMain,
		Package: pkg,
		Kind:    kind,
		Entity:  t.Name,
		Layer:   layer,
		Source:  f,
	}
}

// Import paths of the generated packages of t.
func entityPkg(t *gen.Type) string      { return t.ImportPath() }
func repositoryPkg(t *gen.Type) string  { return t.ImportPath("repository") }
func servicePkg(t *gen.Type) string     { return t.ImportPath("service") }
func serviceBasePkg(t *gen.Type) string { return t.ImportPath("service", "base") }
func controllerBasePkg(t *gen.Type) string {
	return t.ImportPath("controller", "base")
}

// entityPtr returns the code of *Entity.
func entityPtr(t *gen.Type) *jen.Statement {
	return jen.Op("*").Qual(entityPkg(t), t.Name)
}

// fileName returns the snake-case file name of t with the given affixes.
func fileName(prefix string, t *gen.Type, suffix string) string {
	return prefix + gen.Snake(t.Name) + suffix + ".go"
}

// ctxParam returns the context parameter of generated methods.
func ctxParam() *jen.Statement {
	return jen.Id("ctx").Qual("context", "Context")
}

// errNotFound returns the code of the not-found sentinel of t.
func errNotFound(t *gen.Type) *jen.Statement {
	return jen.Qual(repositoryPkg(t), t.NotFoundName())
}
