package gen

import "github.com/dave/jennifer/jen"

// Layer generates the artifacts of one architectural layer for an entity.
// Generate is a pure function of the Type: it returns artifacts and never
// writes them.
type Layer interface {
	// Name returns the layer name (e.g., "entity", "controller").
	Name() string
	// Generate returns the artifacts of the layer, base artifacts first.
	Generate(t *Type) ([]*Artifact, error)
}

// LayerFunc adapts an ordinary function to the Layer interface.
type LayerFunc struct {
	LayerName string
	Fn        func(*Type) ([]*Artifact, error)
}

// Name implements Layer.
func (l LayerFunc) Name() string { return l.LayerName }

// Generate implements Layer.
func (l LayerFunc) Generate(t *Type) ([]*Artifact, error) { return l.Fn(t) }

// GeneratorHelper provides helper methods for layer implementations.
// Generator implements this interface, allowing layer packages to use
// helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file for the package with the given
	// import path and name, with the header comment of kind.
	NewFile(path, name string, kind Kind) *jen.File

	// GoType returns the Jennifer code for a field's Go type.
	GoType(f *Field) jen.Code

	// IDType returns the Jennifer code for the identity type of a type.
	IDType(t *Type) jen.Code

	// ZeroValue returns the Jennifer code for a field's zero value.
	ZeroValue(f *Field) jen.Code

	// StructTags returns the struct tags for a field.
	StructTags(f *Field) map[string]string

	// MigrationVersion returns the version of a new migration for t.
	MigrationVersion(t *Type) (uint64, error)

	// FeatureEnabled reports if the given feature name is enabled.
	FeatureEnabled(name string) bool

	// Config returns the generation config.
	Config() *Config
}
