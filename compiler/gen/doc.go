// Package gen turns declarative entity schemas into a layered Go service:
// entity, repository, service and controller packages plus one SQL
// migration per entity.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	schema files (*.yaml, *.json)
//	        ↓
//	   load.Schema (input surface)
//	        ↓
//	   Graph of validated Types (fail-fast, all or nothing)
//	        ↓
//	   Layers (pure: Type → []*Artifact)
//	        ↓
//	   Writer (override policy, atomic writes, manifest)
//
// # Ownership
//
// Every artifact has a Kind. Base artifacts belong to the generator and
// are rewritten on every run. Extensible artifacts belong to the user once
// they exist; they embed the base types and are kept or overwritten
// according to the Policy. A migration is written once per entity and
// detected by its file name fragment, whatever its version.
//
// Ownership is visible in the header comment of each file and recorded,
// with a checksum, in a manifest under the main root:
//
//	<MainRoot>/.strata/manifest
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: the schema set conflicts, e.g. two entities share a name
//   - ValidationError: one schema failed a check, naming its file and field
//   - ConfigError: an option cannot be applied
//   - GenerationError: a layer or the file system failed for an artifact
//
// Schema and validation errors match ErrInvalidSchema with errors.Is,
// config errors ErrInvalidConfig and generation errors ErrGeneration:
//
//	graph, err := gen.NewGraph(config, schemas...)
//	if errors.Is(err, gen.ErrInvalidSchema) {
//	    // nothing was written
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithMainRoot("./internal"),
//	    gen.WithResourceRoot("./resources"),
//	    gen.WithFeatures(gen.FeatureServiceTest),
//	)
//
// The import path of the main root is inferred from go.mod. Override only
// if needed with WithModule.
//
// # Usage
//
// The recommended way to generate code is through the layer package:
//
//	import "github.com/syssam/strata/compiler/gen/layer"
//
//	report, err := layer.Generate(ctx, graph)
package gen
