package gen

import (
	"github.com/syssam/strata/compiler/load"
)

// Graph holds the validated types of one batch, in input order. Building a
// Graph is all-or-nothing: no type of the batch reaches a generator if any
// schema is invalid.
type Graph struct {
	*Config
	// Nodes are the types of the batch, in input order.
	Nodes []*Type
	// Module is the resolved import path of the main root.
	Module string
}

// NewGraph creates a new graph for the given schemas.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if len(schemas) == 0 {
		return nil, &SchemaError{Message: "no schemas to generate"}
	}
	module, err := c.resolveModule()
	if err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Module: module, Nodes: make([]*Type, 0, len(schemas))}
	seen := make(map[string]bool, len(schemas))
	// Migration files are matched by label, so labels are unique per batch.
	labels := make(map[string]*Type, len(schemas))
	for _, s := range schemas {
		t, err := NewType(c, s)
		if err != nil {
			return nil, err
		}
		key := t.Package + "." + t.Name
		if seen[key] {
			return nil, &SchemaError{Entity: t.Name, Package: t.Package, Message: "entity defined more than once"}
		}
		seen[key] = true
		if other, ok := labels[t.Label()]; ok {
			return nil, &SchemaError{Entity: t.Name, Package: t.Package,
				Message: "migration label " + t.Label() + " already used by " + other.Package + "." + other.Name}
		}
		labels[t.Label()] = t
		t.module = module
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}
