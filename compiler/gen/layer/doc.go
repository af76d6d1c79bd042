// Package layer provides the artifact generators of the layered
// architecture: one Layer per tier, each a pure function from a gen.Type
// to the artifacts of that tier.
//
// Usage:
//
//	import (
//	    "github.com/syssam/strata/compiler/gen"
//	    "github.com/syssam/strata/compiler/gen/layer"
//	)
//
//	graph, err := gen.NewGraph(cfg, schemas...)
//	report, err := layer.Generate(ctx, graph)
//
// Generated code structure, for package com.example.demo and entity User:
//
//	{main root}/com/example/demo/
//	├── user.go                          # Entity struct and accessors
//	├── repository/
//	│   └── user_repository.go           # Repository interface and gorm implementation
//	├── service/
//	│   ├── user_service.go              # Service interface
//	│   ├── user_service_impl.go         # User-owned service (written once)
//	│   └── base/
//	│       └── base_user_service_impl.go  # Generated service implementation
//	└── controller/
//	    ├── user_controller.go           # User-owned controller (written once)
//	    └── base/
//	        └── base_user_controller.go  # Generated gin handlers
//
//	{resource root}/db/migration/
//	└── V{version}__Create_user_table.sql  # Written once per entity
package layer
