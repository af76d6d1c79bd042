package gen

import (
	"github.com/dave/jennifer/jen"
)

// Kind tells who owns an artifact once it is written.
type Kind uint8

const (
	// KindBase artifacts are owned by the generator and rewritten on every run.
	KindBase Kind = iota + 1
	// KindExtensible artifacts are owned by the user after their first
	// creation and are protected by the override policy.
	KindExtensible
	// KindMigration artifacts are written once per entity. A migration is
	// never overwritten, not even when forced.
	KindMigration
)

var kindNames = [...]string{
	KindBase:       "base",
	KindExtensible: "extensible",
	KindMigration:  "migration",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Root identifies the configured root an artifact path is relative to.
type Root uint8

const (
	RootMain Root = iota
	RootResource
	RootTest
)

// Artifact is one generated file before it is written. Generators return
// artifacts and never touch the file system; the Writer does.
type Artifact struct {
	// Path is the file path, relative to Root.
	Path string
	Root Root
	// Package is the Go package name for Go sources, empty otherwise.
	Package string
	Kind    Kind
	// Entity is the name of the entity the artifact was generated for.
	Entity string
	// Layer is the name of the layer that produced the artifact.
	Layer string
	// Match is the file name fragment identifying an existing migration.
	// Set for migrations only.
	Match string
	// Source holds Go code to render. Content is used when Source is nil.
	Source  *jen.File
	Content []byte
}
