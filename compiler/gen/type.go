package gen

import (
	"fmt"
	"go/token"
	"go/types"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/syssam/strata/compiler/load"
	"github.com/syssam/strata/schema/field"
)

// Type represents one validated entity schema. A Type is never mutated
// once NewType returns it.
type Type struct {
	*Config
	schema *load.Schema
	// Name is the entity name, e.g. User.
	Name string
	// Package is the dotted package name of the schema, e.g. com.example.demo.
	Package string
	// ID is the identity field declared first. It is the key of the
	// repository and the controller.
	ID *Field
	// IDs holds all identity fields in the order of idFields.
	IDs []*Field
	// Fields holds all fields, identity fields included, in declaration order.
	Fields []*Field
	// SQL is the explicit migration body, if any.
	SQL string

	table  string
	module string
	fields map[string]*Field
}

// entity member names the struct fields must not shadow.
var reservedMembers = map[string]struct{}{
	"TableName": {},
	"Equal":     {},
	"Hash":      {},
	"String":    {},
}

var sqlIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewType creates a new type and its fields from the given schema.
// All checks run before the Type is returned, and the first failure is
// reported as a *ValidationError naming the offending field.
func NewType(c *Config, schema *load.Schema) (*Type, error) {
	if schema == nil {
		return nil, &SchemaError{Message: "nil schema"}
	}
	if err := load.Check(schema); err != nil {
		return nil, checkError(schema, err)
	}
	name := schema.EntityName
	if err := ValidSchemaName(name); err != nil {
		return nil, invalid(schema, "entityName", name, err.Error())
	}
	if err := validPackage(schema.PackageName); err != nil {
		return nil, invalid(schema, "packageName", schema.PackageName, err.Error())
	}
	typ := &Type{
		Config:  c,
		schema:  schema,
		Name:    name,
		Package: schema.PackageName,
		SQL:     schema.SQLFileContent,
		table:   schema.TableName,
		Fields:  make([]*Field, 0, len(schema.Fields)),
		fields:  make(map[string]*Field, len(schema.Fields)),
	}
	if typ.table == "" {
		typ.table = strings.ToLower(name) + "s"
	} else if !sqlIdent.MatchString(typ.table) {
		return nil, invalid(schema, "tableName", typ.table, "not a valid table name")
	}
	members := make(map[string]string, len(schema.Fields))
	for i, f := range schema.Fields {
		if f == nil {
			return nil, invalid(schema, "fields", i, "field definition is empty")
		}
		tf := &Field{
			def:      f,
			typ:      typ,
			Name:     f.Name,
			Type:     field.ParseType(f.Type),
			Nullable: f.IsNullable(),
			Length:   f.Size(),
			Default:  f.DefaultValue,
			Position: i,
		}
		if err := typ.checkField(tf, members); err != nil {
			return nil, err
		}
		typ.Fields = append(typ.Fields, tf)
		typ.fields[tf.Name] = tf
	}
	for _, id := range schema.IDFields {
		f, ok := typ.fields[id]
		switch {
		case !ok:
			return nil, invalid(schema, "idFields", id, "references an unknown field")
		case f.id:
			return nil, invalid(schema, "idFields", id, "listed more than once")
		}
		f.id = true
		typ.IDs = append(typ.IDs, f)
	}
	for _, f := range typ.Fields {
		if f.id {
			typ.ID = f
			break
		}
	}
	return typ, nil
}

// ValidSchemaName will determine if a name is going to conflict with any
// pre-defined names.
func ValidSchemaName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("schema name cannot be empty")
	case !token.IsIdentifier(name):
		return fmt.Errorf("schema name %q is not a valid Go identifier", name)
	case !token.IsExported(name):
		return fmt.Errorf("schema name %q must start with an upper-case letter", name)
	}
	pkg := strings.ToLower(name)
	if token.Lookup(pkg).IsKeyword() {
		return fmt.Errorf("schema lowercase name conflicts with Go keyword %q", pkg)
	}
	if types.Universe.Lookup(pkg) != nil {
		return fmt.Errorf("schema lowercase name conflicts with Go predeclared identifier %q", pkg)
	}
	return nil
}

// validPackage checks that every segment of a dotted package name is a
// valid Go package identifier.
func validPackage(pkg string) error {
	if pkg == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	for _, seg := range strings.Split(pkg, ".") {
		switch {
		case seg == "":
			return fmt.Errorf("package name %q has an empty segment", pkg)
		case !token.IsIdentifier(seg):
			return fmt.Errorf("package segment %q is not a valid identifier", seg)
		case token.Lookup(seg).IsKeyword():
			return fmt.Errorf("package segment %q is a Go keyword", seg)
		}
	}
	return nil
}

// checkField checks the schema field and records its Go member names.
func (t *Type) checkField(f *Field, members map[string]string) error {
	switch {
	case f.Name == "":
		return invalid(t.schema, "fields", f.Position, "field name cannot be empty")
	case !token.IsIdentifier(f.Name):
		return invalid(t.schema, f.Name, nil, "field name is not a valid identifier")
	case token.Lookup(f.Name).IsKeyword():
		return invalid(t.schema, f.Name, nil, "field name is a Go keyword")
	case types.Universe.Lookup(f.Name) != nil:
		return invalid(t.schema, f.Name, nil, "field name conflicts with a Go predeclared identifier")
	case t.fields[f.Name] != nil:
		return invalid(t.schema, f.Name, nil, "field redeclared")
	case f.Length > 0 && !f.Type.Sized() && !f.Type.Fallback:
		return invalid(t.schema, f.Name, f.Length, "length is only supported by String fields")
	}
	if err := f.checkDefault(); err != nil {
		return invalid(t.schema, f.Name, f.Default, err.Error())
	}
	sf := f.StructField()
	if _, ok := reservedMembers[sf]; ok {
		return invalid(t.schema, f.Name, nil, "field conflicts with the entity method "+sf)
	}
	for _, m := range []string{sf, f.Getter(), f.Setter()} {
		if other, ok := members[m]; ok {
			return invalid(t.schema, f.Name, nil, "field conflicts with the generated member "+m+" of field "+other)
		}
	}
	for _, m := range []string{sf, f.Getter(), f.Setter()} {
		members[m] = f.Name
	}
	return nil
}

// Label returns the snake-case name of the entity.
func (t Type) Label() string {
	return Snake(t.Name)
}

// Table returns the table name of the entity.
func (t Type) Table() string {
	return t.table
}

// Receiver returns the receiver name of this node. It makes sure the
// receiver names doesn't conflict with the parameter names of the
// generated methods.
func (t Type) Receiver() string {
	r := receiver(t.Name)
	if r == "v" || r == "c" || r == "id" || r == "ok" {
		return "_" + r
	}
	return r
}

// PackageName returns the Go package name of the entity package.
func (t Type) PackageName() string {
	return t.Package[strings.LastIndexByte(t.Package, '.')+1:]
}

// Dir returns the directory of the entity package or one of its
// sub-packages, relative to a root.
func (t Type) Dir(sub ...string) string {
	return filepath.Join(append([]string{filepath.FromSlash(strings.ReplaceAll(t.Package, ".", "/"))}, sub...)...)
}

// ImportPath returns the import path of the entity package or one of its
// sub-packages.
func (t Type) ImportPath(sub ...string) string {
	return path.Join(append([]string{t.module, strings.ReplaceAll(t.Package, ".", "/")}, sub...)...)
}

// Schema returns the schema the type was created from.
func (t Type) Schema() *load.Schema {
	return t.schema
}

// HasCompositeID indicates if the type has more than one identity field.
func (t Type) HasCompositeID() bool {
	return len(t.IDs) > 1
}

// HasOneFieldID indicates if the type has exactly one identity field.
func (t Type) HasOneFieldID() bool {
	return len(t.IDs) == 1
}

// NonIDFields returns the fields that are not identity fields.
func (t Type) NonIDFields() []*Field {
	var fs []*Field
	for _, f := range t.Fields {
		if !f.id {
			fs = append(fs, f)
		}
	}
	return fs
}

// UniqueFields returns the fields looked up as unique keys,
// in declaration order.
func (t Type) UniqueFields() []*Field {
	var fs []*Field
	for _, f := range t.Fields {
		if f.IsUnique() {
			fs = append(fs, f)
		}
	}
	return fs
}

// ActiveField returns the boolean field named "active", if any.
func (t Type) ActiveField() (*Field, bool) {
	f, ok := t.fields["active"]
	if !ok || f.Type.Type != field.TypeBoolean || f.Type.Fallback {
		return nil, false
	}
	return f, true
}

// FieldByName returns the field with the given schema name.
func (t Type) FieldByName(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// RepositoryName returns the name of the repository interface.
func (t Type) RepositoryName() string { return t.Name + "Repository" }

// RepositoryImplName returns the name of the unexported repository implementation.
func (t Type) RepositoryImplName() string { return uncapitalize(t.Name) + "Repository" }

// ServiceName returns the name of the service interface.
func (t Type) ServiceName() string { return t.Name + "Service" }

// BaseServiceName returns the name of the generated service implementation.
func (t Type) BaseServiceName() string { return "Base" + t.Name + "ServiceImpl" }

// ServiceImplName returns the name of the user-owned service implementation.
func (t Type) ServiceImplName() string { return t.Name + "ServiceImpl" }

// BaseControllerName returns the name of the generated controller.
func (t Type) BaseControllerName() string { return "Base" + t.Name + "Controller" }

// ControllerName returns the name of the user-owned controller.
func (t Type) ControllerName() string { return t.Name + "Controller" }

// NotFoundName returns the name of the not-found sentinel error.
func (t Type) NotFoundName() string { return "Err" + t.Name + "NotFound" }

// Route returns the primary route of the entity API.
func (t Type) Route() string { return "/api/" + strings.ToLower(t.Name) + "s" }

// DefaultRoute returns the route of the user-owned controller.
func (t Type) DefaultRoute() string { return "/api/default/" + strings.ToLower(t.Name) + "s" }

// RouteName returns the name of the primary route constant.
func (t Type) RouteName() string { return t.Name + "Route" }

// DefaultRouteName returns the name of the default route constant.
func (t Type) DefaultRouteName() string { return "Default" + t.Name + "Route" }

// MigrationFragment returns the part of the migration file name that
// identifies the migration of this entity.
func (t Type) MigrationFragment() string {
	return "_Create_" + t.Label() + "_table.sql"
}
