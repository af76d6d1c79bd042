package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/strata/compiler/load"
	"github.com/syssam/strata/schema/field"
)

// Field represents one field of a Type.
type Field struct {
	def *load.Field
	typ *Type
	id  bool
	// Name is the field name as declared in the schema.
	Name string
	// Type holds the resolved type information.
	Type *field.TypeInfo
	// Nullable reports if the column accepts null.
	Nullable bool
	// Length is the declared column width, zero if not set.
	Length int
	// Default is the raw default value, empty if not set.
	Default string
	// Position is the index of the field in the schema.
	Position int
}

// IsID reports if the field is one of the identity fields.
func (f Field) IsID() bool { return f.id }

// IsIdentity reports if the database generates the value of the field:
// the single identity field of an integer type.
func (f Field) IsIdentity() bool {
	return f.id && f.typ != nil && f.typ.HasOneFieldID() && f.Type.Type.Integer() && !f.Type.Fallback
}

// IsUnique reports if the field is looked up as a unique key. By
// convention only fields named email or username are.
func (f Field) IsUnique() bool {
	return f.Name == "email" || f.Name == "username"
}

// Column returns the storage column name.
func (f Field) Column() string { return Snake(f.Name) }

// ColumnType returns the storage column type.
func (f Field) ColumnType() string { return f.Type.Column(f.Length) }

// StructField returns the Go struct field name.
func (f Field) StructField() string { return pascal(f.Name) }

// Getter returns the name of the accessor method.
func (f Field) Getter() string { return "Get" + f.StructField() }

// Setter returns the name of the mutator method.
func (f Field) Setter() string { return "Set" + f.StructField() }

// Var returns a local variable name for the field.
func (f Field) Var() string { return uncapitalize(f.StructField()) }

// FinderName returns the name of the unique lookup method.
func (f Field) FinderName() string { return "FindBy" + f.StructField() }

// ExistsName returns the name of the unique existence check.
func (f Field) ExistsName() string { return "ExistsBy" + f.StructField() }

// HasDefault reports if the field declares a default value.
func (f Field) HasDefault() bool { return f.Default != "" }

// SQLDefault returns the default value as a SQL literal.
func (f Field) SQLDefault() string {
	switch {
	case f.Type.Fallback, f.Type.Type == field.TypeString:
		return quoteSQL(f.Default)
	case f.Type.Type.Numeric():
		return f.Default
	case f.Type.Type == field.TypeBoolean:
		return strings.ToUpper(f.defaultBool())
	case f.isSQLExpr():
		return f.Default
	default:
		return quoteSQL(f.Default)
	}
}

// StructTags returns the struct tags of the entity field.
func (f Field) StructTags() map[string]string {
	gorm := []string{"column:" + f.Column()}
	if f.id {
		gorm = append(gorm, "primaryKey")
	}
	if f.IsIdentity() {
		gorm = append(gorm, "autoIncrement")
	}
	if !f.Nullable {
		gorm = append(gorm, "not null")
	}
	if f.Type.Sized() && f.Length > 0 {
		gorm = append(gorm, "size:"+strconv.Itoa(f.Length))
	}
	switch {
	case f.HasDefault() && !f.Type.Fallback && f.Type.Type == field.TypeBoolean:
		gorm = append(gorm, "default:"+f.defaultBool())
	case f.HasDefault():
		gorm = append(gorm, "default:"+f.Default)
	}
	return map[string]string{
		"gorm": strings.Join(gorm, ";"),
		"json": f.Name,
	}
}

// defaultBool returns the boolean default in its canonical form, so
// that t, 1 and True all become true.
func (f Field) defaultBool() string {
	b, err := strconv.ParseBool(f.Default)
	if err != nil {
		return f.Default
	}
	return strconv.FormatBool(b)
}

func (f Field) isSQLExpr() bool {
	return strings.HasPrefix(strings.ToUpper(f.Default), "CURRENT_")
}

// checkDefault checks that the default value fits the field type.
func (f Field) checkDefault() error {
	if !f.HasDefault() || f.Type.Fallback {
		return nil
	}
	var err error
	switch t := f.Type.Type; {
	case t == field.TypeBoolean:
		_, err = strconv.ParseBool(f.Default)
	case t == field.TypeDouble || t == field.TypeFloat || t == field.TypeBigDecimal:
		_, err = strconv.ParseFloat(f.Default, 64)
	case t.Numeric():
		_, err = strconv.ParseInt(f.Default, 10, 64)
	case strings.ContainsAny(f.Default, ";"):
		err = fmt.Errorf("contains a statement separator")
	}
	if err != nil {
		return fmt.Errorf("invalid default value for %s field", f.Type.Type)
	}
	return nil
}

func quoteSQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
