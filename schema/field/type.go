package field

import (
	"fmt"
	"strings"
)

// A Type represents a field type.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeString
	TypeLong
	TypeInteger
	TypeShort
	TypeByte
	TypeDouble
	TypeFloat
	TypeBigDecimal
	TypeBoolean
	TypeLocalDate
	TypeLocalDateTime
	TypeLocalTime
	TypeUUID
	endTypes
)

// Import paths of the non-builtin Go types used by generated code.
const (
	DecimalPkg = "github.com/shopspring/decimal"
	UUIDPkg    = "github.com/google/uuid"
	TimePkg    = "time"
)

// DefaultLength is the column width of text fields without an explicit length.
const DefaultLength = 255

var typeNames = [...]string{
	TypeInvalid:       "invalid",
	TypeString:        "String",
	TypeLong:          "Long",
	TypeInteger:       "Integer",
	TypeShort:         "Short",
	TypeByte:          "Byte",
	TypeDouble:        "Double",
	TypeFloat:         "Float",
	TypeBigDecimal:    "BigDecimal",
	TypeBoolean:       "Boolean",
	TypeLocalDate:     "LocalDate",
	TypeLocalDateTime: "LocalDateTime",
	TypeLocalTime:     "LocalTime",
	TypeUUID:          "UUID",
}

var goTypes = [...]struct{ ident, pkg string }{
	TypeString:        {"string", ""},
	TypeLong:          {"int64", ""},
	TypeInteger:       {"int32", ""},
	TypeShort:         {"int16", ""},
	TypeByte:          {"int8", ""},
	TypeDouble:        {"float64", ""},
	TypeFloat:         {"float32", ""},
	TypeBigDecimal:    {"Decimal", DecimalPkg},
	TypeBoolean:       {"bool", ""},
	TypeLocalDate:     {"Time", TimePkg},
	TypeLocalDateTime: {"Time", TimePkg},
	TypeLocalTime:     {"Time", TimePkg},
	TypeUUID:          {"UUID", UUIDPkg},
}

var columnTypes = [...]string{
	TypeLong:          "BIGINT",
	TypeInteger:       "INTEGER",
	TypeShort:         "SMALLINT",
	TypeByte:          "TINYINT",
	TypeDouble:        "DOUBLE",
	TypeFloat:         "FLOAT",
	TypeBigDecimal:    "DECIMAL(19,2)",
	TypeBoolean:       "BOOLEAN",
	TypeLocalDate:     "DATE",
	TypeLocalDateTime: "TIMESTAMP",
	TypeLocalTime:     "TIME",
	TypeUUID:          "UUID",
}

// String returns the schema name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is known.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the type is an integer type that a database can
// auto-increment.
func (t Type) Integer() bool {
	return t == TypeLong || t == TypeInteger
}

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	switch t {
	case TypeLong, TypeInteger, TypeShort, TypeByte, TypeDouble, TypeFloat, TypeBigDecimal:
		return true
	}
	return false
}

// Temporal reports if the type maps to time.Time.
func (t Type) Temporal() bool {
	return t == TypeLocalDate || t == TypeLocalDateTime || t == TypeLocalTime
}

// TypeInfo holds the information regarding field type.
type TypeInfo struct {
	Type Type
	// Name is the type name as written in the schema file.
	Name string
	// Ident is the Go identifier of the type, PkgPath its import path.
	Ident   string
	PkgPath string
	// Fallback is set when Name is not part of the type table
	// and the field is handled as text.
	Fallback bool
}

// ParseType resolves a schema type name. Unknown names resolve to a text
// type with Fallback set; ParseType never fails.
func ParseType(name string) *TypeInfo {
	name = strings.TrimSpace(name)
	for t := TypeString; t < endTypes; t++ {
		if typeNames[t] == name {
			return newTypeInfo(t, name, false)
		}
	}
	return newTypeInfo(TypeString, name, true)
}

func newTypeInfo(t Type, name string, fallback bool) *TypeInfo {
	g := goTypes[t]
	return &TypeInfo{Type: t, Name: name, Ident: g.ident, PkgPath: g.pkg, Fallback: fallback}
}

// String returns the Go type of the field.
func (t TypeInfo) String() string {
	if t.PkgPath == "" {
		return t.Ident
	}
	return t.PkgPath[strings.LastIndexByte(t.PkgPath, '/')+1:] + "." + t.Ident
}

// Sized reports if the type accepts a column length.
func (t TypeInfo) Sized() bool {
	return t.Type == TypeString
}

// Column returns the storage column type. A positive length overrides the
// width of text columns and is ignored for other types.
func (t TypeInfo) Column(length int) string {
	if t.Type == TypeString {
		if length <= 0 {
			length = DefaultLength
		}
		return fmt.Sprintf("VARCHAR(%d)", length)
	}
	if t.Type.Valid() {
		return columnTypes[t.Type]
	}
	return fmt.Sprintf("VARCHAR(%d)", DefaultLength)
}
