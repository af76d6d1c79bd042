// Package load reads declarative entity schemas from YAML or JSON files.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Schema is the declarative description of one entity as read from a schema file.
type Schema struct {
	PackageName    string   `yaml:"packageName" json:"packageName" validate:"required"`
	EntityName     string   `yaml:"entityName" json:"entityName" validate:"required"`
	TableName      string   `yaml:"tableName,omitempty" json:"tableName,omitempty"`
	IDFields       []string `yaml:"idFields" json:"idFields" validate:"required,min=1,dive,required"`
	Fields         []*Field `yaml:"fields" json:"fields" validate:"required,min=1,dive"`
	SQLFileContent string   `yaml:"sqlFileContent,omitempty" json:"sqlFileContent,omitempty"`
	// Pos is the file the schema was read from, if any.
	Pos string `yaml:"-" json:"-"`
}

// Field is one attribute of a Schema.
type Field struct {
	Name         string `yaml:"name" json:"name" validate:"required"`
	Type         string `yaml:"type" json:"type" validate:"required"`
	Nullable     *bool  `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Length       *int   `yaml:"length,omitempty" json:"length,omitempty" validate:"omitempty,gt=0"`
	DefaultValue string `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
}

// IsNullable reports if the field accepts null values. Fields are nullable
// unless declared otherwise.
func (f *Field) IsNullable() bool {
	return f.Nullable == nil || *f.Nullable
}

// Size returns the declared length or zero.
func (f *Field) Size() int {
	if f.Length == nil {
		return 0
	}
	return *f.Length
}

// Error describes a schema that could not be read or fails the
// structural checks of the input surface.
type Error struct {
	File    string
	Field   string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("strata: load")
	if e.File != "" {
		b.WriteString(" ")
		b.WriteString(e.File)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report yaml names, which is what users write.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Parse decodes one or more schemas from data. Data may hold a single
// schema, a sequence of schemas or a multi-document stream. JSON input is
// accepted as well.
func Parse(data []byte) ([]*Schema, error) {
	var schemas []*Schema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &Error{Message: "decode", Cause: err}
		}
		doc := &node
		if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
			doc = doc.Content[0]
		}
		switch doc.Kind {
		case yaml.SequenceNode:
			var batch []*Schema
			if err := doc.Decode(&batch); err != nil {
				return nil, &Error{Message: "decode", Cause: err}
			}
			schemas = append(schemas, batch...)
		case yaml.MappingNode:
			s := &Schema{}
			if err := doc.Decode(s); err != nil {
				return nil, &Error{Message: "decode", Cause: err}
			}
			schemas = append(schemas, s)
		default:
			return nil, &Error{Message: fmt.Sprintf("unexpected document of kind %d", doc.Kind)}
		}
	}
	for _, s := range schemas {
		if err := Check(s); err != nil {
			return nil, err
		}
	}
	return schemas, nil
}

// Check runs the structural checks of the input surface on s: required
// names, non-empty idFields and fields, positive lengths.
func Check(s *Schema) error {
	if s == nil {
		return &Error{Message: "nil schema"}
	}
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{File: s.Pos, Message: "validate", Cause: err}
	}
	fe := verrs[0]
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return &Error{File: s.Pos, Field: ns, Message: message(fe)}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
