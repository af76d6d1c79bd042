package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/strata/compiler/load"
)

// Sentinels matched by the error types of the package.
var (
	ErrInvalidSchema = errors.New("strata: invalid schema")
	ErrInvalidConfig = errors.New("strata: invalid configuration")
	ErrGeneration    = errors.New("strata: generation failed")
)

// SchemaError reports a problem with the schema set as a whole, such as
// two schemas claiming the same entity or migration.
type SchemaError struct {
	Entity  string
	Package string
	Message string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("strata: schema")
	if e.Package != "" {
		b.WriteString(" ")
		b.WriteString(e.Package)
		if e.Entity != "" {
			b.WriteString(".")
		}
	}
	if e.Entity != "" {
		if e.Package == "" {
			b.WriteString(" ")
		}
		b.WriteString(e.Entity)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *SchemaError) Is(target error) bool { return target == ErrInvalidSchema }

// ValidationError reports the first check a single schema failed. File
// is the schema file, empty for schemas built in code.
type ValidationError struct {
	File    string
	Entity  string
	Field   string
	Value   any
	Message string
	Cause   error
}

// invalid returns a validation error for the given field of s.
func invalid(s *load.Schema, field string, value any, msg string) *ValidationError {
	return &ValidationError{File: s.Pos, Entity: s.EntityName, Field: field, Value: value, Message: msg}
}

// checkError converts the result of load.Check into a validation error.
func checkError(s *load.Schema, err error) *ValidationError {
	verr := &ValidationError{File: s.Pos, Entity: s.EntityName, Cause: err}
	var lerr *load.Error
	if errors.As(err, &lerr) {
		verr.Field, verr.Message, verr.Cause = lerr.Field, lerr.Message, lerr.Cause
	}
	return verr
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("strata: ")
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString("invalid")
	if e.Entity != "" {
		b.WriteString(" entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
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

func (e *ValidationError) Unwrap() error { return e.Cause }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidSchema }

// ConfigError reports an option that cannot be applied.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("strata: option %s (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("strata: option %s: %s", e.Option, e.Message)
}

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// GenerationError reports a failed step of a run. Entity and Layer are
// set when the step belongs to one artifact, as they are on Result.
type GenerationError struct {
	Entity string
	Layer  string
	Path   string
	// Op is the failed step, e.g. render or write manifest.
	Op    string
	Cause error
}

// artifactError returns a generation error for a step on a.
func artifactError(a *Artifact, op string, err error) *GenerationError {
	return &GenerationError{Entity: a.Entity, Layer: a.Layer, Path: a.Path, Op: op, Cause: err}
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("strata: ")
	b.WriteString(e.Op)
	if e.Layer != "" {
		b.WriteString(" ")
		b.WriteString(e.Layer)
	}
	if e.Entity != "" {
		b.WriteString(" of ")
		b.WriteString(e.Entity)
	}
	if e.Path != "" {
		b.WriteString(" (")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// IsSchemaError reports whether err holds a *SchemaError.
func IsSchemaError(err error) bool {
	var target *SchemaError
	return errors.As(err, &target)
}

// IsValidationError reports whether err holds a *ValidationError.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsConfigError reports whether err holds a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsGenerationError reports whether err holds a *GenerationError.
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}
