package load

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Extensions lists the file extensions recognized as schema files.
var Extensions = []string{".yaml", ".yml", ".json"}

// IsSchemaFile reports if the path has a schema file extension.
func IsSchemaFile(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// LoadFile reads all schemas defined in the file at path.
func LoadFile(path string) ([]*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{File: path, Message: "read", Cause: err}
	}
	schemas, err := Parse(data)
	if err != nil {
		if lerr, ok := err.(*Error); ok && lerr.File == "" {
			lerr.File = path
		}
		return nil, err
	}
	for _, s := range schemas {
		s.Pos = path
	}
	return schemas, nil
}

// Files expands the given paths into the list of schema files they name.
// Directories are read non-recursively and their entries sorted by name.
func Files(paths ...string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, &Error{File: p, Message: "stat", Cause: err}
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, &Error{File: p, Message: "read dir", Cause: err}
		}
		for _, e := range entries {
			if !e.IsDir() && IsSchemaFile(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
	}
	return files, nil
}

// LoadPaths loads the schemas of all files named by paths. Files are read
// concurrently, but the result keeps the order of the input: files in the
// order given, and schemas in the order they appear within each file.
func LoadPaths(ctx context.Context, paths ...string) ([]*Schema, error) {
	files, err := Files(paths...)
	if err != nil {
		return nil, err
	}
	loaded := make([][]*Schema, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)
	for i, f := range files {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			schemas, err := LoadFile(f)
			if err != nil {
				return err
			}
			loaded[i] = schemas
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(loaded...), nil
}
