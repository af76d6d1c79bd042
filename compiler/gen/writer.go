package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/tools/imports"
)

// Writer is the only component touching the file system. It renders
// artifacts, applies the override policy and keeps the manifest current.
type Writer struct {
	cfg      *Config
	policy   Policy
	log      *slog.Logger
	run      string
	manifest *Manifest
	dir      *MigrationDir
	metrics  WriterMetrics
	dirty    bool
}

// WriterMetrics tracks generation performance
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
	FormatTime   time.Duration
	WriteTime    time.Duration
}

// Result describes the outcome for one artifact.
type Result struct {
	// Path is the file path, relative to its root.
	Path   string
	Root   Root
	Entity string
	Layer  string
	Kind   Kind
	Action Action
	// Reason explains the action.
	Reason string
	// Modified is set for skipped files changed by hand since generation.
	Modified bool
}

// NewWriter creates a writer for the given configuration. It reads the
// manifest of previous runs from the main root.
func NewWriter(c *Config) (*Writer, error) {
	m, err := ReadManifest(filepath.Join(c.MainRoot, ManifestFile))
	if err != nil {
		return nil, &GenerationError{Path: ManifestFile, Op: "read manifest", Cause: err}
	}
	return &Writer{
		cfg:      c,
		policy:   c.Policy(),
		log:      c.logger(),
		run:      uuid.NewString(),
		manifest: m,
	}, nil
}

// Run returns the identifier of the run, recorded in the manifest.
func (w *Writer) Run() string { return w.run }

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics { return w.metrics }

// Manifest returns the manifest maintained by the writer.
func (w *Writer) Manifest() *Manifest { return w.manifest }

// MigrationDir returns the migration directory, opening it on first use.
func (w *Writer) MigrationDir() (*MigrationDir, error) {
	if w.dir != nil {
		return w.dir, nil
	}
	dir, err := OpenMigrationDir(w.cfg.MigrationDir())
	if err != nil {
		return nil, err
	}
	w.dir = dir
	return dir, nil
}

// Root returns the directory of the given root.
func (w *Writer) Root(r Root) string {
	return w.cfg.RootDir(r)
}

// Write applies the policy to the artifact and writes it if required.
// Skipping is not an error.
func (w *Writer) Write(a *Artifact) (*Result, error) {
	target := filepath.Join(w.Root(a.Root), a.Path)
	exists, existing, err := w.exists(a, target)
	if err != nil {
		return nil, artifactError(a, "inspect target", err)
	}
	action := w.policy.Decide(a.Kind, exists)
	res := &Result{
		Path:   a.Path,
		Root:   a.Root,
		Entity: a.Entity,
		Layer:  a.Layer,
		Kind:   a.Kind,
		Action: action,
		Reason: w.policy.reason(a.Kind, action),
	}
	if action == ActionSkip {
		if existing != "" {
			res.Path = filepath.Join(filepath.Dir(a.Path), existing)
		}
		res.Modified = w.modified(a.Root, res.Path)
		w.metrics.FilesSkipped++
		w.log.Info("skip artifact", "entity", a.Entity, "layer", a.Layer, "path", res.Path,
			"kind", a.Kind.String(), "reason", res.Reason, "modified", res.Modified)
		return res, nil
	}
	content, err := w.Render(a, target)
	if err != nil {
		return nil, artifactError(a, "render", err)
	}
	start := time.Now()
	if err := writeFileAtomic(target, content); err != nil {
		return nil, artifactError(a, "write", err)
	}
	w.metrics.WriteTime += time.Since(start)
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.manifest.Record(a, content, w.run, w.cfg.now())
	w.dirty = true
	w.log.Info("write artifact", "entity", a.Entity, "layer", a.Layer, "path", a.Path,
		"kind", a.Kind.String(), "action", action.String(), "reason", res.Reason)
	return res, nil
}

// Render returns the final content of the artifact. Go sources are
// formatted and their imports resolved.
func (w *Writer) Render(a *Artifact, target string) ([]byte, error) {
	if a.Source == nil {
		return a.Content, nil
	}
	start := time.Now()
	defer func() { w.metrics.FormatTime += time.Since(start) }()
	var buf bytes.Buffer
	if err := a.Source.Render(&buf); err != nil {
		return nil, err
	}
	formatted, err := imports.Process(target, buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", a.Path, err)
	}
	return formatted, nil
}

// Flush persists the manifest and, if enabled, the migration checksum file.
func (w *Writer) Flush() error {
	var errs []error
	if w.dirty {
		if err := w.manifest.WriteFile(filepath.Join(w.cfg.MainRoot, ManifestFile)); err != nil {
			errs = append(errs, &GenerationError{Path: ManifestFile, Op: "write manifest", Cause: err})
		}
		w.dirty = false
	}
	if w.cfg.FeatureEnabled(FeatureMigrationSum.Name) {
		dir, err := w.MigrationDir()
		if err == nil {
			err = dir.WriteSum()
		}
		if err != nil {
			errs = append(errs, &GenerationError{Path: w.cfg.MigrationDir(), Op: "write migration checksums", Cause: err})
		}
	}
	return errors.Join(errs...)
}

// exists reports whether the target of the artifact is present. For
// migrations the name of the matching file is returned as well.
func (w *Writer) exists(a *Artifact, target string) (bool, string, error) {
	if a.Kind == KindMigration && a.Match != "" {
		dir, err := w.MigrationDir()
		if err != nil {
			return false, "", err
		}
		name, ok, err := dir.Find(a.Match)
		return ok, name, err
	}
	switch _, err := os.Stat(target); {
	case err == nil:
		return true, "", nil
	case errors.Is(err, fs.ErrNotExist):
		return false, "", nil
	default:
		return false, "", err
	}
}

// modified reports if a file on disk differs from its manifest record.
func (w *Writer) modified(root Root, path string) bool {
	data, err := os.ReadFile(filepath.Join(w.Root(root), path))
	if err != nil {
		return false
	}
	modified, _ := w.manifest.Modified(root, path, data)
	return modified
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over path, so no reader sees a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func mkdirAll(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
