package gen

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ManifestFile is the manifest location, relative to the main root.
var ManifestFile = filepath.Join(".strata", "manifest")

const manifestVersion = 1

// Manifest records every artifact written by the generator together
// with the checksum of its content. It tells generator output apart from
// files changed by hand since.
type Manifest struct {
	Version int                       `msgpack:"version"`
	Entries map[string]*ManifestEntry `msgpack:"entries"`
}

// ManifestEntry describes one written artifact.
type ManifestEntry struct {
	Path        string    `msgpack:"path"`
	Root        Root      `msgpack:"root"`
	Kind        Kind      `msgpack:"kind"`
	Entity      string    `msgpack:"entity"`
	Layer       string    `msgpack:"layer"`
	Checksum    string    `msgpack:"checksum"`
	Run         string    `msgpack:"run"`
	GeneratedAt time.Time `msgpack:"generated_at"`
}

// ReadManifest reads the manifest at path. A missing file yields an
// empty manifest.
func ReadManifest(path string) (*Manifest, error) {
	m := &Manifest{Version: manifestVersion, Entries: make(map[string]*ManifestEntry)}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := msgpack.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if m.Version != manifestVersion {
		return nil, fmt.Errorf("manifest %s has unsupported version %d", path, m.Version)
	}
	if m.Entries == nil {
		m.Entries = make(map[string]*ManifestEntry)
	}
	return m, nil
}

// WriteFile writes the manifest to path.
func (m *Manifest) WriteFile(path string) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return writeFileAtomic(path, data)
}

// Record adds or replaces the entry of an artifact.
func (m *Manifest) Record(a *Artifact, content []byte, run string, at time.Time) {
	m.Entries[manifestKey(a.Root, a.Path)] = &ManifestEntry{
		Path:        filepath.ToSlash(a.Path),
		Root:        a.Root,
		Kind:        a.Kind,
		Entity:      a.Entity,
		Layer:       a.Layer,
		Checksum:    Checksum(content),
		Run:         run,
		GeneratedAt: at,
	}
}

// Lookup returns the entry of the artifact at path under root.
func (m *Manifest) Lookup(root Root, path string) (*ManifestEntry, bool) {
	e, ok := m.Entries[manifestKey(root, path)]
	return e, ok
}

// Modified reports whether content differs from what the generator wrote.
// The second result is false if the manifest has no record of the file.
func (m *Manifest) Modified(root Root, path string, content []byte) (modified, known bool) {
	e, ok := m.Lookup(root, path)
	if !ok {
		return false, false
	}
	return e.Checksum != Checksum(content), true
}

// Sorted returns the entries ordered by root and path.
func (m *Manifest) Sorted() []*ManifestEntry {
	entries := make([]*ManifestEntry, 0, len(m.Entries))
	for _, e := range m.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Root != entries[j].Root {
			return entries[i].Root < entries[j].Root
		}
		return entries[i].Path < entries[j].Path
	})
	return entries
}

// Checksum returns the hex encoded sha256 of content.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func manifestKey(root Root, path string) string {
	return fmt.Sprintf("%d:%s", root, filepath.ToSlash(path))
}
