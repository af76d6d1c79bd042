package gen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ariga.io/atlas/sql/migrate"
)

// VersionLayout is the time layout of migration versions.
const VersionLayout = "20060102150405"

var versionPrefix = regexp.MustCompile(`^V(\d+)__`)

// MigrationDir is the directory holding the versioned migration files.
type MigrationDir struct {
	path string
	dir  *migrate.LocalDir
}

// OpenMigrationDir opens the migration directory at path, creating it if
// it does not exist.
func OpenMigrationDir(path string) (*MigrationDir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create migration directory: %w", err)
	}
	dir, err := migrate.NewLocalDir(path)
	if err != nil {
		return nil, fmt.Errorf("open migration directory: %w", err)
	}
	return &MigrationDir{path: path, dir: dir}, nil
}

// Path returns the directory path.
func (d *MigrationDir) Path() string { return d.path }

// Files returns the migration files, ordered by name.
func (d *MigrationDir) Files() ([]migrate.File, error) {
	return d.dir.Files()
}

// Find returns the name of the first migration whose name contains
// fragment.
func (d *MigrationDir) Find(fragment string) (string, bool, error) {
	files, err := d.Files()
	if err != nil {
		return "", false, err
	}
	for _, f := range files {
		if strings.Contains(f.Name(), fragment) {
			return f.Name(), true, nil
		}
	}
	return "", false, nil
}

// NextVersion returns a version token greater than the version of every
// existing migration and than after. It is the current time unless an
// existing migration already holds that version or a later one.
func (d *MigrationDir) NextVersion(now time.Time, after uint64) (uint64, error) {
	files, err := d.Files()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(now.Format(VersionLayout), 10, 64)
	if err != nil {
		return 0, err
	}
	floor := after
	for _, f := range files {
		m := versionPrefix.FindStringSubmatch(f.Name())
		if m == nil {
			continue
		}
		n, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			continue
		}
		floor = max(floor, n)
	}
	if v <= floor {
		v = floor + 1
	}
	return v, nil
}

// WriteSum writes the atlas.sum integrity file of the directory.
func (d *MigrationDir) WriteSum() error {
	sum, err := d.dir.Checksum()
	if err != nil {
		return fmt.Errorf("compute migration checksum: %w", err)
	}
	return migrate.WriteSumFile(d.dir, sum)
}

// Validate checks the directory against its atlas.sum file. A directory
// without a sum file is valid.
func (d *MigrationDir) Validate() error {
	if _, err := os.Stat(filepath.Join(d.path, migrate.HashFileName)); os.IsNotExist(err) {
		return nil
	}
	return migrate.Validate(d.dir)
}

// MigrationName returns the file name of a migration.
func MigrationName(version uint64, label string) string {
	return fmt.Sprintf("V%d__Create_%s_table.sql", version, label)
}
