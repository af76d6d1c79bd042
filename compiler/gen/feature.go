package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureMigrationSum writes an atlas.sum integrity file next to the
	// migrations, so that hand edits of applied migrations are detected by
	// migration tooling.
	FeatureMigrationSum = Feature{
		Name:        "migration/sum",
		Stage:       Beta,
		Default:     false,
		Description: "MigrationSum maintains an atlas.sum file for the migration directory",
		cleanup: func(c *Config) error {
			return remove(c.MigrationDir(), "atlas.sum")
		},
	}

	// FeatureServiceTest generates a test file for the base service of each
	// entity, backed by an in-memory repository.
	FeatureServiceTest = Feature{
		Name:        "service/test",
		Stage:       Alpha,
		Default:     false,
		Description: "ServiceTest generates unit tests for the base service implementation",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureMigrationSum,
		FeatureServiceTest,
	}
)

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete, but their output may still change.
	Alpha

	// Beta features are documented, and no breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// A Feature of the strata codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	cleanup func(*Config) error
}

// Cleanup removes the files a disabled feature left behind.
func (f Feature) Cleanup(c *Config) error {
	if f.cleanup == nil {
		return nil
	}
	return f.cleanup(c)
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
