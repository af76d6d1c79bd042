package gen

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithHeader("// Custom header")(c))
		assert.Equal(t, "// Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Equal(t, "", c.Header)
	})
}

func TestRootOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  func(string) Option
		get  func(*Config) string
	}{
		{"MainRoot", WithMainRoot, func(c *Config) string { return c.MainRoot }},
		{"ResourceRoot", WithResourceRoot, func(c *Config) string { return c.ResourceRoot }},
		{"TestRoot", WithTestRoot, func(c *Config) string { return c.TestRoot }},
		{"Module", WithModule, func(c *Config) string { return c.Module }},
		{"MigrationAuthor", WithMigrationAuthor, func(c *Config) string { return c.MigrationAuthor }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			require.NoError(t, tt.opt("value")(c))
			assert.Equal(t, "value", tt.get(c))

			err := tt.opt("")(c)
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, err.Error(), tt.name)
		})
	}
}

func TestWithPolicy(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Apply(WithSkipIfExists(true), WithForce(true)))
	assert.Equal(t, Policy{SkipIfExists: true, Force: true}, c.Policy())
}

func TestWithFeatures(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithFeatures(FeatureServiceTest, FeatureServiceTest)(c))
	assert.Len(t, c.Features, 1)

	require.NoError(t, WithFeatureNames("migration/sum", "service/test")(c))
	assert.Len(t, c.Features, 2)
	assert.True(t, c.FeatureEnabled("migration/sum"))

	err := WithFeatureNames("unknown")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithLoggerAndClock(t *testing.T) {
	c := &Config{}
	assert.Error(t, WithLogger(nil)(c))
	assert.Error(t, WithClock(nil)(c))
	require.NoError(t, WithLogger(slog.Default())(c))
	assert.Same(t, slog.Default(), c.Logger)
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithMainRoot(""), WithResourceRoot("res"))
		require.Error(t, err)
		assert.Empty(t, c.ResourceRoot)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithMainRoot(""), WithResourceRoot("res"), WithModule(""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MainRoot")
		assert.Contains(t, err.Error(), "Module")
		assert.Equal(t, "res", c.ResourceRoot)
	})
}
