package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrgaberM/codesense/internal/core"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("Missing file returns defaults with sentinel", func(t *testing.T) {
		cfg, err := LoadProjectConfig(t.TempDir())
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, cfg)
		assert.Equal(t, string(core.AnalysisGeneral), cfg.AnalysisType)
		assert.NotZero(t, cfg.MaxFileBytes)
	})

	t.Run("Valid file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := "analysis_type: security\nignore:\n  - \"dist/**\"\nmax_file_bytes: 1024\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".codesense.yml"), []byte(content), 0o600))

		cfg, err := LoadProjectConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "security", cfg.AnalysisType)
		assert.Equal(t, []string{"dist/**"}, cfg.Ignore)
		assert.Equal(t, 1024, cfg.MaxFileBytes)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".codesense.yml"), []byte("analysis_type: [unclosed"), 0o600))

		_, err := LoadProjectConfig(dir)
		assert.ErrorIs(t, err, ErrConfigParsing)
	})

	t.Run("Non-positive max_file_bytes restored to default", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".codesense.yml"), []byte("max_file_bytes: -5\n"), 0o600))

		cfg, err := LoadProjectConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, core.DefaultProjectConfig().MaxFileBytes, cfg.MaxFileBytes)
	})
}
