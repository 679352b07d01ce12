package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SANJAI2406/bearing-force-viewer/internal/metadata"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"*.csv"}, cfg.Discovery.DataPatterns)
	assert.Equal(t, []string{"*.png"}, cfg.Discovery.ImagePatterns)
	assert.False(t, cfg.Discovery.Recursive)
	assert.Equal(t, 30, cfg.Workers)
	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, metadata.PreferFilename, cfg.Metadata.Policy())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("bfv.yaml", []byte(
		"workers: 8\nocr:\n  language: deu\nmetadata:\n  precedence: ocr\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, metadata.PreferOCR, cfg.Metadata.Policy())
	assert.Equal(t, []string{"*.csv"}, cfg.Discovery.DataPatterns, "unset keys keep defaults")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BFV_WORKERS", "4")
	t.Setenv("BFV_OCR_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.OCR.Enabled)
}

func TestPolicyFallback(t *testing.T) {
	assert.Equal(t, metadata.PreferFilename, MetadataConfig{Precedence: "bogus"}.Policy())
	assert.Equal(t, metadata.PreferOCR, MetadataConfig{Precedence: "OCR"}.Policy())
}
