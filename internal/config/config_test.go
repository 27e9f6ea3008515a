package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_StandaloneFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dotgraph.toml"), `
include_external = true
cache_dir = ".cache/dotgraph"
containers = ["myapp"]

[[layers]]
tails = ["api"]

[[layers]]
tails = ["db"]
closed = true
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.True(t, cfg.IncludeExternal)
	assert.Equal(t, ".cache/dotgraph", cfg.CacheDir)
	assert.Equal(t, []string{"myapp"}, cfg.Containers)
	require.Len(t, cfg.Layers, 2)
	assert.Equal(t, []string{"api"}, cfg.Layers[0].Tails)
	assert.True(t, cfg.Layers[1].Closed)
}

func TestLoad_PyprojectSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), `
[project]
name = "myapp"

[tool.dotgraph]
exclude_type_checking = true

[[tool.dotgraph.layers]]
tails = ["high"]
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.True(t, cfg.ExcludeTypeChecking)
	require.Len(t, cfg.Layers, 1)
	assert.Equal(t, []string{"high"}, cfg.Layers[0].Tails)
}

func TestLoad_NoConfigReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default().ExcludePatterns, cfg.ExcludePatterns)
	assert.Empty(t, cfg.Layers)
}

func TestLoad_IgnoresPyprojectWithoutSection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pyproject.toml"), `
[project]
name = "unrelated"
`)
	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Empty(t, cfg.Layers)
	assert.False(t, cfg.IncludeExternal)
}
