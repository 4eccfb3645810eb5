package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Empty(t, cfg.Path)
	assert.Equal(t, "rsx", cfg.Application.Name)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Application.OutDir)
	assert.False(t, cfg.Render.Strict)
	assert.True(t, cfg.Render.XMLNS)
	assert.Equal(t, 256, cfg.Render.MaxDepth)
	assert.Equal(t, []string{".rsx", ".rs"}, cfg.Format.Extensions)
	assert.Equal(t, filepath.Join(dir, ".rsx-cache"), cfg.Format.CacheDir)
	assert.Equal(t, 720*time.Hour, cfg.Format.CacheMaxAge)
	assert.Positive(t, cfg.Format.Workers)
	assert.Empty(t, cfg.Schema.Extensions)
}

func TestLoadProjectFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	content := `
[application]
name = "site"
out_dir = "/srv/www"

[schema]
extensions = ["schema/custom.yaml"]

[render]
strict = true
xmlns = false

[format]
extensions = ["rsx", ".html.rs"]
workers = 3
cache_max_age = "90m"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Rsx.toml"), []byte(content), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Rsx.toml"), cfg.Path)
	assert.Equal(t, "site", cfg.Application.Name)
	assert.Equal(t, "/srv/www", cfg.Application.OutDir)
	assert.Equal(t, []string{filepath.Join(dir, "schema", "custom.yaml")}, cfg.Schema.Extensions)
	assert.True(t, cfg.Render.Strict)
	assert.False(t, cfg.Render.XMLNS)
	assert.Equal(t, 256, cfg.Render.MaxDepth)
	assert.Equal(t, []string{".rsx", ".html.rs"}, cfg.Format.Extensions)
	assert.Equal(t, 3, cfg.Format.Workers)
	assert.Equal(t, 90*time.Minute, cfg.Format.CacheMaxAge)
}

func TestLoadLowercaseFileName(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rsx.toml"), []byte("[application]\nname = \"lower\"\n"), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "lower", cfg.Application.Name)
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\nmax_depth = 8\n"), 0o644))

	cfg, err := Load(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 8, cfg.Render.MaxDepth)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Application.OutDir)

	_, err = Load(dir, filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Rsx.toml"), []byte("[render]\nmax_depth = 0\n"), 0o644))

	_, err := Load(dir, "")
	assert.Error(t, err)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "Rsx.toml"), []byte("[render\n"), 0o644))
	_, err = Load(bad, "")
	assert.Error(t, err)

	negative := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(negative, "Rsx.toml"), []byte("[format]\ncache_max_age = \"-1h\"\n"), 0o644))
	_, err = Load(negative, "")
	assert.ErrorContains(t, err, "cache_max_age")
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RSX_RENDER_STRICT", "true")
	t.Setenv("RSX_FORMAT_CACHE_DIR", "/tmp/rsx-cache")
	t.Setenv("RSX_FORMAT_EXTENSIONS", ".a,.b")
	t.Setenv("RSX_FORMAT_CACHE_MAX_AGE", "1h")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.True(t, cfg.Render.Strict)
	assert.Equal(t, "/tmp/rsx-cache", cfg.Format.CacheDir)
	assert.Equal(t, []string{".a", ".b"}, cfg.Format.Extensions)
	assert.Equal(t, time.Hour, cfg.Format.CacheMaxAge)
}

func TestEnvKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "format.cache_dir", envKey("RSX_FORMAT_CACHE_DIR"))
	assert.Equal(t, "render.strict", envKey("RSX_RENDER_STRICT"))
	assert.Equal(t, "application.out_dir", envKey("RSX_APPLICATION_OUT_DIR"))
}

func TestWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "Rsx.toml")

	require.NoError(t, Write(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultContent(), data)

	assert.ErrorIs(t, Write(path), os.ErrExist)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
}
