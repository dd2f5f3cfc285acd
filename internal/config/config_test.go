package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// inEmptyDir runs the test from a fresh directory so no stray
// campaignmap.yaml or .env is picked up.
func inEmptyDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func write(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	inEmptyDir(t)

	cfg, err := Load("")
	require.NoError(t, err)

	want := &Config{
		Window: WindowConfig{Width: 300, Height: 300, Title: "Campaign Map"},
		Map:    MapConfig{TileSize: 50, FadeRadius: 5},
		Input:  InputConfig{DoubleClick: 250 * time.Millisecond},
		Assets: AssetsConfig{Root: ".", Workers: 4, CacheSize: 256},
		Log:    LogConfig{Level: "info"},
	}
	require.Equal(t, want, cfg)
}

func TestLoadSearchesConfigDir(t *testing.T) {
	dir := inEmptyDir(t)
	write(t, filepath.Join(dir, "config", "campaignmap.yaml"), `
window:
  width: 640
map:
  file: maps/marches.json
input:
  double_click: 400ms
`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 640, cfg.Window.Width)
	require.Equal(t, 300, cfg.Window.Height)
	require.Equal(t, "maps/marches.json", cfg.Map.File)
	require.Equal(t, 400*time.Millisecond, cfg.Input.DoubleClick)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := inEmptyDir(t)
	path := filepath.Join(dir, "custom.yaml")
	write(t, path, "map:\n  tile_size: 64\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 64, cfg.Map.TileSize)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := inEmptyDir(t)
	write(t, filepath.Join(dir, "campaignmap.yaml"), "map:\n  tile_size: 64\n")
	t.Setenv("CAMPAIGNMAP_MAP_TILE_SIZE", "32")
	t.Setenv("CAMPAIGNMAP_INPUT_DOUBLE_CLICK", "1s")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 32, cfg.Map.TileSize)
	require.Equal(t, time.Second, cfg.Input.DoubleClick)
}

func TestZeroFadeRadiusIsKept(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("CAMPAIGNMAP_MAP_FADE_RADIUS", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Zero(t, cfg.Map.FadeRadius)
}

func TestDotEnvIsLoaded(t *testing.T) {
	dir := inEmptyDir(t)
	write(t, filepath.Join(dir, ".env"), "CAMPAIGNMAP_LOG_LEVEL=debug\n")
	t.Cleanup(func() { os.Unsetenv("CAMPAIGNMAP_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	inEmptyDir(t)
	t.Setenv("CAMPAIGNMAP_ASSETS_WORKERS", "0")

	_, err := Load("")
	require.ErrorContains(t, err, "assets.workers")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Window: WindowConfig{Width: 0, Height: 10},
		Map:    MapConfig{TileSize: -1, FadeRadius: -1},
		Input:  InputConfig{},
		Assets: AssetsConfig{Workers: 1, CacheSize: 0},
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"window size", "map.tile_size", "map.fade_radius", "input.double_click", "assets.cache_size"} {
		require.ErrorContains(t, err, key)
	}
	require.NotContains(t, err.Error(), "assets.workers")
}
