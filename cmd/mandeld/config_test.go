package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractalview/mandel"
)

// TestLoadConfig_Defaults tests that an empty path yields the defaults.
func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.TCPAddr)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 1920, cfg.ImageWidth)
	assert.Equal(t, 1080, cfg.ImageHeight)
	assert.Equal(t, uint32(1000), cfg.MaxIterations)

	region, err := cfg.region()
	require.NoError(t, err)
	assert.Equal(t, mandel.SeahorseValley, region)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mandeld.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadConfig_File tests that file values override the defaults and
// unset fields keep them.
func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
tcp_addr: ":9000"
image_width: 640
image_height: 480
tile_width: 32
tile_height: 32
landmark: elephant
max_iterations: 250
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.TCPAddr)
	assert.Equal(t, 640, cfg.ImageWidth)
	assert.Equal(t, 480, cfg.ImageHeight)
	assert.Equal(t, uint32(250), cfg.MaxIterations)

	// Untouched fields keep defaults.
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 2.0, cfg.EscapeRadius)

	region, err := cfg.region()
	require.NoError(t, err)
	assert.Equal(t, mandel.ElephantValley, region)
}

// TestLoadConfig_ExplicitRegion tests that explicit bounds win over the
// landmark name.
func TestLoadConfig_ExplicitRegion(t *testing.T) {
	path := writeConfig(t, `
landmark: elephant
region:
  xmin: -1.0
  xmax: 0.5
  ymin: -0.75
  ymax: 0.75
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	region, err := cfg.region()
	require.NoError(t, err)
	assert.Equal(t, mandel.Region{Xmin: -1.0, Xmax: 0.5, Ymin: -0.75, Ymax: 0.75}, region)
}

// TestLoadConfig_Invalid tests the rejection paths.
func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"bad landmark", "landmark: atlantis\n"},
		{"empty region", "region: {xmin: 1.0, xmax: -1.0, ymin: 0.0, ymax: 1.0}\n"},
		{"zero image", "image_width: 0\n"},
		{"negative tile", "tile_height: -4\n"},
		{"zero radius", "escape_radius: 0\n"},
		{"not yaml", ": : :\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

// TestFlagOverrides_WinOverFile tests that explicitly set flags replace
// file values while unset flags leave them alone.
func TestFlagOverrides_WinOverFile(t *testing.T) {
	path := writeConfig(t, `
image_width: 640
image_height: 480
landmark: elephant
max_iterations: 250
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	fs := flag.NewFlagSet("mandeld", flag.ContinueOnError)
	o := newFlagOverrides(fs)
	require.NoError(t, fs.Parse([]string{
		"-width", "320",
		"-landmark", "dragon",
		"-iterations", "99",
		"-radius", "4.0",
	}))

	cfg, err = o.apply(cfg)
	require.NoError(t, err)

	assert.Equal(t, 320, cfg.ImageWidth)
	assert.Equal(t, uint32(99), cfg.MaxIterations)
	assert.Equal(t, 4.0, cfg.EscapeRadius)

	region, err := cfg.region()
	require.NoError(t, err)
	assert.Equal(t, mandel.ValleyOfTheDragon, region)

	// Fields without a set flag keep the file/default values.
	assert.Equal(t, 480, cfg.ImageHeight)
	assert.Equal(t, ":8081", cfg.TCPAddr)
}

// TestFlagOverrides_LandmarkClearsFileRegion tests that -landmark beats an
// explicit region block from the file.
func TestFlagOverrides_LandmarkClearsFileRegion(t *testing.T) {
	path := writeConfig(t, `
region: {xmin: -1.0, xmax: 0.5, ymin: -0.75, ymax: 0.75}
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	fs := flag.NewFlagSet("mandeld", flag.ContinueOnError)
	o := newFlagOverrides(fs)
	require.NoError(t, fs.Parse([]string{"-landmark", "seahorse"}))

	cfg, err = o.apply(cfg)
	require.NoError(t, err)

	region, err := cfg.region()
	require.NoError(t, err)
	assert.Equal(t, mandel.SeahorseValley, region)
}

// TestFlagOverrides_Invalid tests that flag values go through the same
// validation as file values.
func TestFlagOverrides_Invalid(t *testing.T) {
	fs := flag.NewFlagSet("mandeld", flag.ContinueOnError)
	o := newFlagOverrides(fs)
	require.NoError(t, fs.Parse([]string{"-width", "0"}))

	_, err := o.apply(defaultConfig())
	assert.Error(t, err)
}

// TestLoadConfig_MissingFile tests that a nonexistent path is an error.
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
