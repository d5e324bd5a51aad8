package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fractalview/mandel"
)

// Config is the coordinator configuration, loadable from a YAML file.
// Zero-valued fields fall back to the defaults below.
type Config struct {
	TCPAddr   string `yaml:"tcp_addr"`
	HTTPPort  int    `yaml:"http_port"`
	StaticDir string `yaml:"static_dir"`

	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`
	TileWidth   int `yaml:"tile_width"`
	TileHeight  int `yaml:"tile_height"`

	// Landmark names a predefined region (see mandel.Landmarks). Region,
	// when set, overrides it with explicit bounds.
	Landmark string        `yaml:"landmark"`
	Region   *RegionConfig `yaml:"region"`

	MaxIterations uint32  `yaml:"max_iterations"`
	EscapeRadius  float64 `yaml:"escape_radius"`
}

type RegionConfig struct {
	Xmin float64 `yaml:"xmin"`
	Xmax float64 `yaml:"xmax"`
	Ymin float64 `yaml:"ymin"`
	Ymax float64 `yaml:"ymax"`
}

func defaultConfig() Config {
	return Config{
		TCPAddr:       ":8081",
		HTTPPort:      8080,
		StaticDir:     "./static",
		ImageWidth:    1920,
		ImageHeight:   1080,
		TileWidth:     64,
		TileHeight:    64,
		Landmark:      "seahorse",
		MaxIterations: 1000,
		EscapeRadius:  2.0,
	}
}

// loadConfig reads the YAML file at path over the defaults. An empty path
// yields the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// flagOverrides holds the command line counterparts of the config fields.
// Only flags the user actually set are applied, so unset flags never
// clobber file values with their defaults.
type flagOverrides struct {
	fs *flag.FlagSet

	tcpAddr   string
	httpPort  int
	staticDir string
	width     int
	height    int
	tileW     int
	tileH     int
	landmark  string
	maxIter   uint
	radius    float64
}

func newFlagOverrides(fs *flag.FlagSet) *flagOverrides {
	o := &flagOverrides{fs: fs}
	fs.StringVar(&o.tcpAddr, "tcp", "", "worker TCP listen address")
	fs.IntVar(&o.httpPort, "http-port", 0, "HTTP/websocket port")
	fs.StringVar(&o.staticDir, "static", "", "directory with the web client files")
	fs.IntVar(&o.width, "width", 0, "image width in pixels")
	fs.IntVar(&o.height, "height", 0, "image height in pixels")
	fs.IntVar(&o.tileW, "tile-width", 0, "tile width in pixels")
	fs.IntVar(&o.tileH, "tile-height", 0, "tile height in pixels")
	fs.StringVar(&o.landmark, "landmark", "", "named region to render")
	fs.UintVar(&o.maxIter, "iterations", 0, "iteration budget per point")
	fs.Float64Var(&o.radius, "radius", 0, "escape radius")
	return o
}

// apply lays the explicitly set flags over cfg and revalidates the result.
// An explicit -landmark also clears any region block from the file, since
// explicit bounds would otherwise shadow it.
func (o *flagOverrides) apply(cfg Config) (Config, error) {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tcp":
			cfg.TCPAddr = o.tcpAddr
		case "http-port":
			cfg.HTTPPort = o.httpPort
		case "static":
			cfg.StaticDir = o.staticDir
		case "width":
			cfg.ImageWidth = o.width
		case "height":
			cfg.ImageHeight = o.height
		case "tile-width":
			cfg.TileWidth = o.tileW
		case "tile-height":
			cfg.TileHeight = o.tileH
		case "landmark":
			cfg.Landmark = o.landmark
			cfg.Region = nil
		case "iterations":
			cfg.MaxIterations = uint32(o.maxIter)
		case "radius":
			cfg.EscapeRadius = o.radius
		}
	})

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("flags: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ImageWidth <= 0 || c.ImageHeight <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", c.ImageWidth, c.ImageHeight)
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("tile dimensions must be positive, got %dx%d", c.TileWidth, c.TileHeight)
	}
	if c.EscapeRadius <= 0 {
		return fmt.Errorf("escape radius must be positive, got %g", c.EscapeRadius)
	}
	if _, err := c.region(); err != nil {
		return err
	}
	return nil
}

// region resolves the configured region: explicit bounds win, then the
// landmark name.
func (c Config) region() (mandel.Region, error) {
	if c.Region != nil {
		r := mandel.Region{
			Xmin: c.Region.Xmin,
			Xmax: c.Region.Xmax,
			Ymin: c.Region.Ymin,
			Ymax: c.Region.Ymax,
		}
		if r.Xmin >= r.Xmax || r.Ymin >= r.Ymax {
			return mandel.Region{}, fmt.Errorf("region bounds are empty: %+v", r)
		}
		return r, nil
	}

	r, ok := mandel.Landmarks[c.Landmark]
	if !ok {
		return mandel.Region{}, fmt.Errorf("unknown landmark %q", c.Landmark)
	}
	return r, nil
}
