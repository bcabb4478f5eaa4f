package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings. Values come from an optional YAML
// file overlaid with command-line flags.
type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	DBPath        string `yaml:"db_path"`
	PublicBaseURL string `yaml:"public_base_url"`

	// Snapshot rendering defaults.
	SnapshotWidth  int    `yaml:"snapshot_width"`
	SnapshotHeight int    `yaml:"snapshot_height"`
	SnapshotDir    string `yaml:"snapshot_dir"`

	// Camera fit defaults used for snapshot rendering.
	FillRatio float64 `yaml:"fill_ratio"`
	MaxZoom   float64 `yaml:"max_zoom"`

	BuildVersion string `yaml:"-"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		DBPath:         "data/prezicast.db",
		PublicBaseURL:  "http://localhost:8080",
		SnapshotWidth:  1280,
		SnapshotHeight: 720,
		SnapshotDir:    "output/snapshots",
		FillRatio:      0.8,
		MaxZoom:        4,
	}
}

// LoadFile overlays settings from a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.SnapshotWidth <= 0 || c.SnapshotHeight <= 0 {
		return fmt.Errorf("snapshot size %dx%d must be positive", c.SnapshotWidth, c.SnapshotHeight)
	}
	if c.FillRatio <= 0 || c.FillRatio > 1 {
		return fmt.Errorf("fill ratio %.2f must be in (0, 1]", c.FillRatio)
	}
	if c.MaxZoom <= 0 {
		return fmt.Errorf("max zoom %.2f must be positive", c.MaxZoom)
	}
	return nil
}
