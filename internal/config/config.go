// Package config holds packsight configuration, loaded from
// .packsight/config.yaml with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all packsight configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Plot geometry for the telemetry chart
	Plot PlotConfig `yaml:"plot"`

	// Export target for audit receipts
	Export ExportConfig `yaml:"export"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PlotConfig sets the telemetry chart geometry and default track.
type PlotConfig struct {
	Width        int    `yaml:"width"`
	Height       int    `yaml:"height"`
	DefaultTrack string `yaml:"default_track"`
}

// ExportConfig sets where audit receipts are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig controls the category debug logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
	JSONFormat bool            `yaml:"json_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:    "packsight",
		Version: "1.0.0",
		Plot: PlotConfig{
			Width:        72,
			Height:       16,
			DefaultTrack: "omega",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultPath returns the config location inside a workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".packsight", "config.yaml")
}

// Load reads the config file at path, layering it over the defaults and
// then applying environment overrides. A missing file is not an error;
// the defaults (plus env) apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnvOverrides layers PACKSIGHT_* environment variables on top of
// the file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("PACKSIGHT_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("PACKSIGHT_TRACK"); v != "" {
		c.Plot.DefaultTrack = v
	}
	if v := os.Getenv("PACKSIGHT_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = debug
		}
	}
}
