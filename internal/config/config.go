// Package config loads kiqheat settings.
//
// The file lives at $XDG_CONFIG_HOME/kiqheat/config.yaml (falling back to
// ~/.config/kiqheat/config.yaml). Missing files yield DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kpumuk/kiqheat/internal/board"
	"github.com/kpumuk/kiqheat/internal/colorscale"
	"github.com/kpumuk/kiqheat/internal/sidekiq"
)

// ChartConfig holds heat map appearance settings.
type ChartConfig struct {
	XBorderRadius      float64       `yaml:"x_border_radius"`
	YBorderRadius      float64       `yaml:"y_border_radius"`
	TransitionDuration time.Duration `yaml:"transition_duration"`
	Palette            []string      `yaml:"palette,omitempty"`
	// ColorMode is "linear" or "quantile".
	ColorMode string `yaml:"color_mode"`
	// ColorMax fixes the top of a linear color domain so colors stay
	// comparable across refreshes. Zero calibrates from the data.
	ColorMax float64 `yaml:"color_max,omitempty"`
	// Metric colors the cells: "processed", "failed" or "time".
	Metric string `yaml:"metric"`
}

// ExportConfig holds the default image size of the export command.
type ExportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the top-level configuration.
type Config struct {
	Redis   string        `yaml:"redis,omitempty"`
	Period  string        `yaml:"period"`
	Bucket  time.Duration `yaml:"bucket,omitempty"`
	Refresh time.Duration `yaml:"refresh"`
	Chart   ChartConfig   `yaml:"chart"`
	Export  ExportConfig  `yaml:"export"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Period:  "1h",
		Refresh: 5 * time.Second,
		Chart: ChartConfig{
			XBorderRadius:      6.75,
			YBorderRadius:      6.75,
			TransitionDuration: 750 * time.Millisecond,
			ColorMode:          "linear",
			Metric:             "processed",
		},
		Export: ExportConfig{
			Width:  960,
			Height: 540,
		},
	}
}

// ConfigDir returns the XDG config directory for kiqheat.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "kiqheat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "kiqheat")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. A missing file yields
// DefaultConfig.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c Config) Validate() error {
	if _, err := sidekiq.ParseMetricsPeriod(c.Period); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Bucket < 0 {
		return fmt.Errorf("invalid config: negative bucket %v", c.Bucket)
	}
	if c.Refresh <= 0 {
		return fmt.Errorf("invalid config: refresh must be positive, got %v", c.Refresh)
	}
	if _, err := board.ParseMetric(c.Chart.Metric); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	scale, err := c.ColorScale()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Chart.ColorMax < 0 {
		return fmt.Errorf("invalid config: negative color_max %v", c.Chart.ColorMax)
	}
	if c.Chart.ColorMax > 0 && scale.Mode() != colorscale.Linear {
		return errors.New("invalid config: color_max requires the linear color mode")
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return fmt.Errorf("invalid config: export size %dx%d", c.Export.Width, c.Export.Height)
	}
	return nil
}

// ColorScale builds the configured color scale.
func (c Config) ColorScale() (*colorscale.Scale, error) {
	mode, err := colorscale.ParseMode(c.Chart.ColorMode)
	if err != nil {
		return nil, err
	}
	opts := []colorscale.Option{colorscale.WithMode(mode)}
	if len(c.Chart.Palette) > 0 {
		opts = append(opts, colorscale.WithPalette(c.Chart.Palette))
	}
	return colorscale.New(opts...)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
