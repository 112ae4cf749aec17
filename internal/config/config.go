// Package config loads the resizecards configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// PanelConfig is the fixed content of one card.
type PanelConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Action      string `yaml:"action"`
}

// Config holds the widget's tunables. Widths are in units; UnitsPerCell
// converts them to terminal columns.
type Config struct {
	MinPanelWidth     int            `yaml:"min-panel-width"`
	MaxContainerWidth int            `yaml:"max-container-width"`
	UnitsPerCell      int            `yaml:"units-per-cell"`
	Panels            [2]PanelConfig `yaml:"panels"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MinPanelWidth:     200,
		MaxContainerWidth: 1400,
		UnitsPerCell:      10,
		Panels: [2]PanelConfig{
			{Title: "Card 1", Description: "This is the first card.", Action: "Action 1"},
			{Title: "Card 2", Description: "This is the second card.", Action: "Action 2"},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/resizecards/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "resizecards", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file at the default location
// is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	cfg, err = Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// file is the on-disk shape. Panels is a slice so that a list of the wrong
// length is reported instead of overflowing the fixed array.
type file struct {
	MinPanelWidth     int           `yaml:"min-panel-width"`
	MaxContainerWidth int           `yaml:"max-container-width"`
	UnitsPerCell      int           `yaml:"units-per-cell"`
	Panels            []PanelConfig `yaml:"panels"`
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected. Panel fields left empty keep their default text.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	f := file{
		MinPanelWidth:     cfg.MinPanelWidth,
		MaxContainerWidth: cfg.MaxContainerWidth,
		UnitsPerCell:      cfg.UnitsPerCell,
	}

	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(f.Panels) > len(cfg.Panels) {
		return Config{}, fmt.Errorf("%w: panels lists %d entries, at most %d allowed",
			ErrInvalidConfig, len(f.Panels), len(cfg.Panels))
	}

	cfg.MinPanelWidth = f.MinPanelWidth
	cfg.MaxContainerWidth = f.MaxContainerWidth
	cfg.UnitsPerCell = f.UnitsPerCell
	for i, p := range f.Panels {
		cfg.Panels[i] = mergePanel(p, cfg.Panels[i])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the width bounds can hold two panels.
func (c Config) Validate() error {
	if c.MinPanelWidth <= 0 {
		return fmt.Errorf("%w: min-panel-width must be positive, got %d", ErrInvalidConfig, c.MinPanelWidth)
	}
	if c.MaxContainerWidth < 2*c.MinPanelWidth {
		return fmt.Errorf("%w: max-container-width %d cannot hold two panels of %d",
			ErrInvalidConfig, c.MaxContainerWidth, c.MinPanelWidth)
	}
	if c.UnitsPerCell <= 0 {
		return fmt.Errorf("%w: units-per-cell must be positive, got %d", ErrInvalidConfig, c.UnitsPerCell)
	}
	return nil
}

func mergePanel(p, def PanelConfig) PanelConfig {
	if p.Title == "" {
		p.Title = def.Title
	}
	if p.Description == "" {
		p.Description = def.Description
	}
	if p.Action == "" {
		p.Action = def.Action
	}
	return p
}
