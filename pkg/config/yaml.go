package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sdejongh/diffnorris/internal/platform"
)

// FileConfig holds the defaults a user may keep in
// ~/.config/diffnorris/config.yaml. Every field is optional; anything
// given on the command line takes precedence.
type FileConfig struct {
	Output  OutputDefaults  `yaml:"output"`
	Compare CompareDefaults `yaml:"compare"`
	Logging LoggingDefaults `yaml:"logging"`
	Exclude []string        `yaml:"exclude"`
}

// OutputDefaults holds default output settings
type OutputDefaults struct {
	Style   string `yaml:"style"`   // "normal", "context", "unified", "side-by-side"
	Color   string `yaml:"color"`   // "never", "always", "auto"
	Width   int    `yaml:"width"`   // side-by-side output width
	TabSize int    `yaml:"tabsize"` // tab stop interval
}

// CompareDefaults holds default comparison settings
type CompareDefaults struct {
	IgnoreFileNameCase bool `yaml:"ignore_file_name_case"`
}

// LoggingDefaults holds default logging settings
type LoggingDefaults struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // log file path (empty = disabled)
}

// LoadFromFile loads defaults from a YAML file
func LoadFromFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	fc := &FileConfig{}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return fc, nil
}

// LoadDefault loads the defaults file from the standard location,
// returning an empty FileConfig if none exists.
func LoadDefault() (*FileConfig, error) {
	fc, err := LoadFromFile(platform.ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// Default returns the defaults written by "config init"
func Default() *FileConfig {
	return &FileConfig{
		Output: OutputDefaults{
			Style:   "normal",
			Color:   "auto",
			Width:   130,
			TabSize: 8,
		},
		Logging: LoggingDefaults{
			Format: "text",
			Level:  "info",
		},
	}
}

// SaveToFile writes the defaults as YAML, creating parent directories
// as needed.
func SaveToFile(fc *FileConfig, path string) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the defaults for values that could never be applied
func (fc *FileConfig) Validate() error {
	switch fc.Output.Style {
	case "", "normal", "context", "unified", "side-by-side":
	default:
		return fmt.Errorf("invalid output style: %s", fc.Output.Style)
	}

	switch fc.Output.Color {
	case "", "never", "always", "auto":
	default:
		return fmt.Errorf("invalid color mode: %s", fc.Output.Color)
	}

	if fc.Output.Width < 0 {
		return fmt.Errorf("invalid width: %d", fc.Output.Width)
	}
	if fc.Output.TabSize < 0 {
		return fmt.Errorf("invalid tabsize: %d", fc.Output.TabSize)
	}

	switch fc.Logging.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", fc.Logging.Format)
	}

	switch fc.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", fc.Logging.Level)
	}

	return nil
}

// StyleValue maps the YAML style name to a Style
func (fc *FileConfig) StyleValue() Style {
	switch fc.Output.Style {
	case "normal":
		return StyleNormal
	case "context":
		return StyleContext
	case "unified":
		return StyleUnified
	case "side-by-side":
		return StyleSideBySide
	default:
		return StyleUnspecified
	}
}
