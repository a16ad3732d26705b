// Package config loads run settings for the stepbar CLI from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// RunConfig holds the settings for a rendered run. Values left out of the
// settings file keep their defaults; CLI flags override both.
type RunConfig struct {
	// Steps is the number of steps per epoch.
	Steps int `yaml:"steps"`

	// Epochs is the number of epochs to run.
	Epochs int `yaml:"epochs"`

	// BarWidth is the number of fill characters representing 100%.
	BarWidth int `yaml:"barWidth"`

	// Label is the text centered in each bar's header line.
	Label string `yaml:"label"`

	// ProgressOutput selects the sink: "stderr", "stdout" or a file path.
	// Empty disables progress output.
	ProgressOutput string `yaml:"progressOutput"`

	// ProgressFormat selects the reporter: "fill", "text" or "json".
	ProgressFormat string `yaml:"progressFormat"`
}

// Default returns the settings used when no file or flags override them.
func Default() RunConfig {
	return RunConfig{
		Steps:          45,
		Epochs:         1,
		BarWidth:       60,
		ProgressOutput: "stderr",
		ProgressFormat: "fill",
	}
}

// Load reads a YAML settings file on top of the defaults. Unknown fields are
// rejected so typos in the file surface instead of being silently ignored.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read run config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse run config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the settings against the same rules the renderer enforces
// at construction.
func (c RunConfig) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BarWidth <= 0 {
		return fmt.Errorf("barWidth must be positive, got %d", c.BarWidth)
	}
	switch c.ProgressFormat {
	case "fill", "text", "json", "":
	default:
		return fmt.Errorf("unknown progressFormat %q", c.ProgressFormat)
	}
	return nil
}
