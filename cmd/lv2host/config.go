package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScriptedSet is a property assignment the host injects into the control
// stream at a given cycle, as if a UI had sent it.
type ScriptedSet struct {
	Cycle    int    `yaml:"cycle"`
	Property string `yaml:"property"`
	Value    bool   `yaml:"value"`
}

// Config describes one host run.
type Config struct {
	SampleRate float64 `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
	Cycles     int     `yaml:"cycles"`

	// DialogAnswer is the value the simulated user picks when the
	// plugin requests one.
	DialogAnswer bool `yaml:"dialog_answer"`

	// DialogDelayCycles is how many cycles the simulated dialog takes
	// before its answer reaches the control stream.
	DialogDelayCycles int `yaml:"dialog_delay_cycles"`

	Script []ScriptedSet `yaml:"script"`
}

// defaultConfig runs long enough for the plugin's two-second request
// threshold to pass with room for the dialog round trip.
func defaultConfig() Config {
	return Config{
		SampleRate:        48000,
		BlockSize:         4096,
		Cycles:            32,
		DialogAnswer:      true,
		DialogDelayCycles: 2,
	}
}

// loadConfig reads a YAML run description, filling omitted fields with
// defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %g", c.SampleRate)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("block_size must be positive, got %d", c.BlockSize)
	}
	if c.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", c.Cycles)
	}
	if c.DialogDelayCycles < 0 {
		return fmt.Errorf("dialog_delay_cycles must not be negative, got %d", c.DialogDelayCycles)
	}
	return nil
}
