// Package config loads the YAML configuration and provides it through Fx.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Raikerian/go-ltc-stamp/pkg/audio"
	"github.com/Raikerian/go-ltc-stamp/pkg/timecode"
)

// Path is the location of the YAML configuration file. Empty means defaults.
type Path string

// TimecodeConfig stores the timecode track parameters.
type TimecodeConfig struct {
	FrameRate   string  `yaml:"frame_rate"`
	DropFrame   bool    `yaml:"drop_frame"`
	SignalShape string  `yaml:"signal_shape"`
	Volume      float64 `yaml:"volume"`
}

// MixdownConfig stores the downmix strategy.
type MixdownConfig struct {
	Profile     string `yaml:"profile"`
	SaveMixdown bool   `yaml:"save_mixdown"`
}

// OutputConfig stores how converted files are written.
type OutputConfig struct {
	BitDepth  int    `yaml:"bit_depth"`
	Directory string `yaml:"directory"` // empty: next to the source file
	Suffix    string `yaml:"suffix"`
}

// CacheConfig stores cache sizes.
type CacheConfig struct {
	TimecodeTracks int `yaml:"timecode_tracks"`
}

// Config stores the application configuration.
type Config struct {
	Timecode TimecodeConfig `yaml:"timecode"`
	Mixdown  MixdownConfig  `yaml:"mixdown"`
	Output   OutputConfig   `yaml:"output"`
	Cache    CacheConfig    `yaml:"cache"`
	LogLevel string         `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	tc := timecode.DefaultConfig()

	return &Config{
		Timecode: TimecodeConfig{
			FrameRate:   tc.FrameRate.String(),
			DropFrame:   tc.DropFrame,
			SignalShape: tc.Shape.String(),
			Volume:      tc.Volume,
		},
		Mixdown: MixdownConfig{
			Profile: audio.ProfileEqualPower.String(),
		},
		Output: OutputConfig{
			BitDepth: audio.DefaultBitDepth,
			Suffix:   "processed",
		},
		Cache: CacheConfig{
			TimecodeTracks: 16,
		},
		LogLevel: "info",
	}
}

// Override adjusts a loaded configuration, typically from command-line flags.
type Override func(*Config)

// LoadConfig loads the configuration from the given file path and applies the
// overrides in order. Keys missing from the file keep their Default values.
// Validation runs after the overrides.
func LoadConfig(path Path, overrides ...Override) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(string(path))
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	for _, override := range overrides {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		if path == "" {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every string setting parses.
func (c *Config) Validate() error {
	if _, err := c.TimecodeConfig(); err != nil {
		return err
	}
	if _, err := c.DownmixProfile(); err != nil {
		return err
	}
	if err := audio.ValidateBitDepth(c.Output.BitDepth); err != nil {
		return err
	}
	if c.Output.Suffix == "" {
		return fmt.Errorf("output suffix must not be empty")
	}
	return nil
}

// TimecodeConfig converts the timecode section into a timecode.Config.
func (c *Config) TimecodeConfig() (timecode.Config, error) {
	rate, err := timecode.ParseFrameRate(c.Timecode.FrameRate)
	if err != nil {
		return timecode.Config{}, err
	}
	shape, err := timecode.ParseSignalShape(c.Timecode.SignalShape)
	if err != nil {
		return timecode.Config{}, err
	}

	tc := timecode.Config{
		FrameRate: rate,
		DropFrame: c.Timecode.DropFrame,
		Shape:     shape,
		Volume:    c.Timecode.Volume,
	}

	return tc, tc.Validate()
}

// DownmixProfile parses the configured downmix profile.
func (c *Config) DownmixProfile() (audio.DownmixProfile, error) {
	return audio.ParseDownmixProfile(c.Mixdown.Profile)
}
