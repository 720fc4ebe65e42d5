package cli

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/dshelpers/frequency"
	"github.com/YuminosukeSato/dshelpers/pkg/errors"
)

// Config is the optional YAML file passed with --config. Keys that are
// absent keep their defaults.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Frequency FrequencyConfig `yaml:"frequency"`
	Plot      PlotConfig      `yaml:"plot"`
}

// FrequencyConfig mirrors frequency.Options.
type FrequencyConfig struct {
	MaxEntries           int  `yaml:"max_entries"`
	FormatWidth          bool `yaml:"format_width"`
	SlNo                 bool `yaml:"sl_no"`
	Frequency            bool `yaml:"frequency"`
	Percentage           bool `yaml:"percentage"`
	CumulativePercentage bool `yaml:"cumulative_percentage"`
	StringLength         bool `yaml:"string_length"`
	DropNA               bool `yaml:"drop_na"`
	Workers              int  `yaml:"workers"`
}

// PlotConfig sets the image size in inches.
type PlotConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	o := frequency.DefaultOptions()
	return Config{
		LogLevel: "info",
		Frequency: FrequencyConfig{
			MaxEntries:           o.MaxEntries,
			FormatWidth:          o.FormatWidth,
			SlNo:                 o.SlNo,
			Frequency:            o.Frequency,
			Percentage:           o.Percentage,
			CumulativePercentage: o.CumulativePercentage,
			StringLength:         o.StringLength,
			DropNA:               o.DropNA,
			Workers:              o.Workers,
		},
		Plot: PlotConfig{Width: 6, Height: 4},
	}
}

// LoadConfig reads path over the defaults. An empty path or a missing file
// yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), errors.Wrapf(err, "parse config %s", path)
	}
	if cfg.Plot.Width <= 0 || cfg.Plot.Height <= 0 {
		return DefaultConfig(), errors.NewValidationError("plot", "width and height must be positive", cfg.Plot)
	}
	return cfg, nil
}

// Options converts the section into frequency.Options.
func (c FrequencyConfig) Options() frequency.Options {
	return frequency.Options{
		MaxEntries:           c.MaxEntries,
		FormatWidth:          c.FormatWidth,
		SlNo:                 c.SlNo,
		Frequency:            c.Frequency,
		Percentage:           c.Percentage,
		CumulativePercentage: c.CumulativePercentage,
		StringLength:         c.StringLength,
		DropNA:               c.DropNA,
		Workers:              c.Workers,
	}
}
