// Package config provides configuration management for togglebench using
// Viper for loading from files, environment variables, and command-line flags.
//
// Settings are read from .togglebench.yml (or the file named by --config or
// TOGGLEBENCH_CONFIG_FILE) and may be overridden by TOGGLEBENCH_ prefixed
// environment variables such as TOGGLEBENCH_BENCH_COUNT.
package config

import (
	"strings"

	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "TOGGLEBENCH"

// Isolation modes controlling how much collection state survives between
// measured calls.
const (
	IsolationNone  = "none"
	IsolationTrial = "trial"
	IsolationCall  = "call"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	Bench  BenchConfig  `mapstructure:"bench" json:"bench" yaml:"bench"`
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log"`
}

type BenchConfig struct {
	Count           int      `mapstructure:"count" json:"count" yaml:"count"`
	Trials          int      `mapstructure:"trials" json:"trials" yaml:"trials"`
	Key             string   `mapstructure:"key" json:"key" yaml:"key"`
	Size            int      `mapstructure:"size" json:"size" yaml:"size"`
	Isolation       string   `mapstructure:"isolation" json:"isolation" yaml:"isolation"`
	Workloads       []string `mapstructure:"workloads" json:"workloads" yaml:"workloads"`
	ConfidenceLevel float64  `mapstructure:"confidence_level" json:"confidence_level" yaml:"confidence_level"`
}

type OutputConfig struct {
	Format string `mapstructure:"format" json:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" json:"color" yaml:"color"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Bench: BenchConfig{
			Count:           1_000_000,
			Trials:          3,
			Key:             "55",
			Size:            100,
			Isolation:       IsolationTrial,
			ConfidenceLevel: 0.95,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers default values on v so that unset keys resolve to
// Default().
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("bench.count", d.Bench.Count)
	v.SetDefault("bench.trials", d.Bench.Trials)
	v.SetDefault("bench.key", d.Bench.Key)
	v.SetDefault("bench.size", d.Bench.Size)
	v.SetDefault("bench.isolation", d.Bench.Isolation)
	v.SetDefault("bench.workloads", []string{})
	v.SetDefault("bench.confidence_level", d.Bench.ConfidenceLevel)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	config, err := Decode(v)
	if err != nil {
		return nil, err
	}
	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Decode reads the configuration held by v, applying defaults and
// normalising list and enum values, without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigLoad, "decoding configuration", err)
	}

	// Slices set through env vars or flags arrive as a single string.
	if v.IsSet("bench.workloads") && len(config.Bench.Workloads) == 0 {
		config.Bench.Workloads = v.GetStringSlice("bench.workloads")
	}
	config.Bench.Workloads = splitList(config.Bench.Workloads)

	config.Bench.Isolation = strings.ToLower(strings.TrimSpace(config.Bench.Isolation))
	config.Output.Format = strings.ToLower(strings.TrimSpace(config.Output.Format))

	return &config, nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.FieldsFunc(value, func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			out = append(out, part)
		}
	}
	return out
}
