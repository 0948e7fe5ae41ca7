package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/logging"
)

var (
	isolationModes = []string{IsolationNone, IsolationTrial, IsolationCall}
	outputFormats  = []string{FormatText, FormatJSON, FormatYAML}
	logFormats     = []string{"text", "json"}
)

// Validate checks every field and reports all problems at once.
func Validate(config *Config) error {
	if vec := Check(config); vec.HasErrors() {
		return vec.ToBenchError()
	}
	return nil
}

// Check returns the field errors of config, each with its suggestions.
func Check(config *Config) *errors.ValidationErrorCollection {
	vec := &errors.ValidationErrorCollection{}

	validateBenchConfig(&config.Bench, vec)
	validateOutputConfig(&config.Output, vec)
	validateLogConfig(&config.Log, vec)

	return vec
}

func validateBenchConfig(config *BenchConfig, vec *errors.ValidationErrorCollection) {
	if config.Count <= 0 {
		vec.AddField("bench.count", config.Count, "iteration count must be positive",
			"use 1000000 for the usual run")
	}
	if config.Trials <= 0 {
		vec.AddField("bench.trials", config.Trials, "trial count must be positive",
			"use at least 2 trials to compare workloads")
	}
	if config.Size < 0 {
		vec.AddField("bench.size", config.Size, "prefill size cannot be negative")
	}
	if config.Key == "" {
		vec.AddField("bench.key", config.Key, "toggle key cannot be empty")
	}
	if !oneOf(config.Isolation, isolationModes) {
		vec.AddField("bench.isolation", config.Isolation, "unknown isolation mode",
			fmt.Sprintf("valid modes: %s", strings.Join(isolationModes, ", ")))
	}
	if config.ConfidenceLevel <= 0 || config.ConfidenceLevel >= 1 {
		vec.AddField("bench.confidence_level", config.ConfidenceLevel,
			"confidence level must be between 0 and 1", "use 0.95")
	}
}

func validateOutputConfig(config *OutputConfig, vec *errors.ValidationErrorCollection) {
	if !oneOf(config.Format, outputFormats) {
		vec.AddField("output.format", config.Format, "unsupported output format",
			fmt.Sprintf("valid formats: %s", strings.Join(outputFormats, ", ")))
	}
}

func validateLogConfig(config *LogConfig, vec *errors.ValidationErrorCollection) {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		vec.AddField("log.level", config.Level, err.Error(), "use debug, info, warn or error")
	}
	if !oneOf(strings.ToLower(config.Format), logFormats) {
		vec.AddField("log.format", config.Format, "unsupported log format", "use text or json")
	}
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
