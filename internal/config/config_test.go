package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Default(), withEmptyWorkloads(cfg))
	assert.Equal(t, 1_000_000, cfg.Bench.Count)
	assert.Equal(t, "55", cfg.Bench.Key)
	assert.Equal(t, IsolationTrial, cfg.Bench.Isolation)
}

// withEmptyWorkloads normalises the empty workload list so it compares equal
// to Default().
func withEmptyWorkloads(cfg *Config) *Config {
	if len(cfg.Bench.Workloads) == 0 {
		cfg.Bench.Workloads = nil
	}
	return cfg
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".togglebench.yml")

	fileCfg := Default()
	fileCfg.Bench.Count = 5000
	fileCfg.Bench.Trials = 7
	fileCfg.Bench.Isolation = IsolationCall
	fileCfg.Bench.Workloads = []string{"set", "list"}
	fileCfg.Output.Format = FormatYAML

	data, err := yaml.Marshal(fileCfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Bench.Count)
	assert.Equal(t, 7, cfg.Bench.Trials)
	assert.Equal(t, IsolationCall, cfg.Bench.Isolation)
	assert.Equal(t, []string{"set", "list"}, cfg.Bench.Workloads)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("TOGGLEBENCH_BENCH_COUNT", "250")
	t.Setenv("TOGGLEBENCH_BENCH_ISOLATION", "NONE")
	t.Setenv("TOGGLEBENCH_BENCH_WORKLOADS", "map,sorted-list")
	t.Setenv("TOGGLEBENCH_OUTPUT_FORMAT", "json")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Bench.Count)
	assert.Equal(t, IsolationNone, cfg.Bench.Isolation)
	assert.Equal(t, []string{"map", "sorted-list"}, cfg.Bench.Workloads)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{"zero count", "bench.count", 0, "bench.count"},
		{"negative count", "bench.count", -10, "bench.count"},
		{"zero trials", "bench.trials", 0, "bench.trials"},
		{"negative size", "bench.size", -1, "bench.size"},
		{"empty key", "bench.key", "", "bench.key"},
		{"unknown isolation", "bench.isolation", "process", "bench.isolation"},
		{"confidence too high", "bench.confidence_level", 1.0, "bench.confidence_level"},
		{"unknown format", "output.format", "xml", "output.format"},
		{"unknown log level", "log.level", "chatty", "log.level"},
		{"unknown log format", "log.format", "logfmt", "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)

			cfg, err := LoadFrom(v)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadUndecodableValue(t *testing.T) {
	v := viper.New()
	v.Set("bench.count", "lots")

	_, err := LoadFrom(v)
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))
}

func TestValidateReportsAllFields(t *testing.T) {
	cfg := Default()
	cfg.Bench.Count = 0
	cfg.Bench.Trials = 0
	cfg.Output.Format = "csv"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bench.count")
	assert.Contains(t, err.Error(), "bench.trials")
	assert.Contains(t, err.Error(), "output.format")
}

func TestLoadUsesGlobalViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("bench.count", 42)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Bench.Count)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a,b", " c "}))
	assert.Empty(t, splitList(nil))
}

func TestCheckKeepsSuggestions(t *testing.T) {
	cfg := Default()
	cfg.Bench.Isolation = "sometimes"
	cfg.Log.Format = "xml"

	vec := Check(cfg)
	require.True(t, vec.HasErrors())
	require.Len(t, vec.Errors, 2)
	assert.Equal(t, "bench.isolation", vec.Errors[0].Field())
	assert.Equal(t, "sometimes", vec.Errors[0].Value())
	assert.Equal(t, []string{"valid modes: none, trial, call"}, vec.Errors[0].Suggestions())
	assert.Equal(t, "log.format", vec.Errors[1].Field())

	assert.False(t, Check(Default()).HasErrors())
}

func TestDecodeDoesNotValidate(t *testing.T) {
	v := viper.New()
	v.Set("bench.count", -3)
	v.Set("output.format", " JSON ")

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, -3, cfg.Bench.Count)
	assert.Equal(t, FormatJSON, cfg.Output.Format)

	_, err = LoadFrom(v)
	assert.True(t, errors.IsValidationError(err))
}
