// Package cmd provides the command-line interface for togglebench.
//
// Configuration System:
//
//	Settings resolve with the following precedence:
//	1. Command-line flags (--count, --trials, etc.) - highest priority
//	2. Individual environment variables (TOGGLEBENCH_BENCH_COUNT, etc.)
//	3. Configuration file (--config, TOGGLEBENCH_CONFIG_FILE or .togglebench.yml)
//	4. Built-in defaults - lowest priority
//
// Environment Variables:
//
//	TOGGLEBENCH_CONFIG_FILE: Path to custom configuration file
//	TOGGLEBENCH_BENCH_COUNT: Calls per trial
//	TOGGLEBENCH_OUTPUT_FORMAT: text, json or yaml
//	And the rest following the TOGGLEBENCH_<SECTION>_<OPTION> pattern
package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "togglebench",
	Short: "Micro-benchmarks for toggle membership on Go collections",
	Long: `togglebench times a tiny operation a million times and reports the
average cost of one call in microseconds.

The bundled workloads toggle a key in and out of different collections
(set, map, list, sorted-list) so their costs can be compared.

Quick Start:
  togglebench run                 Benchmark every workload
  togglebench run set list -t 5   Five trials of two workloads
  togglebench list                List available workloads
  togglebench version             Show build information`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Root().PersistentFlags(), rootBindings)
	},
}

var rootBindings = map[string]string{
	"log-level": "log.level",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .togglebench.yml, can also use TOGGLEBENCH_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	AddFlagValidation(rootCmd.PersistentFlags(), "log-level", ValidateChoice("debug", "info", "warn", "error"))
}

// initConfig points viper at the configuration file and environment.
//
// Configuration file lookup (highest to lowest):
//  1. --config flag
//  2. TOGGLEBENCH_CONFIG_FILE environment variable
//  3. .togglebench.yml in the current directory
//
// A missing default file is not an error; built-in defaults apply.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv(config.EnvPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".togglebench")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.ReadInConfig()
}

// newLogger builds the command logger from the loaded configuration.
func newLogger(cfg *config.Config, w io.Writer) logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    cfg.Log.Format,
		Output:    w,
		Component: "cli",
	})
}
