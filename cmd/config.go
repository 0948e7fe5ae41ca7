package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/toggle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect togglebench configuration",
	Long: `Inspect togglebench configuration files and settings.

This command provides subcommands for:
- Validating a configuration file
- Showing the resolved configuration

Examples:
  togglebench config validate                  # Validate .togglebench.yml
  togglebench config validate --file bench.yml # Validate a specific file
  togglebench config show                      # Show resolved configuration`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a togglebench configuration file and report every invalid
field together with suggestions for fixing it.

Environment variables and flags are not applied; only the file is checked.

Examples:
  togglebench config validate                  # Validate .togglebench.yml in current directory
  togglebench config validate --file bench.yml # Validate specific file`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration "run" would use, after:
- Loading from configuration file
- Applying environment variable overrides
- Setting default values

Examples:
  togglebench config show              # Show as YAML
  togglebench config show --format json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var (
	configFile   string
	configFormat string
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configValidateCmd.Flags().
		StringVarP(&configFile, "file", "f", "", "Configuration file to validate (default: the file run would load)")

	configShowCmd.Flags().StringVarP(&configFormat, "format", "o", "yaml", "Output format (yaml, json)")
	AddFlagValidation(configShowCmd.Flags(), "format", ValidateChoice("yaml", "json"))
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	targetFile := configFile
	if targetFile == "" {
		targetFile = viper.ConfigFileUsed()
	}
	if targetFile == "" {
		return errors.NewValidationError(errors.ErrCodeConfigLoad,
			"no configuration file found; use --file, --config or create .togglebench.yml")
	}

	fmt.Fprintf(w, "🔍 Validating configuration file: %s\n", targetFile)

	v := viper.New()
	v.SetConfigFile(targetFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.NewConfigError(errors.ErrCodeConfigLoad, "reading configuration file", err).
			WithContext("path", targetFile)
	}

	cfg, err := config.Decode(v)
	if err != nil {
		return err
	}

	vec := config.Check(cfg)
	checkWorkloads(cfg.Bench.Workloads, vec)

	if !vec.HasErrors() {
		fmt.Fprintln(w, "✅ Configuration is valid!")
		return nil
	}

	printFieldErrors(w, vec)
	return errors.NewValidationError(errors.ErrCodeValidationFailed,
		fmt.Sprintf("configuration validation failed with %d errors", len(vec.Errors))).
		WithContext("path", targetFile)
}

// checkWorkloads reports workload names that are not registered.
func checkWorkloads(names []string, vec *errors.ValidationErrorCollection) {
	for _, name := range names {
		if _, err := toggle.Lookup(name); err != nil {
			vec.AddField("bench.workloads", name, "unknown workload",
				"available: "+strings.Join(workloadNames(), ", "))
		}
	}
}

func workloadNames() []string {
	workloads := toggle.Workloads()
	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = w.Name
	}
	return names
}

func printFieldErrors(w io.Writer, vec *errors.ValidationErrorCollection) {
	for _, fe := range vec.Errors {
		fmt.Fprintf(w, "❌ %s (got %v)\n", fe.Error(), fe.Value())
		for _, s := range fe.Suggestions() {
			fmt.Fprintf(w, "   💡 %s\n", s)
		}
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch strings.ToLower(configFormat) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	default:
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(w, "# Resolved from %s, environment and defaults\n", used)
		} else {
			fmt.Fprintln(w, "# Resolved from environment and defaults")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	}
}
