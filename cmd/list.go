package cmd

import (
	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/report"
	"github.com/conneroisu/togglebench/internal/toggle"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List available workloads",
	Long: `List the registered toggle workloads in the order "run" executes them.

Examples:
  togglebench list             # Name and description table
  togglebench list -o json     # Output as JSON
  togglebench list -o yaml     # Output as YAML
  togglebench list --no-color  # Plain text`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(), listBindings)
	},
	RunE: runList,
}

var listBindings = map[string]string{
	"format": "output.format",
}

var listNoColor bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("format", "o", config.FormatText, "output format (text, json, yaml)")
	listCmd.Flags().BoolVar(&listNoColor, "no-color", false, "disable colored output")
	AddFlagValidation(listCmd.Flags(), "format", ValidateChoice(config.FormatText, config.FormatJSON, config.FormatYAML))
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if listNoColor {
		cfg.Output.Color = false
	}

	renderer, err := report.NewRenderer(cfg.Output.Format, cfg.Output.Color)
	if err != nil {
		return err
	}

	return renderer.Workloads(cmd.OutOrStdout(), toggle.Workloads())
}
