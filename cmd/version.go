package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/version"
	"github.com/spf13/cobra"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for togglebench including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  togglebench version               # Show version
  togglebench version --short       # Show short version
  togglebench version --format json # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(version.GetBuildInfo())
	case "text":
		if versionShort {
			_, err := fmt.Fprintln(w, version.GetShortVersion())
			return err
		}
		return outputVersionDefault(w)
	default:
		return errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported format: %s (supported: text, json)", versionFormat))
	}
}

func outputVersionDefault(w io.Writer) error {
	_, err := fmt.Fprintf(w, "togglebench\n%s\n", version.GetDetailedVersion())
	return err
}
