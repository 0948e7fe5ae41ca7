package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/conneroisu/togglebench/internal/bench"
	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/logging"
	"github.com/conneroisu/togglebench/internal/report"
	"github.com/conneroisu/togglebench/internal/suite"
	"github.com/conneroisu/togglebench/internal/toggle"
	"github.com/conneroisu/togglebench/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const watchDebounce = 300 * time.Millisecond

var runCmd = &cobra.Command{
	Use:     "run [workload...]",
	Aliases: []string{"r"},
	Short:   "Benchmark toggle workloads",
	Long: `Run each selected workload for several trials and print the average
time of one call. With no arguments every registered workload runs.

Every finished trial prints a line like:
  Average run for 'set': 0.042 microseconds

followed by a ranking of the workloads with a significance test of each
against the fastest.

Examples:
  togglebench run                      # All workloads, 1,000,000 calls x 3 trials
  togglebench run set sorted-list      # Only two workloads
  togglebench run -n 10000 -t 10       # Shorter trials, more of them
  togglebench run --isolation call     # Fresh collection before every call
  togglebench run -o json              # Machine readable report
  togglebench run --watch              # Re-run when .togglebench.yml changes`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(viper.GetViper(), cmd.Flags(), runBindings)
	},
	RunE: runBenchmarks,
}

var runBindings = map[string]string{
	"count":     "bench.count",
	"trials":    "bench.trials",
	"key":       "bench.key",
	"size":      "bench.size",
	"isolation": "bench.isolation",
	"format":    "output.format",
}

var (
	runNoColor bool
	runWatch   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	d := config.Default()
	flags := runCmd.Flags()
	flags.IntP("count", "n", d.Bench.Count, "calls per trial")
	flags.IntP("trials", "t", d.Bench.Trials, "trials per workload")
	flags.StringP("key", "k", d.Bench.Key, "key toggled on every call")
	flags.Int("size", d.Bench.Size, "keys preloaded into each collection")
	flags.String("isolation", d.Bench.Isolation, "collection lifetime (none, trial, call)")
	flags.StringP("format", "o", d.Output.Format, "output format (text, json, yaml)")
	flags.BoolVar(&runNoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&runWatch, "watch", false, "re-run when the config file changes")

	AddFlagValidation(flags, "isolation", ValidateChoice(config.IsolationNone, config.IsolationTrial, config.IsolationCall))
	AddFlagValidation(flags, "format", ValidateChoice(config.FormatText, config.FormatJSON, config.FormatYAML))
}

func runBenchmarks(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadRunConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug(ctx, "Using config file", "path", used)
	}

	if err := executeSuite(ctx, cmd.OutOrStdout(), cfg, logger); err != nil {
		return err
	}

	if !runWatch {
		return nil
	}
	return watchConfig(ctx, cmd.OutOrStdout(), args, logger)
}

// loadRunConfig loads configuration and applies the positional workload
// arguments and --no-color.
func loadRunConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Bench.Workloads = args
	}
	if runNoColor {
		cfg.Output.Color = false
	}
	return cfg, nil
}

// executeSuite runs the configured workloads and writes the report to w.
func executeSuite(ctx context.Context, w io.Writer, cfg *config.Config, logger logging.Logger) error {
	workloads, err := toggle.Select(cfg.Bench.Workloads)
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer(cfg.Output.Format, cfg.Output.Color)
	if err != nil {
		return err
	}

	s := suite.New(suite.OptionsFromConfig(cfg), workloads, logger)
	if renderer.Streams() {
		var writeErr error
		s.OnTrial(func(_ int, res bench.Result) {
			if writeErr == nil {
				writeErr = renderer.Trial(w, res)
			}
		})
		defer func() {
			if writeErr != nil {
				logger.Warn(ctx, writeErr, "Writing trial line failed")
			}
		}()
	}

	rep, err := s.Run(ctx)
	if err != nil {
		return err
	}

	return renderer.Render(w, rep)
}

// watchConfig re-runs the suite whenever the config file changes, until
// interrupted. Failed re-runs are logged and watching continues.
func watchConfig(ctx context.Context, w io.Writer, args []string, logger logging.Logger) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		return errors.NewValidationError(errors.ErrCodeWatchFailed,
			"--watch needs a config file (.togglebench.yml, --config or TOGGLEBENCH_CONFIG_FILE)")
	}

	fw, err := watcher.NewFileWatcher(path, watchDebounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	handler := errors.NewErrorHandler(logger)
	logger.Info(ctx, "Watching for changes", "path", fw.Path())

	return fw.Watch(ctx, func(ctx context.Context) error {
		if err := viper.ReadInConfig(); err != nil {
			handler.Handle(ctx, errors.NewConfigError(errors.ErrCodeConfigLoad, "re-reading configuration", err))
			return nil
		}
		cfg, err := loadRunConfig(args)
		if err != nil {
			handler.Handle(ctx, err)
			return nil
		}
		if err := executeSuite(ctx, w, cfg, logger); err != nil && ctx.Err() == nil {
			handler.Handle(ctx, err)
		}
		return nil
	})
}
