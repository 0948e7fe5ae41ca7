// Package suite runs toggle workloads for several trials and ranks them.
//
// Trials are interleaved: trial one of every workload runs before trial two
// of any, so slow drift in machine load is spread across all workloads
// instead of penalising whichever ran last.
package suite

import (
	"context"
	"time"

	"github.com/conneroisu/togglebench/internal/bench"
	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/logging"
	"github.com/conneroisu/togglebench/internal/performance"
	"github.com/conneroisu/togglebench/internal/toggle"
)

// Options controls a suite run.
type Options struct {
	Count           int     `json:"count" yaml:"count"`
	Trials          int     `json:"trials" yaml:"trials"`
	Key             string  `json:"key" yaml:"key"`
	Size            int     `json:"size" yaml:"size"`
	Isolation       string  `json:"isolation" yaml:"isolation"`
	ConfidenceLevel float64 `json:"confidence_level" yaml:"confidence_level"`
}

// OptionsFromConfig extracts suite options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Count:           cfg.Bench.Count,
		Trials:          cfg.Bench.Trials,
		Key:             cfg.Bench.Key,
		Size:            cfg.Bench.Size,
		Isolation:       cfg.Bench.Isolation,
		ConfidenceLevel: cfg.Bench.ConfidenceLevel,
	}
}

// Observer is told about every finished trial.
type Observer func(trial int, result bench.Result)

// WorkloadResult holds every trial of one workload.
type WorkloadResult struct {
	Name    string              `json:"name" yaml:"name"`
	Trials  []bench.Result      `json:"trials" yaml:"trials"`
	Summary performance.Summary `json:"summary" yaml:"summary"`
}

// Report is the outcome of a suite run.
type Report struct {
	Options   Options              `json:"options" yaml:"options"`
	Workloads []WorkloadResult     `json:"workloads" yaml:"workloads"`
	Ranking   []performance.Ranked `json:"ranking" yaml:"ranking"`
	StartedAt time.Time            `json:"started_at" yaml:"started_at"`
	Elapsed   time.Duration        `json:"elapsed_ns" yaml:"elapsed_ns"`
}

// Suite runs a set of workloads.
type Suite struct {
	opts      Options
	workloads []toggle.Workload
	logger    logging.Logger
	observer  Observer
}

// New creates a suite. A nil logger discards log output.
func New(opts Options, workloads []toggle.Workload, logger logging.Logger) *Suite {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Suite{
		opts:      opts,
		workloads: workloads,
		logger:    logger.WithComponent("suite"),
	}
}

// OnTrial registers fn to be called after each trial completes.
func (s *Suite) OnTrial(fn Observer) {
	s.observer = fn
}

// Run executes every trial of every workload on the calling goroutine.
//
// The first failure stops the run and is returned as produced by the runner.
// Cancellation of ctx is checked between trials.
func (s *Suite) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		Options:   s.opts,
		Workloads: make([]WorkloadResult, len(s.workloads)),
		StartedAt: time.Now(),
	}

	runner := bench.NewRunner(s.opts.Count)
	if report.Options.Count == 0 {
		report.Options.Count = bench.DefaultCount
	}

	// With isolation "none" each workload keeps one collection for the whole run.
	shared := make([]toggle.Toggler[string], len(s.workloads))
	if s.opts.Isolation == config.IsolationNone {
		for i, w := range s.workloads {
			shared[i] = w.New(s.opts.Size)
		}
	}

	for i, w := range s.workloads {
		report.Workloads[i].Name = w.Name
	}

	s.logger.Info(ctx, "Starting benchmark suite",
		"workloads", len(s.workloads),
		"trials", s.opts.Trials,
		"count", s.opts.Count,
		"isolation", s.opts.Isolation)

	for trial := 1; trial <= s.opts.Trials; trial++ {
		for i, w := range s.workloads {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			op := logging.StartOperation(s.logger.With("workload", w.Name, "trial", trial), "trial")
			res, err := s.runTrial(runner, w, shared[i])
			if err != nil {
				op.EndWithError(ctx, err)
				return nil, err
			}
			op.End(ctx)

			report.Workloads[i].Trials = append(report.Workloads[i].Trials, res)
			if s.observer != nil {
				s.observer(trial, res)
			}
		}
	}

	summaries := make([]performance.Summary, len(report.Workloads))
	for i := range report.Workloads {
		wr := &report.Workloads[i]
		samples := make([]float64, len(wr.Trials))
		for j, res := range wr.Trials {
			samples[j] = res.AverageMicros
		}
		wr.Summary = performance.Summarize(wr.Name, samples)
		summaries[i] = wr.Summary
	}

	validator := performance.NewStatisticalValidator(s.opts.ConfidenceLevel, 2)
	report.Ranking = performance.Rank(summaries, validator)
	report.Elapsed = time.Since(report.StartedAt)

	s.logger.Info(ctx, "Benchmark suite finished", "elapsed", report.Elapsed.String())

	return report, nil
}

func (s *Suite) runTrial(runner *bench.Runner, w toggle.Workload, shared toggle.Toggler[string]) (bench.Result, error) {
	switch s.opts.Isolation {
	case config.IsolationCall:
		return runner.RunIsolated(w.Name, w.Setup(s.opts.Size, s.opts.Key))
	case config.IsolationNone:
		return runner.Run(w.Name, w.Func(shared, s.opts.Key))
	default:
		return runner.Run(w.Name, w.Func(w.New(s.opts.Size), s.opts.Key))
	}
}
