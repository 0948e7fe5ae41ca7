// Package report renders suite results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/conneroisu/togglebench/internal/bench"
	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/performance"
	"github.com/conneroisu/togglebench/internal/suite"
	"github.com/conneroisu/togglebench/internal/toggle"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Renderer writes reports in one format.
type Renderer struct {
	format  string
	color   bool
	printer *message.Printer
}

type styles struct {
	header  lipgloss.Style
	fastest lipgloss.Style
	muted   lipgloss.Style
}

// NewRenderer creates a renderer for format. Color only affects text output.
func NewRenderer(format string, color bool) (*Renderer, error) {
	switch format {
	case config.FormatText, config.FormatJSON, config.FormatYAML:
	default:
		return nil, errors.NewOutputError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported format: %s (supported: text, json, yaml)", format), nil)
	}

	return &Renderer{
		format:  format,
		color:   color,
		printer: message.NewPrinter(language.English),
	}, nil
}

// stylesFor builds styles whose color profile is detected from w.
func stylesFor(w io.Writer) styles {
	lr := lipgloss.NewRenderer(w)
	return styles{
		header:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		fastest: lr.NewStyle().Foreground(lipgloss.Color("10")),
		muted:   lr.NewStyle().Faint(true),
	}
}

// Streams reports whether per-trial lines should be printed while the suite
// runs. Structured formats emit a single document at the end instead.
func (r *Renderer) Streams() bool {
	return r.format == config.FormatText
}

// Trial writes the console line for one finished trial.
func (r *Renderer) Trial(w io.Writer, res bench.Result) error {
	_, err := fmt.Fprintln(w, res.String())
	return err
}

// Render writes the full report.
func (r *Renderer) Render(w io.Writer, rep *suite.Report) error {
	var err error
	switch r.format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(rep)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(rep)
		if err == nil {
			err = enc.Close()
		}
	default:
		err = r.renderText(w, rep)
	}
	if err != nil {
		return errors.NewOutputError(errors.ErrCodeRenderFailed, "rendering report", err)
	}
	return nil
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func (r *Renderer) renderText(w io.Writer, rep *suite.Report) error {
	st := stylesFor(w)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(r.style(st.header, r.printer.Sprintf("Ranking: %d trial(s) x %d iterations, key %q, size %d, isolation %s",
		rep.Options.Trials, rep.Options.Count, rep.Options.Key, rep.Options.Size, rep.Options.Isolation)))
	b.WriteString("\n")

	columns := fmt.Sprintf("%-3s %-14s %12s %12s %12s %12s %9s  %s",
		"#", "workload", "mean us", "median us", "stddev us", "p95 us", "relative", "vs fastest")
	b.WriteString(r.style(st.header, columns))
	b.WriteString("\n")

	for _, ranked := range rep.Ranking {
		row := fmt.Sprintf("%-3d %-14s %12.3f %12.3f %12.3f %12.3f %8.2fx  %s",
			ranked.Position, ranked.Name, ranked.Mean, ranked.Median, ranked.StdDev, ranked.P95,
			ranked.Relative, r.versus(ranked))
		if ranked.Position == 1 {
			row = r.style(st.fastest, row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString(r.style(st.muted, fmt.Sprintf("elapsed %s", rep.Elapsed.Round(time.Millisecond))))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) versus(ranked performance.Ranked) string {
	if ranked.Versus == nil {
		return "fastest"
	}
	c := ranked.Versus
	switch c.TestType {
	case "insufficient_data":
		return "needs 2+ trials"
	case "no_variance":
		if c.Significant {
			return "different (no variance)"
		}
		return "identical"
	}
	verdict := "not significant"
	if c.Significant {
		verdict = "significant"
	}
	return fmt.Sprintf("p=%.4f %s, %s effect", c.PValue, verdict, strings.ReplaceAll(c.EffectClass, "_", " "))
}

// Workloads writes the workload listing used by the list command.
func (r *Renderer) Workloads(w io.Writer, workloads []toggle.Workload) error {
	type entry struct {
		Name        string `json:"name" yaml:"name"`
		Description string `json:"description" yaml:"description"`
	}
	entries := make([]entry, len(workloads))
	for i, wl := range workloads {
		entries[i] = entry{Name: wl.Name, Description: wl.Description}
	}

	switch r.format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	}

	st := stylesFor(w)
	for _, e := range entries {
		name := r.style(st.header, fmt.Sprintf("%-14s", e.Name))
		if _, err := fmt.Fprintf(w, "%s %s\n", name, e.Description); err != nil {
			return err
		}
	}
	return nil
}
