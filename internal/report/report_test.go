package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/togglebench/internal/bench"
	"github.com/conneroisu/togglebench/internal/config"
	"github.com/conneroisu/togglebench/internal/errors"
	"github.com/conneroisu/togglebench/internal/performance"
	"github.com/conneroisu/togglebench/internal/suite"
	"github.com/conneroisu/togglebench/internal/toggle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *suite.Report {
	set := performance.Summarize("set", []float64{0.040, 0.042, 0.041})
	list := performance.Summarize("list", []float64{0.810, 0.790, 0.800})

	return &suite.Report{
		Options: suite.Options{
			Count:           1_000_000,
			Trials:          3,
			Key:             "55",
			Size:            100,
			Isolation:       config.IsolationTrial,
			ConfidenceLevel: 0.95,
		},
		Workloads: []suite.WorkloadResult{
			{Name: "set", Summary: set, Trials: []bench.Result{{Name: "set", Iterations: 1_000_000, AverageMicros: 0.040}}},
			{Name: "list", Summary: list, Trials: []bench.Result{{Name: "list", Iterations: 1_000_000, AverageMicros: 0.810}}},
		},
		Ranking:   performance.Rank([]performance.Summary{list, set}, performance.NewStatisticalValidator(0.95, 2)),
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed:   1500 * time.Millisecond,
	}
}

func TestNewRendererRejectsUnknownFormat(t *testing.T) {
	_, err := NewRenderer("xml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), errors.ErrCodeUnsupportedFormat)
}

func TestTrialLine(t *testing.T) {
	r, err := NewRenderer(config.FormatText, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Trial(&buf, bench.Result{Name: "set", AverageMicros: 0.04151}))
	assert.Equal(t, "Average run for 'set': 0.042 microseconds\n", buf.String())
}

func TestStreams(t *testing.T) {
	text, _ := NewRenderer(config.FormatText, false)
	js, _ := NewRenderer(config.FormatJSON, false)
	assert.True(t, text.Streams())
	assert.False(t, js.Streams())
}

func TestRenderText(t *testing.T) {
	r, err := NewRenderer(config.FormatText, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "1,000,000 iterations")
	assert.Contains(t, out, `key "55"`)
	assert.Contains(t, out, "isolation trial")
	assert.Contains(t, out, "fastest")
	assert.Contains(t, out, "significant")
	assert.Contains(t, out, "elapsed 1.5s")
	assert.NotContains(t, out, "\x1b[", "color disabled output must not contain escapes")

	setLine := strings.Index(out, "set ")
	listLine := strings.Index(out, "list ")
	require.NotEqual(t, -1, setLine)
	require.NotEqual(t, -1, listLine)
	assert.Less(t, setLine, listLine, "fastest workload is listed first")
}

func TestRenderJSON(t *testing.T) {
	r, err := NewRenderer(config.FormatJSON, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	ranking, ok := decoded["ranking"].([]interface{})
	require.True(t, ok)
	require.Len(t, ranking, 2)
	first := ranking[0].(map[string]interface{})
	assert.Equal(t, "set", first["name"])
	assert.Equal(t, float64(1), first["position"])
}

func TestRenderYAML(t *testing.T) {
	r, err := NewRenderer(config.FormatYAML, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleReport()))

	var decoded struct {
		Options struct {
			Count int `yaml:"count"`
		} `yaml:"options"`
		Ranking []struct {
			Name     string `yaml:"name"`
			Position int    `yaml:"position"`
		} `yaml:"ranking"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 1_000_000, decoded.Options.Count)
	require.Len(t, decoded.Ranking, 2)
	assert.Equal(t, "set", decoded.Ranking[0].Name)
	assert.Equal(t, 2, decoded.Ranking[1].Position)
}

func TestVersusLabels(t *testing.T) {
	r, _ := NewRenderer(config.FormatText, false)

	assert.Equal(t, "fastest", r.versus(performance.Ranked{}))
	assert.Equal(t, "needs 2+ trials", r.versus(performance.Ranked{
		Versus: &performance.Comparison{TestType: "insufficient_data"},
	}))
	assert.Equal(t, "identical", r.versus(performance.Ranked{
		Versus: &performance.Comparison{TestType: "no_variance"},
	}))
	assert.Equal(t, "p=0.0100 significant, very large effect", r.versus(performance.Ranked{
		Versus: &performance.Comparison{TestType: "t-test", PValue: 0.01, Significant: true, EffectClass: "very_large"},
	}))
}

func TestWorkloadListing(t *testing.T) {
	r, _ := NewRenderer(config.FormatText, false)

	var buf bytes.Buffer
	require.NoError(t, r.Workloads(&buf, toggle.Workloads()))
	assert.Contains(t, buf.String(), "sorted-list")
	assert.Contains(t, buf.String(), "binary search")

	js, _ := NewRenderer(config.FormatJSON, false)
	buf.Reset()
	require.NoError(t, js.Workloads(&buf, toggle.Workloads()))
	var entries []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	assert.Len(t, entries, 4)
	assert.Equal(t, "set", entries[0]["name"])
}

func TestColorFollowsDestination(t *testing.T) {
	r, err := NewRenderer(config.FormatText, true)
	require.NoError(t, err)

	// A buffer is not a terminal, so even with color on nothing is styled.
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, sampleReport()))
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	require.NoError(t, r.Workloads(&buf, toggle.Workloads()))
	assert.NotContains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "sorted-list")
}
