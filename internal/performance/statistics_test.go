package performance

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	s := Summarize("set", []float64{5, 1, 4, 2, 3})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", s.Mean, 3},
		{"median", s.Median, 3},
		{"min", s.Min, 1},
		{"max", s.Max, 5},
		{"p95", s.P95, 4.8},
		{"stddev", s.StdDev, math.Sqrt(2.5)},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if s.SampleCount != 5 {
		t.Errorf("SampleCount = %d, want 5", s.SampleCount)
	}
	if s.Samples[0] != 5 {
		t.Errorf("samples should keep input order, got %v", s.Samples)
	}
}

func TestSummarize_EdgeCases(t *testing.T) {
	empty := Summarize("empty", nil)
	if empty.SampleCount != 0 || empty.Mean != 0 || empty.StdDev != 0 {
		t.Errorf("empty summary should be zero, got %+v", empty)
	}

	single := Summarize("single", []float64{0.25})
	if single.Mean != 0.25 || single.Median != 0.25 || single.P95 != 0.25 {
		t.Errorf("single sample summary wrong: %+v", single)
	}
	if single.StdDev != 0 {
		t.Errorf("single sample stddev = %v, want 0", single.StdDev)
	}
}

func TestSummarize_DoesNotAliasInput(t *testing.T) {
	samples := []float64{1, 2, 3}
	s := Summarize("alias", samples)
	samples[0] = 100
	if s.Samples[0] != 1 {
		t.Errorf("summary samples changed with input: %v", s.Samples)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty", nil, 50, 0},
		{"single", []float64{7}, 99, 7},
		{"midpoint interpolation", []float64{10, 20}, 50, 15},
		{"exact rank", []float64{1, 2, 3}, 50, 2},
		{"lower bound", []float64{1, 2, 3}, 0, 1},
		{"upper bound", []float64{1, 2, 3}, 100, 3},
		{"over upper bound", []float64{1, 2, 3}, 150, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentile(tt.sorted, tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestStatisticalValidator_Compare(t *testing.T) {
	validator := NewStatisticalValidator(0.95, 2)

	tests := []struct {
		name              string
		baseline          []float64
		candidate         []float64
		expectSignificant bool
		expectTestType    string
		description       string
	}{
		{
			name:              "clearly slower candidate",
			baseline:          []float64{1.0, 1.1, 0.9, 1.0, 1.05, 0.95},
			candidate:         []float64{2.0, 2.1, 1.9, 2.0, 2.05, 1.95},
			expectSignificant: true,
			expectTestType:    "t-test",
			description:       "Doubling the mean with tight spread must be significant",
		},
		{
			name:              "overlapping noisy samples",
			baseline:          []float64{1, 3, 1, 3},
			candidate:         []float64{1.1, 2.9, 1.2, 3.0},
			expectSignificant: false,
			expectTestType:    "t-test",
			description:       "Small shift inside large variance is noise",
		},
		{
			name:              "identical constant samples",
			baseline:          []float64{2, 2, 2},
			candidate:         []float64{2, 2, 2},
			expectSignificant: false,
			expectTestType:    "no_variance",
			description:       "No spread and no difference",
		},
		{
			name:              "different constant samples",
			baseline:          []float64{2, 2, 2},
			candidate:         []float64{3, 3, 3},
			expectSignificant: true,
			expectTestType:    "no_variance",
			description:       "No spread but a real difference",
		},
		{
			name:              "single trial",
			baseline:          []float64{1},
			candidate:         []float64{5},
			expectSignificant: false,
			expectTestType:    "insufficient_data",
			description:       "One trial per side cannot support inference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validator.Compare(Summarize("base", tt.baseline), Summarize("cand", tt.candidate), 1)

			if c.Significant != tt.expectSignificant {
				t.Errorf("%s: significant = %v, want %v (p=%v)", tt.description, c.Significant, tt.expectSignificant, c.PValue)
			}
			if c.TestType != tt.expectTestType {
				t.Errorf("test type = %q, want %q", c.TestType, tt.expectTestType)
			}
			if c.Confidence < 0 || c.Confidence > 1 {
				t.Errorf("confidence out of range: %v", c.Confidence)
			}
			if math.IsInf(c.EffectSize, 0) || math.IsNaN(c.EffectSize) {
				t.Errorf("effect size must be finite, got %v", c.EffectSize)
			}
		})
	}
}

func TestStatisticalValidator_BonferroniCorrection(t *testing.T) {
	validator := NewStatisticalValidator(0.95, 2)
	base := Summarize("base", []float64{1, 1.2, 0.8, 1.1, 0.9})
	cand := Summarize("cand", []float64{1.3, 1.5, 1.1, 1.4, 1.2})

	single := validator.Compare(base, cand, 1)
	multiple := validator.Compare(base, cand, 5)

	want := math.Min(1, single.PValue*5)
	if math.Abs(multiple.PValue-want) > 1e-12 {
		t.Errorf("corrected p = %v, want %v", multiple.PValue, want)
	}
	if multiple.Confidence > single.Confidence {
		t.Errorf("correction must not raise confidence: %v > %v", multiple.Confidence, single.Confidence)
	}
}

func TestStatisticalValidator_ZPValue(t *testing.T) {
	validator := NewStatisticalValidator(0.95, 2)

	tests := []struct {
		z    float64
		want float64
	}{
		{0, 1.0},
		{1.96, 0.05},
		{2.576, 0.01},
		{-1.96, 0.05},
	}
	for _, tt := range tests {
		if got := validator.calculateZPValue(tt.z); math.Abs(got-tt.want) > 0.002 {
			t.Errorf("calculateZPValue(%v) = %v, want about %v", tt.z, got, tt.want)
		}
	}

	if got := validator.calculateZPValue(10); got > 1e-8 {
		t.Errorf("extreme z should give tiny p, got %v", got)
	}
}

func TestStatisticalValidator_TPValueIsWiderThanNormal(t *testing.T) {
	validator := NewStatisticalValidator(0.95, 2)

	for _, df := range []int{2, 5, 10} {
		tp := validator.calculateTPValue(2.0, df)
		zp := validator.calculateZPValue(2.0)
		if tp <= zp {
			t.Errorf("df=%d: t p-value %v should exceed normal p-value %v", df, tp, zp)
		}
	}

	if got := validator.calculateTPValue(0, 1); math.Abs(got-1) > 1e-9 {
		t.Errorf("Cauchy p-value at t=0 = %v, want 1", got)
	}
}

func TestStatisticalValidator_EffectSizeClassification(t *testing.T) {
	validator := NewStatisticalValidator(0.95, 2)

	tests := []struct {
		effect float64
		want   string
	}{
		{0.1, "negligible"},
		{-0.3, "small"},
		{0.6, "medium"},
		{1.0, "large"},
		{-2.5, "very_large"},
	}
	for _, tt := range tests {
		if got := validator.ClassifyEffectSize(tt.effect); got != tt.want {
			t.Errorf("ClassifyEffectSize(%v) = %q, want %q", tt.effect, got, tt.want)
		}
	}
}

func TestNewStatisticalValidator_Defaults(t *testing.T) {
	v := NewStatisticalValidator(1.5, 0)
	if v.ConfidenceLevel() != 0.95 {
		t.Errorf("invalid level should fall back to 0.95, got %v", v.ConfidenceLevel())
	}
	if v.minSampleSize != 2 {
		t.Errorf("min sample size should be at least 2, got %d", v.minSampleSize)
	}
}
