// Package performance summarises benchmark trials and compares workloads.
//
// Each trial of a workload yields one average per-call time. Summaries
// describe the spread of those trial averages, and comparisons use Welch's
// t-test to decide whether two workloads differ by more than run-to-run noise.
// The distribution functions are approximations good enough for ranking
// micro-benchmarks, not a general statistics library.
package performance

import (
	"math"
)

// Summary describes the trial averages of one workload, in microseconds.
type Summary struct {
	Name        string    `json:"name" yaml:"name"`
	Samples     []float64 `json:"samples" yaml:"samples"`
	Mean        float64   `json:"mean" yaml:"mean"`
	Median      float64   `json:"median" yaml:"median"`
	StdDev      float64   `json:"std_dev" yaml:"std_dev"`
	Min         float64   `json:"min" yaml:"min"`
	Max         float64   `json:"max" yaml:"max"`
	P95         float64   `json:"p95" yaml:"p95"`
	SampleCount int       `json:"sample_count" yaml:"sample_count"`
}

// Summarize computes descriptive statistics for samples. The standard
// deviation is the sample (n-1) deviation and is zero for fewer than two
// samples.
func Summarize(name string, samples []float64) Summary {
	s := Summary{
		Name:        name,
		Samples:     append([]float64(nil), samples...),
		SampleCount: len(samples),
	}
	if len(samples) == 0 {
		return s
	}

	sorted := sortedCopy(samples)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Median = Percentile(sorted, 50)
	s.P95 = Percentile(sorted, 95)

	var sum float64
	for _, v := range samples {
		sum += v
	}
	s.Mean = sum / float64(len(samples))

	if len(samples) > 1 {
		var sq float64
		for _, v := range samples {
			d := v - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / float64(len(samples)-1))
	}

	return s
}

// variance returns the sample variance.
func (s Summary) variance() float64 {
	return s.StdDev * s.StdDev
}

// Comparison is the outcome of testing whether two workloads differ.
type Comparison struct {
	Baseline         string  `json:"baseline" yaml:"baseline"`
	Candidate        string  `json:"candidate" yaml:"candidate"`
	MeanDifference   float64 `json:"mean_difference" yaml:"mean_difference"`
	TStatistic       float64 `json:"t_statistic" yaml:"t_statistic"`
	DegreesOfFreedom float64 `json:"degrees_of_freedom" yaml:"degrees_of_freedom"`
	PValue           float64 `json:"p_value" yaml:"p_value"`
	Confidence       float64 `json:"confidence" yaml:"confidence"`
	EffectSize       float64 `json:"effect_size" yaml:"effect_size"` // Cohen's d
	EffectClass      string  `json:"effect_class" yaml:"effect_class"`
	Significant      bool    `json:"significant" yaml:"significant"`
	TestType         string  `json:"test_type" yaml:"test_type"`
}

// StatisticalValidator decides whether differences between workloads are
// statistically significant.
type StatisticalValidator struct {
	confidenceLevel float64
	minSampleSize   int
}

// NewStatisticalValidator creates a validator. confidenceLevel is e.g. 0.95.
func NewStatisticalValidator(confidenceLevel float64, minSampleSize int) *StatisticalValidator {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		confidenceLevel = 0.95
	}
	if minSampleSize < 2 {
		minSampleSize = 2
	}
	return &StatisticalValidator{
		confidenceLevel: confidenceLevel,
		minSampleSize:   minSampleSize,
	}
}

// ConfidenceLevel returns the configured confidence level.
func (sv *StatisticalValidator) ConfidenceLevel() float64 {
	return sv.confidenceLevel
}

// Compare runs Welch's t-test between baseline and candidate. When
// numComparisons is greater than one the p-value is Bonferroni corrected.
func (sv *StatisticalValidator) Compare(baseline, candidate Summary, numComparisons int) Comparison {
	c := Comparison{
		Baseline:       baseline.Name,
		Candidate:      candidate.Name,
		MeanDifference: candidate.Mean - baseline.Mean,
		PValue:         1,
	}

	if baseline.SampleCount < sv.minSampleSize || candidate.SampleCount < sv.minSampleSize {
		c.TestType = "insufficient_data"
		c.EffectClass = "unknown"
		return c
	}

	na := float64(baseline.SampleCount)
	nb := float64(candidate.SampleCount)
	va := baseline.variance() / na
	vb := candidate.variance() / nb
	standardError := math.Sqrt(va + vb)

	if standardError == 0 {
		c.TestType = "no_variance"
		if math.Abs(c.MeanDifference) < 1e-12 {
			c.EffectClass = "negligible"
			return c
		}
		c.PValue = 0
		c.Confidence = 1
		c.EffectClass = "very_large"
		c.Significant = true
		return c
	}

	c.TStatistic = c.MeanDifference / standardError

	// Welch-Satterthwaite degrees of freedom
	df := (va + vb) * (va + vb) / (va*va/(na-1) + vb*vb/(nb-1))
	c.DegreesOfFreedom = df

	if df >= 30 {
		c.TestType = "z-test"
		c.PValue = sv.calculateZPValue(c.TStatistic)
	} else {
		c.TestType = "t-test"
		c.PValue = sv.calculateTPValue(math.Abs(c.TStatistic), int(math.Round(df)))
	}

	if numComparisons > 1 {
		c.PValue = math.Min(1.0, c.PValue*float64(numComparisons))
	}
	c.Confidence = math.Max(0.0, math.Min(1.0, 1.0-c.PValue))

	pooled := math.Sqrt((baseline.variance() + candidate.variance()) / 2)
	if pooled > 0 {
		c.EffectSize = c.MeanDifference / pooled
	}
	c.EffectClass = sv.ClassifyEffectSize(c.EffectSize)
	c.Significant = c.Confidence >= sv.confidenceLevel

	return c
}

// calculateTPValue calculates a two-tailed p-value using a t-distribution
// approximation.
func (sv *StatisticalValidator) calculateTPValue(tStat float64, df int) float64 {
	if df <= 0 {
		return 0.5
	}

	if df >= 30 {
		return sv.calculateZPValue(tStat)
	}

	if df == 1 {
		// t with one degree of freedom is the Cauchy distribution
		pValue := 1.0 - 2.0/math.Pi*math.Atan(math.Abs(tStat))
		return math.Max(0.001, pValue)
	}

	// Widen the tails for small df before falling back to the normal curve
	adjustment := 1.0 + (tStat*tStat)/(4.0*float64(df))
	normalizedT := tStat / math.Sqrt(adjustment)

	return sv.calculateZPValue(normalizedT)
}

// calculateZPValue calculates a two-tailed p-value from the standard normal
// distribution.
func (sv *StatisticalValidator) calculateZPValue(zStat float64) float64 {
	absZ := math.Abs(zStat)

	if absZ > 6.0 {
		return 1e-9
	}

	if absZ <= 3.0 {
		// Abramowitz and Stegun 7.1.26 for erfc(z/sqrt(2))
		x := absZ / math.Sqrt2
		a1 := 0.254829592
		a2 := -0.284496736
		a3 := 1.421413741
		a4 := -1.453152027
		a5 := 1.061405429
		p := 0.3275911

		t := 1.0 / (1.0 + p*x)
		erfcApprox := t * (a1 + t*(a2+t*(a3+t*(a4+t*a5)))) * math.Exp(-x*x)

		return math.Max(1e-10, math.Min(1.0, erfcApprox))
	}

	asymptotic := (2.0 / (absZ * math.Sqrt(2.0*math.Pi))) * math.Exp(-0.5*absZ*absZ)
	return math.Max(1e-10, math.Min(1.0, asymptotic))
}

// ClassifyEffectSize classifies practical significance using Cohen's d.
func (sv *StatisticalValidator) ClassifyEffectSize(effectSize float64) string {
	absEffect := math.Abs(effectSize)

	switch {
	case absEffect < 0.2:
		return "negligible"
	case absEffect < 0.5:
		return "small"
	case absEffect < 0.8:
		return "medium"
	case absEffect < 1.2:
		return "large"
	default:
		return "very_large"
	}
}
