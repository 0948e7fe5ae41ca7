package performance

import (
	"sort"
)

// Ranked is a summary placed relative to the fastest workload.
type Ranked struct {
	Summary  `yaml:",inline"`
	Position int     `json:"position" yaml:"position"`
	Relative float64 `json:"relative" yaml:"relative"` // mean / fastest mean
	// Versus compares this workload against the fastest one. Nil for the
	// fastest workload itself.
	Versus *Comparison `json:"versus,omitempty" yaml:"versus,omitempty"`
}

// Rank orders summaries by mean ascending. Ties keep their input order.
// When validator is non-nil every workload after the first is compared with
// the fastest, Bonferroni corrected for the number of comparisons made.
func Rank(summaries []Summary, validator *StatisticalValidator) []Ranked {
	ordered := make([]Summary, len(summaries))
	copy(ordered, summaries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Mean < ordered[j].Mean
	})

	ranked := make([]Ranked, len(ordered))
	if len(ordered) == 0 {
		return ranked
	}

	fastest := ordered[0]
	comparisons := len(ordered) - 1
	for i, s := range ordered {
		r := Ranked{Summary: s, Position: i + 1, Relative: 1}
		if fastest.Mean > 0 {
			r.Relative = s.Mean / fastest.Mean
		}
		if i > 0 && validator != nil {
			c := validator.Compare(fastest, s, comparisons)
			r.Versus = &c
		}
		ranked[i] = r
	}

	return ranked
}
