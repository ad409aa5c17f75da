package srs

import "github.com/mmiprep/trainer/internal/skill"

// QualityFromScores reduces a multi-dimension rubric to the single 0-5
// quality signal the scheduler consumes. An empty rubric maps to a lenient 2.
//
// The buckets are deliberately uneven: the bands around the 2.5-3.0 pass
// boundary are narrow so the pass/fail line is more sensitive there. The
// breakpoints are part of the scheduling contract and must not drift.
func QualityFromScores(rubric skill.Rubric) int {
	avg, ok := rubric.Mean()
	if !ok {
		return 2
	}

	switch {
	case avg < 1.0:
		return 0
	case avg < 2.0:
		return 1
	case avg < 2.5:
		return 2
	case avg < 3.0:
		return 3
	case avg < 4.0:
		return 4
	default:
		return 5
	}
}
