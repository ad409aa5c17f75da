package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiprep/trainer/internal/skill"
)

func TestQualityFromScores(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
		want   int
	}{
		{name: "empty rubric maps to a lenient 2", scores: nil, want: 2},
		{name: "mean below 1", scores: map[string]float64{"clarity": 0.5}, want: 0},
		{name: "mean exactly 1", scores: map[string]float64{"clarity": 1}, want: 1},
		{name: "mean just under 2", scores: map[string]float64{"clarity": 1, "empathy": 2.8}, want: 1},
		{name: "mean exactly 2", scores: map[string]float64{"clarity": 2}, want: 2},
		{name: "mean at 2.5 boundary", scores: map[string]float64{"clarity": 2, "empathy": 3}, want: 3},
		{name: "mean just under 3", scores: map[string]float64{"clarity": 2.9}, want: 3},
		{name: "mean exactly 3", scores: map[string]float64{"clarity": 3}, want: 4},
		{name: "mean just under 4", scores: map[string]float64{"clarity": 4, "empathy": 3.8}, want: 4},
		{name: "mean exactly 4", scores: map[string]float64{"clarity": 4}, want: 5},
		{name: "perfect answer", scores: map[string]float64{"clarity": 5, "empathy": 5, "reasoning": 5}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rubric, err := skill.NewRubric(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.want, QualityFromScores(rubric))
		})
	}
}
