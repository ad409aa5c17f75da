// Package skill provides skill score tracking with exponential moving averages.
package skill

import "fmt"

// Name identifies one of the fixed skills assessed by the rubric.
type Name string

const (
	Structure     Name = "structure"
	Empathy       Name = "empathy"
	Perspective   Name = "perspective"
	Reasoning     Name = "reasoning"
	Actionability Name = "actionability"
	Clarity       Name = "clarity"
)

// Names returns the canonical skill names in their fixed order.
func Names() []Name {
	return []Name{Structure, Empathy, Perspective, Reasoning, Actionability, Clarity}
}

// Rubric is a partial mapping from skill name to a 0-5 score. A skill absent
// from the rubric is a representable state: Score reports presence explicitly.
type Rubric struct {
	scores map[Name]float64
}

// NewRubric builds a Rubric from raw scorer output. Skill names outside the
// canonical set are dropped, since the scorer is free-form and may invent
// keys; an out-of-range score on a known skill is rejected so a malformed
// rubric cannot reach the estimator. Missing skills are allowed.
func NewRubric(scores map[string]float64) (Rubric, error) {
	known := make(map[Name]struct{}, len(Names()))
	for _, name := range Names() {
		known[name] = struct{}{}
	}

	result := make(map[Name]float64, len(scores))
	for rawName, score := range scores {
		name := Name(rawName)
		if _, ok := known[name]; !ok {
			continue
		}
		if score < 0 || score > 5 {
			return Rubric{}, fmt.Errorf("score %v for skill %q out of range [0, 5]", score, rawName)
		}
		result[name] = score
	}
	return Rubric{scores: result}, nil
}

// Score returns the score for a skill and whether the rubric contains it.
func (r Rubric) Score(name Name) (float64, bool) {
	score, ok := r.scores[name]
	return score, ok
}

// Len returns the number of skills present in the rubric.
func (r Rubric) Len() int {
	return len(r.scores)
}

// Mean returns the arithmetic mean of all present scores.
// ok is false when the rubric is empty.
func (r Rubric) Mean() (mean float64, ok bool) {
	if len(r.scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, score := range r.scores {
		sum += score
	}
	return sum / float64(len(r.scores)), true
}
