package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI scoring operations
type Client interface {
	ScoreAnswer(ctx context.Context, params ScoreAnswerRequest) (ScoreAnswerResponse, error)
}

// ScoreAnswerRequest holds everything the grader needs to evaluate one answer.
type ScoreAnswerRequest struct {
	Archetype     string         `json:"archetype"`
	ArchetypeGoal string         `json:"archetype_goal"`
	PromptText    string         `json:"prompt_text"`
	Transcript    string         `json:"transcript"`
	HumanMarkers  []string       `json:"human_markers,omitempty"`
	CommonTraps   []string       `json:"common_traps,omitempty"`
	StepAnswers   []StepAnswer   `json:"step_answers,omitempty"`
	TimingSeconds map[string]int `json:"timing_seconds,omitempty"`
}

// StepAnswer is the answer text for one coached step of a guided session.
type StepAnswer struct {
	StepID     string `json:"step_id"`
	CoachFocus string `json:"coach_focus,omitempty"`
	Answer     string `json:"answer"`
}

// ScoreAnswerResponse carries the rubric the grader produced.
type ScoreAnswerResponse struct {
	Rubric FinalRubric
}

// FinalRubric is the grader's per-skill assessment of one answer.
// Scores are on a 0-5 scale.
type FinalRubric struct {
	Scores        map[string]float64 `json:"scores"`
	Strengths     []string           `json:"strengths,omitempty"`
	Improvements  []string           `json:"improvements,omitempty"`
	TrapsObserved []string           `json:"traps_observed,omitempty"`
	Summary       string             `json:"summary,omitempty"`
}

const (
	DefaultMaxRetryAttempts = 3
)
