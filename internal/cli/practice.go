package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/attempt"
	"github.com/mmiprep/trainer/internal/inference"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
	"github.com/mmiprep/trainer/internal/srs"
)

type cardSelector interface {
	SelectNextCard(ctx context.Context, userID string) (*question.Question, error)
}

type reviewRecorder interface {
	RecordReview(ctx context.Context, userID, questionID string, quality int) (srs.Record, error)
}

type skillUpdater interface {
	UpdateSkillsFromRubric(ctx context.Context, userID string, rubric skill.Rubric) error
}

// PracticeCLI manages the interactive practice session
type PracticeCLI struct {
	*InteractiveSessionCLI
	userID    string
	mode      attempt.Mode
	catalog   archetype.Catalog
	selector  cardSelector
	scheduler reviewRecorder
	estimator skillUpdater
	attempts  attempt.Repository
	scorer    inference.Client
}

// NewPracticeCLI creates a new practice interactive CLI
func NewPracticeCLI(
	userID string,
	mode attempt.Mode,
	catalog archetype.Catalog,
	selector cardSelector,
	scheduler reviewRecorder,
	estimator skillUpdater,
	attempts attempt.Repository,
	scorer inference.Client,
) *PracticeCLI {
	return &PracticeCLI{
		InteractiveSessionCLI: newInteractiveSessionCLI(),
		userID:                userID,
		mode:                  mode,
		catalog:               catalog,
		selector:              selector,
		scheduler:             scheduler,
		estimator:             estimator,
		attempts:              attempts,
		scorer:                scorer,
	}
}

func (r *PracticeCLI) Session(ctx context.Context) error {
	card, err := r.selector.SelectNextCard(ctx, r.userID)
	if err != nil {
		return fmt.Errorf("selector.SelectNextCard() > %w", err)
	}
	if card == nil {
		fmt.Fprintln(r.stdoutWriter, "No questions available. Import a question pack first.")
		return errEnd
	}

	arch, ok := r.catalog.Get(card.Archetype)
	if !ok {
		return fmt.Errorf("unknown archetype %q for question %s", card.Archetype, card.ID)
	}

	fmt.Fprintln(r.stdoutWriter)
	_, _ = r.bold.Fprintf(r.stdoutWriter, "[%s] difficulty %d\n", arch.Name, card.DifficultyBase)
	_, _ = r.italic.Fprintf(r.stdoutWriter, "%s\n\n", arch.Goal)
	fmt.Fprintf(r.stdoutWriter, "%s\n\n", card.PromptText)

	started := time.Now()
	request := inference.ScoreAnswerRequest{
		Archetype:     arch.Key,
		ArchetypeGoal: arch.Goal,
		PromptText:    card.PromptText,
		HumanMarkers:  arch.HumanMarkers,
		CommonTraps:   arch.CommonTraps,
	}

	switch r.mode {
	case attempt.ModeGuided:
		for _, step := range arch.Steps {
			_, _ = r.bold.Fprintf(r.stdoutWriter, "%s\n", step.Prompt)
			fmt.Fprintln(r.stdoutWriter, "(finish with an empty line)")
			answer, err := r.readAnswer()
			if err != nil {
				return err
			}
			request.StepAnswers = append(request.StepAnswers, inference.StepAnswer{
				StepID:     step.ID,
				CoachFocus: step.CoachFocus,
				Answer:     answer,
			})
			request.Transcript += answer + "\n"
		}
	default:
		fmt.Fprintln(r.stdoutWriter, "Your answer (finish with an empty line):")
		answer, err := r.readAnswer()
		if err != nil {
			return err
		}
		request.Transcript = answer
		request.TimingSeconds = map[string]int{
			"total": int(time.Since(started).Seconds()),
		}
	}

	result, err := r.scorer.ScoreAnswer(ctx, request)
	if err != nil {
		return fmt.Errorf("scorer.ScoreAnswer() > %w", err)
	}

	rubric, err := skill.NewRubric(result.Rubric.Scores)
	if err != nil {
		return fmt.Errorf("skill.NewRubric() > %w", err)
	}

	quality := srs.QualityFromScores(rubric)
	record, err := r.scheduler.RecordReview(ctx, r.userID, card.ID, quality)
	if err != nil {
		return fmt.Errorf("scheduler.RecordReview() > %w", err)
	}
	if err := r.estimator.UpdateSkillsFromRubric(ctx, r.userID, rubric); err != nil {
		return fmt.Errorf("estimator.UpdateSkillsFromRubric() > %w", err)
	}

	rubricJSON, err := json.Marshal(result.Rubric)
	if err != nil {
		return fmt.Errorf("json.Marshal(rubric) > %w", err)
	}
	if err := r.attempts.Create(ctx, &attempt.Attempt{
		UserID:         r.userID,
		QuestionID:     card.ID,
		Mode:           r.mode,
		DifficultyUsed: card.DifficultyBase,
		TranscriptText: request.Transcript,
		RubricJSON:     string(rubricJSON),
	}); err != nil {
		return fmt.Errorf("attempts.Create() > %w", err)
	}

	r.showRubric(result.Rubric, quality, record)
	return nil
}

func (r *PracticeCLI) showRubric(rubric inference.FinalRubric, quality int, record srs.Record) {
	fmt.Fprintln(r.stdoutWriter)
	_, _ = r.bold.Fprintln(r.stdoutWriter, "Feedback")
	for _, name := range skill.Names() {
		score, ok := rubric.Scores[string(name)]
		if !ok {
			continue
		}
		scoreColor := r.red
		switch {
		case score >= 4:
			scoreColor = r.green
		case score >= 3:
			scoreColor = r.yellow
		}
		fmt.Fprintf(r.stdoutWriter, "  %-14s ", name)
		_, _ = scoreColor.Fprintf(r.stdoutWriter, "%.1f\n", score)
	}
	for _, s := range rubric.Strengths {
		_, _ = r.green.Fprintf(r.stdoutWriter, "  + %s\n", s)
	}
	for _, s := range rubric.Improvements {
		_, _ = r.yellow.Fprintf(r.stdoutWriter, "  ~ %s\n", s)
	}
	for _, s := range rubric.TrapsObserved {
		_, _ = r.red.Fprintf(r.stdoutWriter, "  ! %s\n", s)
	}
	if rubric.Summary != "" {
		fmt.Fprintf(r.stdoutWriter, "\n%s\n", rubric.Summary)
	}
	fmt.Fprintf(r.stdoutWriter, "\nQuality %d, next review on %s (interval %d days)\n\n",
		quality, record.DueDate.Format(time.DateOnly), record.IntervalDays)
}
