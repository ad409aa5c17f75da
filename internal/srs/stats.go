package srs

import (
	"context"
	"fmt"
	"time"

	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
)

const statsWindowLimit = 1000

// StudyStats summarizes a user's current study state.
type StudyStats struct {
	DueCount     int
	NewCount     int
	Skills       map[skill.Name]skill.State
	WeakestSkill skill.Name
	HasSkillData bool
}

// StatsCollector builds study statistics from scheduling and skill state.
type StatsCollector struct {
	records   Repository
	questions question.Repository
	skills    skill.Repository
	estimator *skill.Estimator
	now       func() time.Time
}

// StatsCollectorOption configures a StatsCollector.
type StatsCollectorOption func(*StatsCollector)

// WithStatsClock overrides the time source, for tests.
func WithStatsClock(now func() time.Time) StatsCollectorOption {
	return func(c *StatsCollector) {
		c.now = now
	}
}

// NewStatsCollector creates a StatsCollector.
func NewStatsCollector(
	records Repository,
	questions question.Repository,
	skills skill.Repository,
	estimator *skill.Estimator,
	opts ...StatsCollectorOption,
) *StatsCollector {
	c := &StatsCollector{
		records:   records,
		questions: questions,
		skills:    skills,
		estimator: estimator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StudyStats returns the user's due/new counts, per-skill EMA state, and
// weakest skill.
func (c *StatsCollector) StudyStats(ctx context.Context, userID string) (StudyStats, error) {
	due, err := c.records.FindDue(ctx, userID, Today(c.now()), statsWindowLimit)
	if err != nil {
		return StudyStats{}, fmt.Errorf("records.FindDue() > %w", err)
	}

	newQuestions, err := c.questions.FindUnscheduled(ctx, userID, statsWindowLimit)
	if err != nil {
		return StudyStats{}, fmt.Errorf("questions.FindUnscheduled() > %w", err)
	}

	skills, err := c.skills.FindAll(ctx, userID)
	if err != nil {
		return StudyStats{}, fmt.Errorf("skills.FindAll() > %w", err)
	}

	weakest, err := c.estimator.WeakestSkill(ctx, userID)
	if err != nil {
		return StudyStats{}, fmt.Errorf("estimator.WeakestSkill() > %w", err)
	}

	hasSkillData := false
	for _, state := range skills {
		if state.NAttempts > 0 {
			hasSkillData = true
			break
		}
	}

	return StudyStats{
		DueCount:     len(due),
		NewCount:     len(newQuestions),
		Skills:       skills,
		WeakestSkill: weakest,
		HasSkillData: hasSkillData,
	}, nil
}
