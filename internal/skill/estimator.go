package skill

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

const (
	// DefaultAlpha is the EMA smoothing factor: the weight of the newest
	// observation against the running average.
	DefaultAlpha = 0.3

	// neutralEMA seeds the average for a never-assessed skill. The midpoint
	// of the 0-5 scale, not zero, so a first assessment is not diluted by a
	// "terrible" prior.
	neutralEMA = 2.5
)

// Estimator maintains per-user skill score estimates as exponential moving
// averages over rubric scores.
type Estimator struct {
	repo  Repository
	alpha float64
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithAlpha overrides the EMA smoothing factor.
func WithAlpha(alpha float64) EstimatorOption {
	return func(e *Estimator) {
		e.alpha = alpha
	}
}

// NewEstimator creates an Estimator with the default smoothing factor.
func NewEstimator(repo Repository, opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		repo:  repo,
		alpha: DefaultAlpha,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// UpdateSkill folds one new 0-5 score into the skill's EMA and increments the
// attempt count. The stored EMA is rounded to 3 decimal places.
func (e *Estimator) UpdateSkill(ctx context.Context, userID string, name Name, newScore float64) error {
	current, err := e.repo.Find(ctx, userID, name)
	if err != nil {
		return fmt.Errorf("repo.Find(%s) > %w", name, err)
	}

	oldEMA := neutralEMA
	attempts := 0
	if current != nil {
		attempts = current.NAttempts
		if current.EMAScore.Valid {
			oldEMA = current.EMAScore.Float64
		}
	}

	ema := e.alpha*newScore + (1-e.alpha)*oldEMA
	ema = math.Round(ema*1000) / 1000

	if err := e.repo.Upsert(ctx, State{
		UserID:    userID,
		SkillName: name,
		EMAScore:  sql.NullFloat64{Float64: ema, Valid: true},
		NAttempts: attempts + 1,
	}); err != nil {
		return fmt.Errorf("repo.Upsert(%s) > %w", name, err)
	}
	return nil
}

// UpdateSkillsFromRubric applies UpdateSkill once per canonical skill present
// in the rubric. Skills absent from the rubric are skipped without error.
func (e *Estimator) UpdateSkillsFromRubric(ctx context.Context, userID string, rubric Rubric) error {
	for _, name := range Names() {
		score, ok := rubric.Score(name)
		if !ok {
			continue
		}
		if err := e.UpdateSkill(ctx, userID, name, score); err != nil {
			return fmt.Errorf("UpdateSkill(%s) > %w", name, err)
		}
	}
	return nil
}

// WeakestSkill returns the skill with the lowest EMA for a user. A skill that
// has never been assessed sorts below any real score, so skill gaps the user
// has not attempted yet surface first.
func (e *Estimator) WeakestSkill(ctx context.Context, userID string) (Name, error) {
	states, err := e.repo.FindAll(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("repo.FindAll() > %w", err)
	}

	effectiveScore := func(state State) float64 {
		if !state.EMAScore.Valid {
			return -1
		}
		return state.EMAScore.Float64
	}

	weakest := Names()[0]
	lowest := effectiveScore(states[weakest])
	for _, name := range Names()[1:] {
		if score := effectiveScore(states[name]); score < lowest {
			weakest = name
			lowest = score
		}
	}
	return weakest, nil
}
