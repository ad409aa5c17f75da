package srs

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
)

const (
	// dueReviewProbability is the chance a selection round starts from due
	// reviews rather than weak-skill drilling. Tunable policy constant.
	dueReviewProbability = 0.70
	// skillWeightThreshold is the minimum archetype skill weight that counts
	// as "meaningfully targets this skill". Tunable policy constant.
	skillWeightThreshold = 1.1
	// dueWindowLimit caps the candidate window of due records.
	dueWindowLimit = 20
	// newWindowLimit caps the candidate window of never-reviewed questions.
	newWindowLimit = 10
)

// WeakestSkillFinder reports the skill a user is currently weakest in.
type WeakestSkillFinder interface {
	WeakestSkill(ctx context.Context, userID string) (skill.Name, error)
}

// Selector picks the next practice question for a user by blending due
// reviews with weakest-skill targeted practice.
type Selector struct {
	records   Repository
	questions question.Repository
	skills    WeakestSkillFinder
	catalog   archetype.Catalog
	rand      *rand.Rand
	now       func() time.Time
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithSelectorRand overrides the random source, so tests can force a branch.
func WithSelectorRand(r *rand.Rand) SelectorOption {
	return func(s *Selector) {
		s.rand = r
	}
}

// WithSelectorClock overrides the time source, for tests.
func WithSelectorClock(now func() time.Time) SelectorOption {
	return func(s *Selector) {
		s.now = now
	}
}

// NewSelector creates a Selector.
func NewSelector(
	records Repository,
	questions question.Repository,
	skills WeakestSkillFinder,
	catalog archetype.Catalog,
	opts ...SelectorOption,
) *Selector {
	s := &Selector{
		records:   records,
		questions: questions,
		skills:    skills,
		catalog:   catalog,
		rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectNextCard picks the next practice question for a user.
//
// With probability 0.70 it serves a due review when one exists. Otherwise it
// targets the user's weakest skill: questions from archetypes whose weight
// for that skill meets the threshold. When that yields nothing it falls back
// through due reviews, never-reviewed questions, and finally any question at
// all. nil without error means the catalog is empty.
func (s *Selector) SelectNextCard(ctx context.Context, userID string) (*question.Question, error) {
	if s.rand.Float64() < dueReviewProbability {
		picked, err := s.pickDue(ctx, userID)
		if err != nil {
			return nil, err
		}
		if picked != nil {
			return picked, nil
		}
	}

	weakest, err := s.skills.WeakestSkill(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("skills.WeakestSkill() > %w", err)
	}

	targetArchetypes := s.catalog.KeysForSkill(weakest, skillWeightThreshold)
	if len(targetArchetypes) > 0 {
		candidates, err := s.questions.FindByArchetypes(ctx, targetArchetypes)
		if err != nil {
			return nil, fmt.Errorf("questions.FindByArchetypes() > %w", err)
		}
		if len(candidates) > 0 {
			return &candidates[s.rand.Intn(len(candidates))], nil
		}
	}

	// Fallback chain: due reviews, then new questions, then anything.
	picked, err := s.pickDue(ctx, userID)
	if err != nil {
		return nil, err
	}
	if picked != nil {
		return picked, nil
	}

	newQuestions, err := s.questions.FindUnscheduled(ctx, userID, newWindowLimit)
	if err != nil {
		return nil, fmt.Errorf("questions.FindUnscheduled() > %w", err)
	}
	if len(newQuestions) > 0 {
		return &newQuestions[s.rand.Intn(len(newQuestions))], nil
	}

	all, err := s.questions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("questions.FindAll() > %w", err)
	}
	if len(all) > 0 {
		return &all[s.rand.Intn(len(all))], nil
	}
	return nil, nil
}

// pickDue returns one due question chosen uniformly from the due window, or
// nil when nothing is due.
func (s *Selector) pickDue(ctx context.Context, userID string) (*question.Question, error) {
	due, err := s.records.FindDue(ctx, userID, Today(s.now()), dueWindowLimit)
	if err != nil {
		return nil, fmt.Errorf("records.FindDue() > %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	record := due[s.rand.Intn(len(due))]
	picked, err := s.questions.FindByID(ctx, record.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("questions.FindByID(%s) > %w", record.QuestionID, err)
	}
	return picked, nil
}
