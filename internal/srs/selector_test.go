package srs

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/question"
	"github.com/mmiprep/trainer/internal/skill"
)

type fakeRecordRepository struct {
	Repository

	due []Record
}

func (f *fakeRecordRepository) FindDue(_ context.Context, _ string, _ time.Time, _ int) ([]Record, error) {
	return f.due, nil
}

type fakeQuestionRepository struct {
	question.Repository

	byID         map[string]*question.Question
	byArchetype  map[string][]question.Question
	unscheduled  []question.Question
	allQuestions []question.Question
}

func (f *fakeQuestionRepository) FindByID(_ context.Context, id string) (*question.Question, error) {
	return f.byID[id], nil
}

func (f *fakeQuestionRepository) FindByArchetypes(_ context.Context, archetypes []string) ([]question.Question, error) {
	var questions []question.Question
	for _, key := range archetypes {
		questions = append(questions, f.byArchetype[key]...)
	}
	return questions, nil
}

func (f *fakeQuestionRepository) FindUnscheduled(_ context.Context, _ string, _ int) ([]question.Question, error) {
	return f.unscheduled, nil
}

func (f *fakeQuestionRepository) FindAll(_ context.Context) ([]question.Question, error) {
	return f.allQuestions, nil
}

type fakeWeakestSkillFinder struct {
	weakest skill.Name
}

func (f *fakeWeakestSkillFinder) WeakestSkill(_ context.Context, _ string) (skill.Name, error) {
	return f.weakest, nil
}

func selectorCatalog() archetype.Catalog {
	return archetype.NewCatalog([]archetype.Archetype{
		{
			Key:          "ethical_dilemma",
			SkillWeights: map[skill.Name]float64{skill.Reasoning: 1.5, skill.Empathy: 1.0},
		},
		{
			Key:          "roleplay",
			SkillWeights: map[skill.Name]float64{skill.Empathy: 1.5, skill.Reasoning: 0.8},
		},
	})
}

// firstFloatRand returns a rand whose first Float64 call is below (or above)
// the due-review probability, so tests can force the branch taken.
//
// With source seed 1 the first Float64 is ~0.6046 (due branch); with seed 3
// it is ~0.7199 (weak-skill branch).
const (
	dueBranchSeed       = 1
	weakSkillBranchSeed = 3
)

func TestSelector_SelectNextCard(t *testing.T) {
	dueQuestion := question.Question{ID: "q-due", Archetype: "ethical_dilemma"}
	reasoningQuestion := question.Question{ID: "q-reasoning", Archetype: "ethical_dilemma"}
	empathyQuestion := question.Question{ID: "q-empathy", Archetype: "roleplay"}
	newQuestion := question.Question{ID: "q-new", Archetype: "roleplay"}

	tests := []struct {
		name      string
		seed      int64
		records   *fakeRecordRepository
		questions *fakeQuestionRepository
		weakest   skill.Name

		wantID  string
		wantNil bool
	}{
		{
			name: "due branch serves a due review",
			seed: dueBranchSeed,
			records: &fakeRecordRepository{
				due: []Record{{UserID: "user-1", QuestionID: "q-due"}},
			},
			questions: &fakeQuestionRepository{
				byID: map[string]*question.Question{"q-due": &dueQuestion},
			},
			weakest: skill.Reasoning,
			wantID:  "q-due",
		},
		{
			name:    "weak-skill branch targets archetypes weighted for the weakest skill",
			seed:    weakSkillBranchSeed,
			records: &fakeRecordRepository{},
			questions: &fakeQuestionRepository{
				byArchetype: map[string][]question.Question{
					"ethical_dilemma": {reasoningQuestion},
					"roleplay":        {empathyQuestion},
				},
			},
			weakest: skill.Reasoning,
			wantID:  "q-reasoning",
		},
		{
			name:    "weak empathy targets the roleplay archetype",
			seed:    weakSkillBranchSeed,
			records: &fakeRecordRepository{},
			questions: &fakeQuestionRepository{
				byArchetype: map[string][]question.Question{
					"ethical_dilemma": {reasoningQuestion},
					"roleplay":        {empathyQuestion},
				},
			},
			weakest: skill.Empathy,
			wantID:  "q-empathy",
		},
		{
			name: "weak-skill branch falls back to due reviews",
			seed: weakSkillBranchSeed,
			records: &fakeRecordRepository{
				due: []Record{{UserID: "user-1", QuestionID: "q-due"}},
			},
			questions: &fakeQuestionRepository{
				byID: map[string]*question.Question{"q-due": &dueQuestion},
			},
			weakest: skill.Clarity,
			wantID:  "q-due",
		},
		{
			name:    "fallback reaches never-reviewed questions",
			seed:    weakSkillBranchSeed,
			records: &fakeRecordRepository{},
			questions: &fakeQuestionRepository{
				unscheduled: []question.Question{newQuestion},
			},
			weakest: skill.Clarity,
			wantID:  "q-new",
		},
		{
			name:    "fallback reaches any question at all",
			seed:    weakSkillBranchSeed,
			records: &fakeRecordRepository{},
			questions: &fakeQuestionRepository{
				allQuestions: []question.Question{reasoningQuestion},
			},
			weakest: skill.Clarity,
			wantID:  "q-reasoning",
		},
		{
			name:      "empty question bank yields nothing",
			seed:      weakSkillBranchSeed,
			records:   &fakeRecordRepository{},
			questions: &fakeQuestionRepository{},
			weakest:   skill.Clarity,
			wantNil:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := NewSelector(
				tt.records,
				tt.questions,
				&fakeWeakestSkillFinder{weakest: tt.weakest},
				selectorCatalog(),
				WithSelectorRand(rand.New(rand.NewSource(tt.seed))),
			)

			picked, err := selector.SelectNextCard(context.Background(), "user-1")
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, picked)
				return
			}
			require.NotNil(t, picked)
			assert.Equal(t, tt.wantID, picked.ID)
		})
	}
}

func TestSelector_SelectNextCard_BranchSeeds(t *testing.T) {
	assert.Less(t, rand.New(rand.NewSource(dueBranchSeed)).Float64(), 0.70)
	assert.GreaterOrEqual(t, rand.New(rand.NewSource(weakSkillBranchSeed)).Float64(), 0.70)
}
