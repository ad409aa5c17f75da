package questionpack

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/question"
)

type fakeQuestionRepository struct {
	question.Repository

	upserted []question.Question
}

func (f *fakeQuestionRepository) Upsert(_ context.Context, q *question.Question) error {
	f.upserted = append(f.upserted, *q)
	return nil
}

func TestImporter_Import(t *testing.T) {
	tests := []struct {
		name string
		pack Pack

		wantImported int
		wantSkipped  int
		check        func(t *testing.T, upserted []question.Question)
	}{
		{
			name: "valid entries are imported with pack name attached",
			pack: Pack{
				Name: "starter",
				Questions: []PackEntry{
					{
						ID:             "q-1",
						Archetype:      "ethical_dilemma",
						DifficultyBase: 2,
						PromptText:     "A patient refuses treatment. Walk through your response.",
						Tags:           []string{"autonomy", "consent"},
					},
					{
						Archetype:      "policy",
						DifficultyBase: 4,
						PromptText:     "Should vaccination be mandatory for healthcare workers?",
					},
				},
			},
			wantImported: 2,
			check: func(t *testing.T, upserted []question.Question) {
				require.Len(t, upserted, 2)
				assert.Equal(t, "q-1", upserted[0].ID)
				assert.Equal(t, `["autonomy","consent"]`, upserted[0].Tags)
				assert.Equal(t, "starter", upserted[0].SourcePack)
				// entries without an ID get one assigned
				assert.NotEmpty(t, upserted[1].ID)
			},
		},
		{
			name: "unknown archetype and empty prompt are skipped",
			pack: Pack{
				Name: "mixed",
				Questions: []PackEntry{
					{Archetype: "trick_question", DifficultyBase: 3, PromptText: "Not a real station type."},
					{Archetype: "roleplay", DifficultyBase: 3, PromptText: "   "},
					{Archetype: "roleplay", DifficultyBase: 3, PromptText: "Tell a friend their pet died in your care."},
				},
			},
			wantImported: 1,
			wantSkipped:  2,
		},
		{
			// the questions.tags column is JSON, so anything stored there
			// must be a parseable JSON document
			name: "tags are stored as a JSON document even when absent",
			pack: Pack{
				Name: "tagged",
				Questions: []PackEntry{
					{Archetype: "ethical_dilemma", DifficultyBase: 3,
						PromptText: "A colleague shows up impaired to a shift.",
						Tags:       []string{"ethics", "conflict"}},
					{Archetype: "roleplay", DifficultyBase: 2,
						PromptText: "Break unexpected bad news to a family member."},
				},
			},
			wantImported: 2,
			check: func(t *testing.T, upserted []question.Question) {
				require.Len(t, upserted, 2)
				for _, q := range upserted {
					assert.True(t, json.Valid([]byte(q.Tags)), "tags %q must be valid JSON", q.Tags)
				}
				assert.Equal(t, `["ethics","conflict"]`, upserted[0].Tags)
				assert.Equal(t, "[]", upserted[1].Tags)
			},
		},
		{
			name: "out of range difficulty falls back to the midpoint",
			pack: Pack{
				Name: "clamped",
				Questions: []PackEntry{
					{Archetype: "teamwork", DifficultyBase: 9, PromptText: "Describe a conflict you resolved in a team."},
				},
			},
			wantImported: 1,
			check: func(t *testing.T, upserted []question.Question) {
				require.Len(t, upserted, 1)
				assert.Equal(t, 3, upserted[0].DifficultyBase)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeQuestionRepository{}
			importer := NewImporter(repo, archetype.Default())

			result, err := importer.Import(context.Background(), tt.pack)
			require.NoError(t, err)
			assert.Equal(t, tt.wantImported, result.Imported)
			assert.Len(t, result.Skipped, tt.wantSkipped)
			if tt.check != nil {
				tt.check(t, repo.upserted)
			}
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	t.Run("parses a YAML pack", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "starter.yaml")
		contents := `name: starter
version: "1"
questions:
  - id: q-1
    archetype: ethical_dilemma
    difficulty_base: 2
    prompt_text: "A patient refuses treatment. Walk through your response."
    tags: [autonomy]
`
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

		pack, err := LoadSeedFile(path)
		require.NoError(t, err)
		assert.Equal(t, "starter", pack.Name)
		require.Len(t, pack.Questions, 1)
		assert.Equal(t, "q-1", pack.Questions[0].ID)
		assert.Equal(t, []string{"autonomy"}, pack.Questions[0].Tags)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
