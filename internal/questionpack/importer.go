package questionpack

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mmiprep/trainer/internal/archetype"
	"github.com/mmiprep/trainer/internal/question"
)

// Importer writes pack entries into the question bank, dropping entries
// whose archetype the catalog doesn't know.
type Importer struct {
	questions question.Repository
	catalog   archetype.Catalog
}

func NewImporter(questions question.Repository, catalog archetype.Catalog) *Importer {
	return &Importer{
		questions: questions,
		catalog:   catalog,
	}
}

// ImportResult summarizes one pack import.
type ImportResult struct {
	Imported int
	Skipped  []string
}

// Import upserts every valid entry of the pack. Entries without an ID get a
// fresh UUID; seed files that want idempotent re-imports should carry stable
// IDs explicitly.
func (imp *Importer) Import(ctx context.Context, pack Pack) (ImportResult, error) {
	var result ImportResult
	for _, entry := range pack.Questions {
		if _, ok := imp.catalog.Get(entry.Archetype); !ok {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: unknown archetype %q", entry.PromptText, entry.Archetype))
			continue
		}
		if strings.TrimSpace(entry.PromptText) == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("entry in %s: empty prompt", pack.Name))
			continue
		}

		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		difficulty := entry.DifficultyBase
		if difficulty < 1 || difficulty > 5 {
			difficulty = 3
		}
		tags, err := marshalTags(entry.Tags)
		if err != nil {
			return result, fmt.Errorf("marshalTags > %w", err)
		}
		if err := imp.questions.Upsert(ctx, &question.Question{
			ID:             id,
			Archetype:      entry.Archetype,
			DifficultyBase: difficulty,
			PromptText:     entry.PromptText,
			Tags:           tags,
			SourcePack:     pack.Name,
		}); err != nil {
			return result, fmt.Errorf("questions.Upsert > %w", err)
		}
		result.Imported++
	}
	return result, nil
}

// marshalTags renders tags as a JSON array for the questions.tags column,
// which is a JSON column and rejects anything that is not a JSON document.
func marshalTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	contents, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("json.Marshal > %w", err)
	}
	return string(contents), nil
}

// LoadSeedFile parses a YAML pack file from disk.
func LoadSeedFile(path string) (Pack, error) {
	var pack Pack
	contents, err := os.ReadFile(path)
	if err != nil {
		return pack, fmt.Errorf("os.ReadFile > %w", err)
	}
	if err := yaml.Unmarshal(contents, &pack); err != nil {
		return pack, fmt.Errorf("yaml.Unmarshal > %w", err)
	}
	if pack.Name == "" {
		pack.Name = strings.TrimSuffix(strings.TrimSuffix(path, ".yaml"), ".yml")
	}
	return pack, nil
}
