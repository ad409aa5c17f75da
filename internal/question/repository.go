// Package question provides the practice question catalog and its repository.
package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/database"
)

// Question is one unit of practice content. The scheduler never mutates it;
// only administrative edits change a question after creation.
type Question struct {
	ID             string    `db:"id"`
	Archetype      string    `db:"archetype"`
	DifficultyBase int       `db:"difficulty_base"`
	PromptText     string    `db:"prompt_text"`
	Tags           string    `db:"tags"` // JSON array, the column is JSON NOT NULL
	SourcePack     string    `db:"source_pack"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository defines operations for managing questions.
type Repository interface {
	FindAll(ctx context.Context) ([]Question, error)
	FindByID(ctx context.Context, id string) (*Question, error)
	FindByArchetypes(ctx context.Context, archetypes []string) ([]Question, error)
	FindUnscheduled(ctx context.Context, userID string, limit int) ([]Question, error)
	Create(ctx context.Context, q *Question) error
	Upsert(ctx context.Context, q *Question) error
	Count(ctx context.Context) (int, error)
}

// DBQuestionRepository implements Repository using MySQL.
type DBQuestionRepository struct {
	db *sqlx.DB
}

// NewDBQuestionRepository creates a new DBQuestionRepository.
func NewDBQuestionRepository(db *sqlx.DB) *DBQuestionRepository {
	return &DBQuestionRepository{db: db}
}

// FindAll returns every question ordered by archetype and difficulty.
func (r *DBQuestionRepository) FindAll(ctx context.Context) ([]Question, error) {
	var questions []Question
	if err := r.db.SelectContext(ctx, &questions,
		"SELECT * FROM questions ORDER BY archetype, difficulty_base"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(questions) > %w: %w", database.ErrUnavailable, err)
	}
	return questions, nil
}

// FindByID returns a question by ID, or nil if not found.
func (r *DBQuestionRepository) FindByID(ctx context.Context, id string) (*Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q, "SELECT * FROM questions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(question) > %w: %w", database.ErrUnavailable, err)
	}
	return &q, nil
}

// FindByArchetypes returns all questions in the given archetypes.
func (r *DBQuestionRepository) FindByArchetypes(ctx context.Context, archetypes []string) ([]Question, error) {
	if len(archetypes) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM questions WHERE archetype IN (?) ORDER BY archetype, difficulty_base", archetypes)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In() > %w", err)
	}

	var questions []Question
	if err := r.db.SelectContext(ctx, &questions, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(questions by archetype) > %w: %w", database.ErrUnavailable, err)
	}
	return questions, nil
}

// FindUnscheduled returns questions the user has never reviewed, in random
// order, capped at limit.
func (r *DBQuestionRepository) FindUnscheduled(ctx context.Context, userID string, limit int) ([]Question, error) {
	var questions []Question
	if err := r.db.SelectContext(ctx, &questions,
		`SELECT q.* FROM questions q
		WHERE q.id NOT IN (SELECT question_id FROM srs_records WHERE user_id = ?)
		ORDER BY RAND() LIMIT ?`,
		userID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(unscheduled questions) > %w: %w", database.ErrUnavailable, err)
	}
	return questions, nil
}

// Create inserts a new question.
func (r *DBQuestionRepository) Create(ctx context.Context, q *Question) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, archetype, difficulty_base, prompt_text, tags, source_pack)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Archetype, q.DifficultyBase, q.PromptText, q.Tags, q.SourcePack); err != nil {
		return fmt.Errorf("db.ExecContext(insert question) > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}

// Upsert inserts a question or refreshes its content when the ID exists.
// Imports rely on this to stay idempotent across repeated seed runs.
func (r *DBQuestionRepository) Upsert(ctx context.Context, q *Question) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO questions (id, archetype, difficulty_base, prompt_text, tags, source_pack)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			archetype = VALUES(archetype),
			difficulty_base = VALUES(difficulty_base),
			prompt_text = VALUES(prompt_text),
			tags = VALUES(tags),
			source_pack = VALUES(source_pack)`,
		q.ID, q.Archetype, q.DifficultyBase, q.PromptText, q.Tags, q.SourcePack); err != nil {
		return fmt.Errorf("db.ExecContext(upsert question) > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}

// Count returns the total number of questions in the catalog.
func (r *DBQuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM questions"); err != nil {
		return 0, fmt.Errorf("db.GetContext(count questions) > %w: %w", database.ErrUnavailable, err)
	}
	return count, nil
}
