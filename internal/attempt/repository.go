// Package attempt provides the practice attempt log and its repository.
package attempt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/database"
)

// Mode distinguishes how an attempt was run.
type Mode string

const (
	ModeGuided Mode = "guided"
	ModeTimed  Mode = "timed"
)

// Attempt is one completed practice answer with its rubric snapshot.
type Attempt struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	QuestionID     string    `db:"question_id"`
	Mode           Mode      `db:"mode"`
	DifficultyUsed int       `db:"difficulty_used"`
	TranscriptText string    `db:"transcript_text"`
	RubricJSON     string    `db:"rubric_json"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository defines operations for managing attempts.
type Repository interface {
	Create(ctx context.Context, a *Attempt) error
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]Attempt, error)
}

// DBAttemptRepository implements Repository using MySQL.
type DBAttemptRepository struct {
	db *sqlx.DB
}

// NewDBAttemptRepository creates a new DBAttemptRepository.
func NewDBAttemptRepository(db *sqlx.DB) *DBAttemptRepository {
	return &DBAttemptRepository{db: db}
}

// Create inserts a new attempt, assigning an ID when absent.
func (r *DBAttemptRepository) Create(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (id, user_id, question_id, mode, difficulty_used, transcript_text, rubric_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.QuestionID, a.Mode, a.DifficultyUsed, a.TranscriptText, a.RubricJSON); err != nil {
		return fmt.Errorf("db.ExecContext(insert attempt) > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}

// FindRecentByUser returns a user's attempts, newest first.
func (r *DBAttemptRepository) FindRecentByUser(ctx context.Context, userID string, limit int) ([]Attempt, error) {
	var attempts []Attempt
	if err := r.db.SelectContext(ctx, &attempts,
		"SELECT * FROM attempts WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(attempts) > %w: %w", database.ErrUnavailable, err)
	}
	return attempts, nil
}
