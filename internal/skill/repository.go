package skill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/database"
)

// State holds the stored EMA state for one (user, skill) pair.
// EMAScore is invalid (NULL) if and only if NAttempts is zero.
type State struct {
	UserID    string          `db:"user_id"`
	SkillName Name            `db:"skill_name"`
	EMAScore  sql.NullFloat64 `db:"ema_score"`
	NAttempts int             `db:"n_attempts"`
}

// Repository defines operations for managing per-user skill states.
type Repository interface {
	Find(ctx context.Context, userID string, name Name) (*State, error)
	FindAll(ctx context.Context, userID string) (map[Name]State, error)
	Upsert(ctx context.Context, state State) error
}

// DBSkillRepository implements Repository using MySQL.
type DBSkillRepository struct {
	db *sqlx.DB
}

// NewDBSkillRepository creates a new DBSkillRepository.
func NewDBSkillRepository(db *sqlx.DB) *DBSkillRepository {
	return &DBSkillRepository{db: db}
}

// Find returns the stored state for a skill, or nil if the user has never
// been assessed on it.
func (r *DBSkillRepository) Find(ctx context.Context, userID string, name Name) (*State, error) {
	var state State
	err := r.db.GetContext(ctx, &state,
		"SELECT * FROM user_skills WHERE user_id = ? AND skill_name = ?",
		userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(user_skill) > %w: %w", database.ErrUnavailable, err)
	}
	return &state, nil
}

// FindAll returns the state of every canonical skill for a user. Skills
// without a stored row resolve to the unassessed default (NULL EMA, zero
// attempts) rather than being omitted.
func (r *DBSkillRepository) FindAll(ctx context.Context, userID string) (map[Name]State, error) {
	var rows []State
	if err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM user_skills WHERE user_id = ?", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(user_skills) > %w: %w", database.ErrUnavailable, err)
	}

	states := make(map[Name]State, len(Names()))
	for _, name := range Names() {
		states[name] = State{UserID: userID, SkillName: name}
	}
	for _, row := range rows {
		states[row.SkillName] = row
	}
	return states, nil
}

// Upsert writes the EMA score and attempt count atomically, keyed by
// (user, skill).
func (r *DBSkillRepository) Upsert(ctx context.Context, state State) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO user_skills (user_id, skill_name, ema_score, n_attempts)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE ema_score = VALUES(ema_score), n_attempts = VALUES(n_attempts)`,
		state.UserID, state.SkillName, state.EMAScore, state.NAttempts); err != nil {
		return fmt.Errorf("db.ExecContext(upsert user_skill) > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}
