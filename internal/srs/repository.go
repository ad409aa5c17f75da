package srs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mmiprep/trainer/internal/database"
)

// Record holds the SM-2 scheduling state for one (user, question) pair.
// Absence of a record means the question is new for that user.
type Record struct {
	UserID       string    `db:"user_id"`
	QuestionID   string    `db:"question_id"`
	Ease         float64   `db:"ease"`
	IntervalDays int       `db:"interval_days"`
	Repetitions  int       `db:"repetitions"`
	DueDate      time.Time `db:"due_date"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Repository defines operations for managing scheduling records.
type Repository interface {
	Find(ctx context.Context, userID, questionID string) (*Record, error)
	FindDue(ctx context.Context, userID string, today time.Time, limit int) ([]Record, error)
	Upsert(ctx context.Context, record Record) error
	// Apply runs fn against the current record (nil when absent) and writes
	// the result back, all inside one transaction with the row locked, so
	// concurrent reviews of the same question cannot lose updates and a
	// storage failure leaves no partial write.
	Apply(ctx context.Context, userID, questionID string, fn func(current *Record) Record) error
}

// DBSRSRepository implements Repository using MySQL.
type DBSRSRepository struct {
	db *sqlx.DB
}

// NewDBSRSRepository creates a new DBSRSRepository.
func NewDBSRSRepository(db *sqlx.DB) *DBSRSRepository {
	return &DBSRSRepository{db: db}
}

// Find returns the scheduling record for a (user, question) pair, or nil if
// the question has never been reviewed by the user.
func (r *DBSRSRepository) Find(ctx context.Context, userID, questionID string) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM srs_records WHERE user_id = ? AND question_id = ?",
		userID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(srs_record) > %w: %w", database.ErrUnavailable, err)
	}
	return &record, nil
}

// FindDue returns up to limit records due on or before today, earliest due
// first.
func (r *DBSRSRepository) FindDue(ctx context.Context, userID string, today time.Time, limit int) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM srs_records WHERE user_id = ? AND due_date <= ? ORDER BY due_date ASC LIMIT ?",
		userID, today.Format(time.DateOnly), limit); err != nil {
		return nil, fmt.Errorf("db.SelectContext(due srs_records) > %w: %w", database.ErrUnavailable, err)
	}
	return records, nil
}

// Upsert writes all scheduling fields atomically, keyed by (user, question).
func (r *DBSRSRepository) Upsert(ctx context.Context, record Record) error {
	if err := upsert(ctx, r.db, record); err != nil {
		return err
	}
	return nil
}

// Apply implements Repository.
func (r *DBSRSRepository) Apply(ctx context.Context, userID, questionID string, fn func(current *Record) Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx() > %w: %w", database.ErrUnavailable, err)
	}
	defer tx.Rollback()

	var current Record
	var currentPtr *Record
	err = tx.GetContext(ctx, &current,
		"SELECT * FROM srs_records WHERE user_id = ? AND question_id = ? FOR UPDATE",
		userID, questionID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		currentPtr = nil
	case err != nil:
		return fmt.Errorf("tx.GetContext(srs_record for update) > %w: %w", database.ErrUnavailable, err)
	default:
		currentPtr = &current
	}

	next := fn(currentPtr)
	if err := upsert(ctx, tx, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit() > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}

func upsert(ctx context.Context, execer sqlx.ExecerContext, record Record) error {
	if _, err := execer.ExecContext(ctx,
		`INSERT INTO srs_records (user_id, question_id, ease, interval_days, repetitions, due_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE ease = VALUES(ease), interval_days = VALUES(interval_days),
			repetitions = VALUES(repetitions), due_date = VALUES(due_date)`,
		record.UserID, record.QuestionID, record.Ease, record.IntervalDays,
		record.Repetitions, record.DueDate.Format(time.DateOnly)); err != nil {
		return fmt.Errorf("ExecContext(upsert srs_record) > %w: %w", database.ErrUnavailable, err)
	}
	return nil
}
