package srs

import (
	"context"
	"fmt"
	"time"
)

// Scheduler records review outcomes against per-user scheduling state.
type Scheduler struct {
	repo Repository
	now  func() time.Time
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerClock overrides the time source, for tests.
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler creates a Scheduler.
func NewScheduler(repo Repository, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordReview applies one review outcome for a (user, question) pair:
// it reads the current record (or the new-question defaults), runs the SM-2
// update, and writes back the new state with due date = today + new interval.
// The read-modify-write is a single transaction, so a storage failure never
// leaves the record half-updated.
func (s *Scheduler) RecordReview(ctx context.Context, userID, questionID string, quality int) (Record, error) {
	var updated Record
	err := s.repo.Apply(ctx, userID, questionID, func(current *Record) Record {
		ease := DefaultEase
		intervalDays := DefaultIntervalDays
		repetitions := 0
		if current != nil {
			ease = current.Ease
			intervalDays = current.IntervalDays
			repetitions = current.Repetitions
		}

		newEase, newIntervalDays, newRepetitions := Update(quality, ease, intervalDays, repetitions)
		updated = Record{
			UserID:       userID,
			QuestionID:   questionID,
			Ease:         newEase,
			IntervalDays: newIntervalDays,
			Repetitions:  newRepetitions,
			DueDate:      Today(s.now()).AddDate(0, 0, newIntervalDays),
		}
		return updated
	})
	if err != nil {
		return Record{}, fmt.Errorf("repo.Apply(%s) > %w", questionID, err)
	}
	return updated, nil
}

// Today truncates a time to its calendar date in UTC. Scheduling works in
// dates, not timestamps.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
