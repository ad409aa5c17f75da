package srs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiprep/trainer/internal/database"
)

func recordColumns() []string {
	return []string{
		"user_id", "question_id", "ease", "interval_days", "repetitions",
		"due_date", "created_at", "updated_at",
	}
}

func TestDBSRSRepository_Find(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "returns the record",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(recordColumns()).
					AddRow("user-1", "q-1", 2.5, 6, 2, now, now, now)
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\?").
					WithArgs("user-1", "q-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "never reviewed returns nil without error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\?").
					WithArgs("user-1", "q-1").
					WillReturnRows(sqlmock.NewRows(recordColumns()))
			},
			wantNil: true,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\?").
					WithArgs("user-1", "q-1").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			repo := NewDBSRSRepository(sqlxDB)
			tt.setupMock(mock)

			got, err := repo.Find(context.Background(), "user-1", "q-1")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, database.ErrUnavailable)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "q-1", got.QuestionID)
			assert.Equal(t, 2.5, got.Ease)
			assert.Equal(t, 2, got.Repetitions)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBSRSRepository_FindDue(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(recordColumns()).
		AddRow("user-1", "q-1", 2.5, 1, 1, now.AddDate(0, 0, -2), now, now).
		AddRow("user-1", "q-2", 2.3, 1, 0, now, now, now)
	mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND due_date <= \\? ORDER BY due_date ASC LIMIT \\?").
		WithArgs("user-1", "2025-03-15", 20).
		WillReturnRows(rows)

	repo := NewDBSRSRepository(sqlx.NewDb(db, "mysql"))
	got, err := repo.FindDue(context.Background(), "user-1", now, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q-1", got[0].QuestionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBSRSRepository_Apply(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantPrior bool
		wantErr   bool
	}{
		{
			name: "locks, updates and commits an existing record",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				rows := sqlmock.NewRows(recordColumns()).
					AddRow("user-1", "q-1", 2.5, 6, 2, now, now, now)
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\? FOR UPDATE").
					WithArgs("user-1", "q-1").
					WillReturnRows(rows)
				mock.ExpectExec("INSERT INTO srs_records").
					WithArgs("user-1", "q-1", 2.6, 16, 3, "2025-03-31").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantPrior: true,
		},
		{
			name: "creates the record when none exists",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\? FOR UPDATE").
					WithArgs("user-1", "q-1").
					WillReturnRows(sqlmock.NewRows(recordColumns()))
				mock.ExpectExec("INSERT INTO srs_records").
					WithArgs("user-1", "q-1", 2.6, 16, 3, "2025-03-31").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			wantPrior: false,
		},
		{
			name: "write failure rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("SELECT \\* FROM srs_records WHERE user_id = \\? AND question_id = \\? FOR UPDATE").
					WithArgs("user-1", "q-1").
					WillReturnRows(sqlmock.NewRows(recordColumns()))
				mock.ExpectExec("INSERT INTO srs_records").
					WillReturnError(fmt.Errorf("connection refused"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewDBSRSRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			var sawPrior bool
			err = repo.Apply(context.Background(), "user-1", "q-1", func(current *Record) Record {
				sawPrior = current != nil
				return Record{
					UserID: "user-1", QuestionID: "q-1",
					Ease: 2.6, IntervalDays: 16, Repetitions: 3,
					DueDate: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
				}
			})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, database.ErrUnavailable)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantPrior, sawPrior)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBSRSRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO srs_records").
		WithArgs("user-1", "q-1", 2.5, 1, 1, "2025-03-16").
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewDBSRSRepository(sqlx.NewDb(db, "mysql"))
	err = repo.Upsert(context.Background(), Record{
		UserID: "user-1", QuestionID: "q-1",
		Ease: 2.5, IntervalDays: 1, Repetitions: 1,
		DueDate: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
