package skill

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmiprep/trainer/internal/database"
)

func stateColumns() []string {
	return []string{"user_id", "skill_name", "ema_score", "n_attempts"}
}

func TestDBSkillRepository_Find(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantNil   bool
		wantErr   bool
	}{
		{
			name: "returns the state",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(stateColumns()).
					AddRow("user-1", "empathy", 2.95, 3)
				mock.ExpectQuery("SELECT \\* FROM user_skills WHERE user_id = \\? AND skill_name = \\?").
					WithArgs("user-1", Empathy).
					WillReturnRows(rows)
			},
		},
		{
			name: "never assessed returns nil without error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM user_skills WHERE user_id = \\? AND skill_name = \\?").
					WithArgs("user-1", Empathy).
					WillReturnRows(sqlmock.NewRows(stateColumns()))
			},
			wantNil: true,
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT \\* FROM user_skills WHERE user_id = \\? AND skill_name = \\?").
					WithArgs("user-1", Empathy).
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

			repo := NewDBSkillRepository(sqlx.NewDb(db, "mysql"))
			tt.setupMock(mock)

			got, err := repo.Find(context.Background(), "user-1", Empathy)
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
			assert.Equal(t, Empathy, got.SkillName)
			assert.Equal(t, 2.95, got.EMAScore.Float64)
			assert.True(t, got.EMAScore.Valid)
			assert.Equal(t, 3, got.NAttempts)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBSkillRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows(stateColumns()).
		AddRow("user-1", "empathy", 2.95, 3).
		AddRow("user-1", "clarity", 3.4, 5)
	mock.ExpectQuery("SELECT \\* FROM user_skills WHERE user_id = \\?").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := NewDBSkillRepository(sqlx.NewDb(db, "mysql"))
	got, err := repo.FindAll(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, got, len(Names()))
	assert.Equal(t, 2.95, got[Empathy].EMAScore.Float64)
	assert.Equal(t, 3.4, got[Clarity].EMAScore.Float64)
	// skills without a stored row resolve to the unassessed default
	assert.False(t, got[Structure].EMAScore.Valid)
	assert.Equal(t, 0, got[Structure].NAttempts)
	assert.Equal(t, "user-1", got[Structure].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBSkillRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO user_skills").
		WithArgs("user-1", Empathy, 2.95, 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewDBSkillRepository(sqlx.NewDb(db, "mysql"))
	err = repo.Upsert(context.Background(), State{
		UserID:    "user-1",
		SkillName: Empathy,
		EMAScore:  sql.NullFloat64{Float64: 2.95, Valid: true},
		NAttempts: 3,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
