package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPreferenceProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "education_system", "grade", "sector", "governate"}).
		AddRow("st1", "national", "Secondary 3", "scientific", "Cairo")

	mock.ExpectQuery(`SELECT student_id, education_system, grade, sector, governate\s+FROM student_preferences`).
		WithArgs("st1").
		WillReturnRows(rows)

	profile, err := repo.FindPreferenceProfile(context.Background(), "st1")

	require.NoError(t, err)
	assert.Equal(t, "Secondary 3", profile.Grade)
	assert.Equal(t, "Cairo", profile.Governate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindPreferenceProfileMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`FROM student_preferences`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	profile, err := repo.FindPreferenceProfile(context.Background(), "ghost")

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
