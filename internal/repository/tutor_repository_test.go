package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var tutorJoinColumns = []string{
	"id", "full_name", "bio", "governate", "district", "years_experience",
	"rating", "top_rated", "active", "created_at", "updated_at",
	"offering_id", "offering_subject_id", "offering_private_price",
	"offering_group_price", "offering_rating",
	"subject_name", "subject_grade", "subject_sector",
	"subject_education_system", "subject_language",
}

func fullJoinRow(tutorID, name string, tutorRating interface{}, offeringID, subjectName, grade interface{}) []driver.Value {
	now := time.Now()
	return []driver.Value{
		tutorID, name, nil, "Cairo", "Nasr City", 5,
		tutorRating, false, true, now, now,
		offeringID, offeringValue(offeringID, "s1"), offeringValue(offeringID, 800.0),
		offeringValue(offeringID, 300.0), offeringValue(offeringID, 4.5),
		subjectName, grade, offeringValue(offeringID, "scientific"),
		offeringValue(offeringID, "national"), offeringValue(offeringID, "Arabic"),
	}
}

// offeringValue returns val only when the row actually carries an
// offering, mirroring the NULLs a LEFT JOIN produces.
func offeringValue(offeringID interface{}, val interface{}) interface{} {
	if offeringID == nil {
		return nil
	}
	return val
}

func TestListWithOfferingsGroupsRowsPerTutor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	rows := sqlmock.NewRows(tutorJoinColumns).
		AddRow(fullJoinRow("t1", "Ahmed", 4.8, "o1", "Math", "Secondary 3")...).
		AddRow(fullJoinRow("t1", "Ahmed", 4.8, "o2", "Physics", "Secondary 3")...).
		AddRow(fullJoinRow("t3", "Mona", nil, nil, nil, nil)...)

	mock.ExpectQuery(`FROM tutors t\s+LEFT JOIN subject_offerings o`).
		WillReturnRows(rows)

	out, err := repo.ListWithOfferings(context.Background(), models.TutorPrefilter{})

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].Tutor.ID)
	assert.Len(t, out[0].Offerings, 2)
	assert.Equal(t, "Math", out[0].Offerings[0].SubjectName)
	assert.Equal(t, "t3", out[1].Tutor.ID)
	assert.Empty(t, out[1].Offerings)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithOfferingsAppliesPrefilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	minRating := 4.0
	mock.ExpectQuery(`t\.governate = \$1 AND t\.district = \$2 AND t\.rating >= \$3`).
		WithArgs("Cairo", "Nasr City", minRating).
		WillReturnRows(sqlmock.NewRows(tutorJoinColumns))

	out, err := repo.ListWithOfferings(context.Background(), models.TutorPrefilter{
		Governate: "Cairo",
		District:  "Nasr City",
		MinRating: &minRating,
	})

	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDReturnsTutorWithOfferings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	rows := sqlmock.NewRows(tutorJoinColumns).
		AddRow(fullJoinRow("t1", "Ahmed", 4.8, "o1", "Math", "Secondary 3")...)

	mock.ExpectQuery(`WHERE t\.active = TRUE AND t\.id = \$1`).
		WithArgs("t1").
		WillReturnRows(rows)

	out, err := repo.FindByID(context.Background(), "t1")

	require.NoError(t, err)
	assert.Equal(t, "Ahmed", out.Tutor.FullName)
	require.Len(t, out.Offerings, 1)
	assert.Equal(t, "o1", out.Offerings[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDMissingTutorReturnsNoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTutorRepository(db)

	mock.ExpectQuery(`WHERE t\.active = TRUE AND t\.id = \$1`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(tutorJoinColumns))

	out, err := repo.FindByID(context.Background(), "nope")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
