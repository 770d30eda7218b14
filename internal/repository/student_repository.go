package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

// StudentRepository loads the preference profiles recommendations score
// against.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindPreferenceProfile returns the stored preference profile for a
// student. A missing profile surfaces as sql.ErrNoRows so the caller can
// decide how soft the failure is.
func (r *StudentRepository) FindPreferenceProfile(ctx context.Context, studentID string) (*models.StudentPreferenceProfile, error) {
	query := `SELECT student_id, education_system, grade, sector, governate
		FROM student_preferences
		WHERE student_id = $1`

	var profile models.StudentPreferenceProfile
	if err := r.db.GetContext(ctx, &profile, query, studentID); err != nil {
		return nil, fmt.Errorf("find preference profile %s: %w", studentID, err)
	}

	return &profile, nil
}
