package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

// TutorRepository reads tutor profiles with their joined subject
// offerings. Discovery is a pure read path; there is no write side here.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository constructs a TutorRepository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

const tutorOfferingColumns = `t.id, t.full_name, t.bio, t.governate, t.district, t.years_experience,
	t.rating, t.top_rated, t.active, t.created_at, t.updated_at,
	o.id AS offering_id, o.subject_id AS offering_subject_id,
	o.private_price AS offering_private_price, o.group_price AS offering_group_price,
	o.rating AS offering_rating,
	s.name AS subject_name, s.grade AS subject_grade, s.sector AS subject_sector,
	s.education_system AS subject_education_system, s.language AS subject_language`

// tutorOfferingRow is the flat LEFT JOIN row; offering and subject columns
// are NULL for tutors with no active offerings.
type tutorOfferingRow struct {
	models.Tutor
	OfferingID        *string  `db:"offering_id"`
	OfferingSubjectID *string  `db:"offering_subject_id"`
	PrivatePrice      *float64 `db:"offering_private_price"`
	GroupPrice        *float64 `db:"offering_group_price"`
	OfferingRating    *float64 `db:"offering_rating"`
	SubjectName       *string  `db:"subject_name"`
	SubjectGrade      *string  `db:"subject_grade"`
	SubjectSector     *string  `db:"subject_sector"`
	SubjectEduSystem  *string  `db:"subject_education_system"`
	SubjectLanguage   *string  `db:"subject_language"`
}

// ListWithOfferings loads active tutors joined to their active offerings
// and subject definitions, optionally pre-filtered by tutor-level
// criteria. Tutors with no offerings are kept via the LEFT JOIN so the
// pipeline can still see them.
func (r *TutorRepository) ListWithOfferings(ctx context.Context, pre models.TutorPrefilter) ([]models.TutorWithOfferings, error) {
	base := fmt.Sprintf(`SELECT %s
		FROM tutors t
		LEFT JOIN subject_offerings o ON o.tutor_id = t.id AND o.active = TRUE
		LEFT JOIN subjects s ON s.id = o.subject_id
		WHERE t.active = TRUE`, tutorOfferingColumns)

	var conditions []string
	var args []interface{}
	if pre.Governate != "" {
		conditions = append(conditions, fmt.Sprintf("t.governate = $%d", len(args)+1))
		args = append(args, pre.Governate)
	}
	if pre.District != "" {
		conditions = append(conditions, fmt.Sprintf("t.district = $%d", len(args)+1))
		args = append(args, pre.District)
	}
	if pre.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("t.rating >= $%d", len(args)+1))
		args = append(args, *pre.MinRating)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY t.id, o.id"

	var rows []tutorOfferingRow
	if err := r.db.SelectContext(ctx, &rows, base, args...); err != nil {
		return nil, fmt.Errorf("list tutors with offerings: %w", err)
	}

	return groupTutorRows(rows), nil
}

// FindByID loads a single active tutor with its offerings.
func (r *TutorRepository) FindByID(ctx context.Context, id string) (*models.TutorWithOfferings, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM tutors t
		LEFT JOIN subject_offerings o ON o.tutor_id = t.id AND o.active = TRUE
		LEFT JOIN subjects s ON s.id = o.subject_id
		WHERE t.active = TRUE AND t.id = $1
		ORDER BY o.id`, tutorOfferingColumns)

	var rows []tutorOfferingRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("find tutor %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}

	grouped := groupTutorRows(rows)
	return &grouped[0], nil
}

// groupTutorRows folds the flat join rows back into one entry per tutor,
// preserving row order.
func groupTutorRows(rows []tutorOfferingRow) []models.TutorWithOfferings {
	order := make([]string, 0, len(rows))
	grouped := make(map[string]*models.TutorWithOfferings, len(rows))

	for _, row := range rows {
		entry, ok := grouped[row.Tutor.ID]
		if !ok {
			entry = &models.TutorWithOfferings{Tutor: row.Tutor}
			grouped[row.Tutor.ID] = entry
			order = append(order, row.Tutor.ID)
		}
		if view := row.offeringView(); view != nil {
			entry.Offerings = append(entry.Offerings, *view)
		}
	}

	out := make([]models.TutorWithOfferings, 0, len(order))
	for _, id := range order {
		out = append(out, *grouped[id])
	}
	return out
}

func (r tutorOfferingRow) offeringView() *models.OfferingView {
	if r.OfferingID == nil {
		return nil
	}
	view := models.OfferingView{
		ID:     *r.OfferingID,
		Rating: r.OfferingRating,
	}
	if r.OfferingSubjectID != nil {
		view.SubjectID = *r.OfferingSubjectID
	}
	if r.PrivatePrice != nil {
		view.PrivatePrice = *r.PrivatePrice
	}
	if r.GroupPrice != nil {
		view.GroupPrice = *r.GroupPrice
	}
	if r.SubjectName != nil {
		view.SubjectName = *r.SubjectName
	}
	if r.SubjectGrade != nil {
		view.Grade = *r.SubjectGrade
	}
	if r.SubjectSector != nil {
		view.Sector = *r.SubjectSector
	}
	if r.SubjectEduSystem != nil {
		view.EducationSystem = *r.SubjectEduSystem
	}
	if r.SubjectLanguage != nil {
		view.Language = *r.SubjectLanguage
	}
	return &view
}
