package discovery

import "github.com/ostazy-app/ostazy-api/internal/models"

// Flatten joins each tutor to its subject offerings, producing one
// candidate row per (tutor, offering) pair. A tutor with no offerings
// contributes exactly one row with a nil offering so later stages can
// still see it; recommend mode must never lose a tutor here.
func Flatten(tutors []models.TutorWithOfferings) []models.CandidateRow {
	rows := make([]models.CandidateRow, 0, len(tutors))
	for _, t := range tutors {
		if len(t.Offerings) == 0 {
			rows = append(rows, models.CandidateRow{Tutor: t.Tutor})
			continue
		}
		for i := range t.Offerings {
			offering := t.Offerings[i]
			rows = append(rows, models.CandidateRow{Tutor: t.Tutor, Offering: &offering})
		}
	}
	return rows
}
