package models

import "time"

// Subject is the canonical subject definition shared across tutors.
type Subject struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Grade           string    `db:"grade" json:"grade"`
	Sector          string    `db:"sector" json:"sector"`
	EducationSystem string    `db:"education_system" json:"education_system"`
	Language        string    `db:"language" json:"language"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
