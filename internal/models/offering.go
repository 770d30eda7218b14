package models

import "time"

// SubjectOffering is a tutor's teaching package for one subject.
// Its aggregate rating is maintained by the review subsystem; this
// service only reads it.
type SubjectOffering struct {
	ID           string    `db:"id" json:"id"`
	TutorID      string    `db:"tutor_id" json:"tutor_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	PrivatePrice float64   `db:"private_price" json:"private_price"`
	GroupPrice   float64   `db:"group_price" json:"group_price"`
	Rating       *float64  `db:"rating" json:"rating,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// OfferingView is an offering with its subject definition denormalized
// inline, the shape the discovery pipeline and API responses work with.
type OfferingView struct {
	ID              string   `json:"id"`
	SubjectID       string   `json:"subject_id"`
	SubjectName     string   `json:"subject_name"`
	Grade           string   `json:"grade"`
	Sector          string   `json:"sector"`
	EducationSystem string   `json:"education_system"`
	Language        string   `json:"language"`
	PrivatePrice    float64  `json:"private_price"`
	GroupPrice      float64  `json:"group_price"`
	Rating          *float64 `json:"rating,omitempty"`
}

// RatingOrZero treats a missing offering rating as zero. New offerings
// have no reviews yet; absence must never exclude them from scoring.
func (o OfferingView) RatingOrZero() float64 {
	if o.Rating == nil {
		return 0
	}
	return *o.Rating
}

// MinPrice returns the cheaper of the private and group price.
func (o OfferingView) MinPrice() float64 {
	if o.GroupPrice < o.PrivatePrice {
		return o.GroupPrice
	}
	return o.PrivatePrice
}
