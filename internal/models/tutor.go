package models

import "time"

// Tutor represents a tutoring professional profile.
type Tutor struct {
	ID              string    `db:"id" json:"id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Bio             *string   `db:"bio" json:"bio,omitempty"`
	Governate       string    `db:"governate" json:"governate"`
	District        string    `db:"district" json:"district"`
	YearsExperience int       `db:"years_experience" json:"years_experience"`
	Rating          *float64  `db:"rating" json:"rating,omitempty"`
	TopRated        bool      `db:"top_rated" json:"top_rated"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// TutorCard is the public projection of a tutor. It never carries
// credentials or account internals.
type TutorCard struct {
	ID              string   `json:"id"`
	FullName        string   `json:"full_name"`
	Bio             *string  `json:"bio,omitempty"`
	Governate       string   `json:"governate"`
	District        string   `json:"district"`
	YearsExperience int      `json:"years_experience"`
	Rating          *float64 `json:"rating,omitempty"`
	TopRated        bool     `json:"top_rated"`
}

// Card converts a tutor record into its public projection.
func (t Tutor) Card() TutorCard {
	return TutorCard{
		ID:              t.ID,
		FullName:        t.FullName,
		Bio:             t.Bio,
		Governate:       t.Governate,
		District:        t.District,
		YearsExperience: t.YearsExperience,
		Rating:          t.Rating,
		TopRated:        t.TopRated,
	}
}

// TutorWithOfferings bundles a tutor with its joined subject offerings.
// Tutors with no offerings carry an empty slice.
type TutorWithOfferings struct {
	Tutor     Tutor
	Offerings []OfferingView
}

// TutorDetail is the single-tutor read response: the public card plus
// every active offering, unranked.
type TutorDetail struct {
	TutorCard
	Offerings []OfferingView `json:"offerings"`
}

// Detail converts the joined record into its API response shape.
func (t TutorWithOfferings) Detail() TutorDetail {
	offerings := t.Offerings
	if offerings == nil {
		offerings = []OfferingView{}
	}
	return TutorDetail{TutorCard: t.Tutor.Card(), Offerings: offerings}
}
