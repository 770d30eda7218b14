package models

// Sort preferences accepted by both discovery modes.
const (
	SortRatingDesc = "ratingDesc"
	SortPriceAsc   = "priceAsc"
)

// FilterCriteria captures the optional listing filters. Empty strings and
// nil numerics mean "no constraint"; invalid client values are normalised
// to absent before they reach the pipeline.
type FilterCriteria struct {
	EducationSystem string
	Grade           string
	Subject         string
	Language        string
	Sector          string
	Governate       string
	District        string
	MinRating       *float64
	MinPrice        *float64
	MaxPrice        *float64
	SortBy          string
}

// Empty reports whether no criterion is present.
func (c FilterCriteria) Empty() bool {
	return c.EducationSystem == "" && c.Grade == "" && c.Subject == "" &&
		c.Language == "" && c.Sector == "" && c.Governate == "" &&
		c.District == "" && c.MinRating == nil && c.MinPrice == nil &&
		c.MaxPrice == nil
}

// TutorPrefilter is the tutor-level slice of the criteria that can be
// pushed down into the store query. minRating here gates the tutor's own
// aggregate rating; the offering-level rating gate runs in the pipeline,
// and both apply (intentional AND).
type TutorPrefilter struct {
	Governate string
	District  string
	MinRating *float64
}

// Prefilter extracts the store-pushable portion of the criteria.
func (c FilterCriteria) Prefilter() TutorPrefilter {
	return TutorPrefilter{
		Governate: c.Governate,
		District:  c.District,
		MinRating: c.MinRating,
	}
}

// StudentPreferenceProfile is the stored profile recommend mode scores
// against. All fields are soft signals, never hard filters.
type StudentPreferenceProfile struct {
	StudentID       string `db:"student_id" json:"student_id"`
	EducationSystem string `db:"education_system" json:"education_system"`
	Grade           string `db:"grade" json:"grade"`
	Sector          string `db:"sector" json:"sector"`
	Governate       string `db:"governate" json:"governate"`
}

// CandidateRow is one flattened (tutor, offering) pair flowing through the
// discovery pipeline. Offering is nil for tutors with no offerings so they
// are never silently dropped before scoring.
type CandidateRow struct {
	Tutor    Tutor
	Offering *OfferingView
	Matched  bool
	Score    float64
}

// OfferingKey identifies the offering for deduplication; rows with no
// offering share the empty key.
func (r CandidateRow) OfferingKey() string {
	if r.Offering == nil {
		return ""
	}
	return r.Offering.ID
}

// RankedOffering is an offering annotated with its pipeline score. The
// score is meaningful in recommend mode only.
type RankedOffering struct {
	OfferingView
	Score float64 `json:"score,omitempty"`
}

// RankedTutor is one result row: the tutor projection plus the subset of
// offerings relevant to the query and the tutor's total score.
type RankedTutor struct {
	TutorCard
	Offerings []RankedOffering `json:"offerings"`
	Score     float64          `json:"score,omitempty"`
}

// DiscoveryResult is the denormalized, paginated outcome of either mode.
type DiscoveryResult struct {
	Tutors   []RankedTutor `json:"tutors"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Fallback bool          `json:"fallback,omitempty"`
}

// Pagination mirrors the envelope pagination block.
type Pagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	HasMore    bool `json:"has_more"`
}
