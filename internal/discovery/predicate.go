package discovery

import "github.com/ostazy-app/ostazy-api/internal/models"

// MatchStage applies filter-mode criteria as hard predicates: a row
// survives only when every present criterion matches.
type MatchStage struct {
	criteria models.FilterCriteria
}

// NewMatchStage constructs a MatchStage for the given criteria.
func NewMatchStage(criteria models.FilterCriteria) *MatchStage {
	return &MatchStage{criteria: criteria}
}

// Name identifies the stage.
func (s *MatchStage) Name() string { return "match" }

// Apply annotates each row with the predicate outcome and drops the
// non-matching ones.
func (s *MatchStage) Apply(rows []models.CandidateRow) []models.CandidateRow {
	out := rows[:0]
	for _, row := range rows {
		if Matches(s.criteria, row) {
			row.Matched = true
			out = append(out, row)
		}
	}
	return out
}

// Matches is the pure filter predicate. Categorical criteria compare with
// exact, case-sensitive equality as stored; minRating requires the
// offering's aggregate rating to reach the threshold. The price range
// matches when either the private or the group price falls inside it,
// since tutors list the two prices as alternatives, not a bundle.
func Matches(c models.FilterCriteria, row models.CandidateRow) bool {
	if c.Governate != "" && row.Tutor.Governate != c.Governate {
		return false
	}
	if c.District != "" && row.Tutor.District != c.District {
		return false
	}

	offeringCriteria := c.EducationSystem != "" || c.Grade != "" || c.Subject != "" ||
		c.Language != "" || c.Sector != "" || c.MinRating != nil ||
		c.MinPrice != nil || c.MaxPrice != nil
	if row.Offering == nil {
		// A tutor with no offerings can only satisfy tutor-level criteria.
		return !offeringCriteria
	}

	o := row.Offering
	if c.EducationSystem != "" && o.EducationSystem != c.EducationSystem {
		return false
	}
	if c.Grade != "" && o.Grade != c.Grade {
		return false
	}
	if c.Subject != "" && o.SubjectName != c.Subject {
		return false
	}
	if c.Language != "" && o.Language != c.Language {
		return false
	}
	if c.Sector != "" && o.Sector != c.Sector {
		return false
	}
	if c.MinRating != nil {
		if o.Rating == nil || *o.Rating < *c.MinRating {
			return false
		}
	}
	if c.MinPrice != nil || c.MaxPrice != nil {
		if !priceInRange(o.PrivatePrice, c.MinPrice, c.MaxPrice) &&
			!priceInRange(o.GroupPrice, c.MinPrice, c.MaxPrice) {
			return false
		}
	}
	return true
}

func priceInRange(price float64, min, max *float64) bool {
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}
