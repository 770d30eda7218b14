package discovery

import (
	"strings"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

// Mode selects the aggregation semantics.
type Mode string

const (
	// ModeFilter keeps only tutors with at least one matched row and
	// projects the matched offering subset.
	ModeFilter Mode = "filter"
	// ModeRecommend keeps every tutor, annotates all offerings, and sums
	// row scores plus the one-time tutor-level boosts.
	ModeRecommend Mode = "recommend"
)

// Aggregator regroups candidate rows into one result row per tutor.
type Aggregator struct {
	mode    Mode
	profile models.StudentPreferenceProfile
	query   string
	weights Weights
}

// NewFilterAggregator builds an aggregator for filter mode.
func NewFilterAggregator() *Aggregator {
	return &Aggregator{mode: ModeFilter}
}

// NewRecommendAggregator builds an aggregator for recommend mode. The free
// text query, when present, only boosts name matches; it never excludes.
func NewRecommendAggregator(profile models.StudentPreferenceProfile, query string, weights Weights) *Aggregator {
	return &Aggregator{mode: ModeRecommend, profile: profile, query: query, weights: weights}
}

type tutorGroup struct {
	result  models.RankedTutor
	matched bool
	seen    map[string]struct{}
}

// Aggregate groups candidate rows by tutor identity, preserving first-seen
// tutor order. Rows duplicated per (tutor, offering) identity are dropped
// before summation so a duplicate can never double-count a score.
func (a *Aggregator) Aggregate(rows []models.CandidateRow) []models.RankedTutor {
	order := make([]string, 0, len(rows))
	grouped := make(map[string]*tutorGroup, len(rows))

	for _, row := range rows {
		tutorID := row.Tutor.ID
		group, ok := grouped[tutorID]
		if !ok {
			group = &tutorGroup{
				result: models.RankedTutor{
					TutorCard: row.Tutor.Card(),
					Offerings: []models.RankedOffering{},
				},
				seen: make(map[string]struct{}, 4),
			}
			grouped[tutorID] = group
			order = append(order, tutorID)

			if a.mode == ModeRecommend {
				group.result.Score += a.tutorBoost(row.Tutor)
			}
		}

		key := row.OfferingKey()
		if _, dup := group.seen[key]; dup {
			continue
		}
		group.seen[key] = struct{}{}

		if row.Matched {
			group.matched = true
		}
		if a.mode == ModeRecommend {
			group.result.Score += row.Score
		}
		if row.Offering != nil && (a.mode == ModeRecommend || row.Matched) {
			group.result.Offerings = append(group.result.Offerings, models.RankedOffering{
				OfferingView: *row.Offering,
				Score:        row.Score,
			})
		}
	}

	out := make([]models.RankedTutor, 0, len(order))
	for _, tutorID := range order {
		group := grouped[tutorID]
		if a.mode == ModeFilter && !group.matched {
			continue
		}
		out = append(out, group.result)
	}
	return out
}

// tutorBoost is applied exactly once per tutor: the governate match, the
// name match against the free text query, and the tutor's own aggregate
// rating. A tutor without a rating yet contributes 0 for that term rather
// than being excluded.
func (a *Aggregator) tutorBoost(t models.Tutor) float64 {
	var boost float64
	if a.profile.Governate != "" && t.Governate == a.profile.Governate {
		boost += a.weights.GovernateBoost
	}
	if a.query != "" && strings.Contains(strings.ToLower(t.FullName), strings.ToLower(a.query)) {
		boost += a.weights.NameMatchBoost
	}
	if t.Rating != nil {
		boost += *t.Rating * a.weights.RatingWeight
	}
	return boost
}
