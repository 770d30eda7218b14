package discovery

import (
	"math"
	"sort"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

// Ranker sorts aggregated tutors into their final order.
type Ranker struct {
	mode   Mode
	sortBy string
}

// NewRanker constructs a ranker for the given mode and caller sort
// preference (models.SortRatingDesc or models.SortPriceAsc; anything else
// falls back to lowest price ascending).
func NewRanker(mode Mode, sortBy string) *Ranker {
	return &Ranker{mode: mode, sortBy: sortBy}
}

// Sort orders tutors in place. Recommend mode applies the full tie-break
// chain: top-rated flag, score descending, caller preference, tutor id.
// Filter mode has no personalised score and starts at the caller
// preference. The trailing id comparison makes the order total, so equal
// keys sort identically on every call and pages never overlap.
func (r *Ranker) Sort(tutors []models.RankedTutor) {
	sort.SliceStable(tutors, func(i, j int) bool {
		a, b := tutors[i], tutors[j]

		if r.mode == ModeRecommend {
			if a.TopRated != b.TopRated {
				return a.TopRated
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}

		if r.sortBy == models.SortRatingDesc {
			ra, rb := ratingOrZero(a.Rating), ratingOrZero(b.Rating)
			if ra != rb {
				return ra > rb
			}
		} else {
			pa, pb := lowestListedPrice(a), lowestListedPrice(b)
			if pa != pb {
				return pa < pb
			}
		}

		return a.ID < b.ID
	})
}

// Page slices out the requested 1-based page. Non-positive page or limit
// values are clamped to the defaults instead of erroring; limit is capped
// at maxLimit. It returns the page slice plus the effective page, limit
// and the total count before slicing.
func Page(tutors []models.RankedTutor, page, limit, defaultLimit, maxLimit int) ([]models.RankedTutor, int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	total := len(tutors)
	start := (page - 1) * limit
	if start >= total {
		return []models.RankedTutor{}, page, limit, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return tutors[start:end], page, limit, total
}

func ratingOrZero(rating *float64) float64 {
	if rating == nil {
		return 0
	}
	return *rating
}

// lowestListedPrice is the cheapest price across a tutor's listed
// offerings; tutors with nothing listed sort after priced ones.
func lowestListedPrice(t models.RankedTutor) float64 {
	lowest := math.Inf(1)
	for _, offering := range t.Offerings {
		if p := offering.MinPrice(); p < lowest {
			lowest = p
		}
	}
	return lowest
}
