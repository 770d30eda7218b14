package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

func rankedFixture(id string, score float64, topRated bool, rating *float64, prices ...float64) models.RankedTutor {
	rt := models.RankedTutor{
		TutorCard: models.TutorCard{ID: id, FullName: "Tutor " + id, Rating: rating, TopRated: topRated},
		Score:     score,
	}
	for i, price := range prices {
		rt.Offerings = append(rt.Offerings, models.RankedOffering{
			OfferingView: models.OfferingView{ID: id + "-o" + string(rune('a'+i)), PrivatePrice: price, GroupPrice: price},
		})
	}
	return rt
}

func ids(tutors []models.RankedTutor) []string {
	out := make([]string, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, t.ID)
	}
	return out
}

func TestRankerTopRatedAlwaysFirst(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 50, false, f64(5), 100),
		rankedFixture("t2", 1, true, f64(2), 900),
	}

	NewRanker(ModeRecommend, "").Sort(tutors)

	assert.Equal(t, []string{"t2", "t1"}, ids(tutors))
}

func TestRankerScoreDescending(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 3, false, nil, 100),
		rankedFixture("t2", 9, false, nil, 100),
		rankedFixture("t3", 6, false, nil, 100),
	}

	NewRanker(ModeRecommend, "").Sort(tutors)

	assert.Equal(t, []string{"t2", "t3", "t1"}, ids(tutors))
}

func TestRankerEqualScoreUsesCallerPreference(t *testing.T) {
	byRating := []models.RankedTutor{
		rankedFixture("t1", 5, false, f64(3.0), 100),
		rankedFixture("t2", 5, false, f64(4.5), 100),
	}
	NewRanker(ModeRecommend, models.SortRatingDesc).Sort(byRating)
	assert.Equal(t, []string{"t2", "t1"}, ids(byRating))

	byPrice := []models.RankedTutor{
		rankedFixture("t1", 5, false, nil, 400),
		rankedFixture("t2", 5, false, nil, 150),
	}
	NewRanker(ModeRecommend, "").Sort(byPrice)
	assert.Equal(t, []string{"t2", "t1"}, ids(byPrice))
}

func TestRankerIdenticalKeysFallBackToTutorID(t *testing.T) {
	build := func() []models.RankedTutor {
		return []models.RankedTutor{
			rankedFixture("t9", 5, false, f64(4), 100),
			rankedFixture("t1", 5, false, f64(4), 100),
			rankedFixture("t5", 5, false, f64(4), 100),
		}
	}

	first := build()
	NewRanker(ModeRecommend, models.SortRatingDesc).Sort(first)
	second := build()
	NewRanker(ModeRecommend, models.SortRatingDesc).Sort(second)

	assert.Equal(t, []string{"t1", "t5", "t9"}, ids(first))
	assert.Equal(t, ids(first), ids(second))
}

func TestRankerFilterModeIgnoresScore(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 99, false, f64(2), 100),
		rankedFixture("t2", 0, false, f64(5), 100),
	}

	NewRanker(ModeFilter, models.SortRatingDesc).Sort(tutors)

	assert.Equal(t, []string{"t2", "t1"}, ids(tutors))
}

func TestRankerNoOfferingsSortsAfterPriced(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 0, false, nil), // no offerings, no price
		rankedFixture("t2", 0, false, nil, 500),
	}

	NewRanker(ModeFilter, "").Sort(tutors)

	assert.Equal(t, []string{"t2", "t1"}, ids(tutors))
}

func TestPageClampsInvalidInputs(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 0, false, nil, 100),
		rankedFixture("t2", 0, false, nil, 100),
		rankedFixture("t3", 0, false, nil, 100),
	}

	slice, page, limit, total := Page(tutors, 0, -5, 10, 50)

	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 3, total)
	assert.Len(t, slice, 3)
}

func TestPageCapsLimit(t *testing.T) {
	tutors := make([]models.RankedTutor, 0, 60)
	for i := 0; i < 60; i++ {
		tutors = append(tutors, rankedFixture(string(rune('a'+i%26))+string(rune('a'+i/26)), 0, false, nil, 100))
	}

	slice, _, limit, total := Page(tutors, 1, 500, 10, 50)

	assert.Equal(t, 50, limit)
	assert.Len(t, slice, 50)
	assert.Equal(t, 60, total)
}

func TestPageConcatenationCoversAllWithoutDuplicates(t *testing.T) {
	tutors := []models.RankedTutor{
		rankedFixture("t1", 0, false, nil, 100),
		rankedFixture("t2", 0, false, nil, 100),
		rankedFixture("t3", 0, false, nil, 100),
		rankedFixture("t4", 0, false, nil, 100),
		rankedFixture("t5", 0, false, nil, 100),
	}

	var collected []string
	for page := 1; ; page++ {
		slice, _, limit, total := Page(tutors, page, 2, 10, 50)
		collected = append(collected, ids(slice)...)
		if page*limit >= total {
			break
		}
	}

	require.Equal(t, ids(tutors), collected)
}

func TestPageBeyondEndIsEmptyNotError(t *testing.T) {
	tutors := []models.RankedTutor{rankedFixture("t1", 0, false, nil, 100)}

	slice, page, _, total := Page(tutors, 7, 10, 10, 50)

	assert.Empty(t, slice)
	assert.Equal(t, 7, page)
	assert.Equal(t, 1, total)
}
