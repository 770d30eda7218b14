package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

func TestFilterAggregationProjectsMatchedSubset(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", f64(4.5))
	matched := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	dropped := offeringFixture("o2", "Physics", "Secondary 2", 500, 200, nil)

	rows := []models.CandidateRow{
		{Tutor: tutor, Offering: &matched, Matched: true},
		{Tutor: tutor, Offering: &dropped, Matched: false},
	}

	out := NewFilterAggregator().Aggregate(rows)

	require.Len(t, out, 1)
	require.Len(t, out[0].Offerings, 1)
	assert.Equal(t, "o1", out[0].Offerings[0].ID)
}

func TestFilterAggregationDropsFullyUnmatchedTutor(t *testing.T) {
	tutor := tutorFixture("t2", "Tarek", "Giza", "Dokki", nil)
	offering := offeringFixture("o3", "Math", "Secondary 2", 200, 150, nil)

	out := NewFilterAggregator().Aggregate([]models.CandidateRow{
		{Tutor: tutor, Offering: &offering, Matched: false},
	})

	assert.Empty(t, out)
}

func TestRecommendAggregationKeepsEveryTutor(t *testing.T) {
	tutorA := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	tutorB := tutorFixture("t3", "Mona", "Giza", "Dokki", nil)
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)

	rows := []models.CandidateRow{
		{Tutor: tutorA, Offering: &offering, Score: 2},
		{Tutor: tutorB}, // no offerings at all
	}

	out := NewRecommendAggregator(models.StudentPreferenceProfile{}, "", DefaultWeights()).Aggregate(rows)

	require.Len(t, out, 2)
	assert.Equal(t, float64(2), out[0].Score)
	assert.Zero(t, out[1].Score)
	assert.Empty(t, out[1].Offerings)
}

func TestRecommendAggregationSumsRowScores(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	o1 := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	o2 := offeringFixture("o2", "Physics", "Secondary 3", 700, 250, nil)

	out := NewRecommendAggregator(models.StudentPreferenceProfile{}, "", DefaultWeights()).Aggregate([]models.CandidateRow{
		{Tutor: tutor, Offering: &o1, Score: 2.5},
		{Tutor: tutor, Offering: &o2, Score: 1.5},
	})

	require.Len(t, out, 1)
	assert.InDelta(t, 4.0, out[0].Score, 1e-9)
	assert.Len(t, out[0].Offerings, 2)
}

func TestRecommendAggregationDuplicateRowsDoNotDoubleCount(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	dup := models.CandidateRow{Tutor: tutor, Offering: &offering, Score: 3}

	out := NewRecommendAggregator(models.StudentPreferenceProfile{}, "", DefaultWeights()).Aggregate(
		[]models.CandidateRow{dup, dup, dup},
	)

	require.Len(t, out, 1)
	assert.InDelta(t, 3.0, out[0].Score, 1e-9)
	assert.Len(t, out[0].Offerings, 1)
}

func TestRecommendAggregationTutorBoostsAppliedOnce(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed Hassan", "Cairo", "Nasr City", f64(4.0))
	o1 := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	o2 := offeringFixture("o2", "Physics", "Secondary 3", 700, 250, nil)

	profile := models.StudentPreferenceProfile{Governate: "Cairo"}
	out := NewRecommendAggregator(profile, "ahmed", DefaultWeights()).Aggregate([]models.CandidateRow{
		{Tutor: tutor, Offering: &o1},
		{Tutor: tutor, Offering: &o2},
	})

	require.Len(t, out, 1)
	// governate 1 + name match 5 + tutor rating 4, once, despite two rows.
	assert.InDelta(t, 10.0, out[0].Score, 1e-9)
}

func TestRecommendAggregationNameBoostNeverExcludes(t *testing.T) {
	matchName := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	otherName := tutorFixture("t2", "Tarek", "Cairo", "Nasr City", nil)

	out := NewRecommendAggregator(models.StudentPreferenceProfile{}, "ahmed", DefaultWeights()).Aggregate(
		[]models.CandidateRow{{Tutor: matchName}, {Tutor: otherName}},
	)

	require.Len(t, out, 2)
	assert.Equal(t, DefaultWeights().NameMatchBoost, out[0].Score)
	assert.Zero(t, out[1].Score)
}

func TestRecommendAggregationNilTutorRatingContributesZero(t *testing.T) {
	unrated := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)

	out := NewRecommendAggregator(models.StudentPreferenceProfile{}, "", DefaultWeights()).Aggregate(
		[]models.CandidateRow{{Tutor: unrated}},
	)

	require.Len(t, out, 1)
	assert.Zero(t, out[0].Score)
}
