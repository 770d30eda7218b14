package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ostazy-app/ostazy-api/internal/models"
)

func f64(v float64) *float64 { return &v }

func tutorFixture(id, name, governate, district string, rating *float64) models.Tutor {
	return models.Tutor{
		ID:        id,
		FullName:  name,
		Governate: governate,
		District:  district,
		Rating:    rating,
		Active:    true,
	}
}

func offeringFixture(id, subject, grade string, private, group float64, rating *float64) models.OfferingView {
	return models.OfferingView{
		ID:              id,
		SubjectID:       "sub-" + id,
		SubjectName:     subject,
		Grade:           grade,
		Sector:          "scientific",
		EducationSystem: "national",
		Language:        "arabic",
		PrivatePrice:    private,
		GroupPrice:      group,
		Rating:          rating,
	}
}

func rowFixture(t models.Tutor, o *models.OfferingView) models.CandidateRow {
	return models.CandidateRow{Tutor: t, Offering: o}
}

func TestMatchesEmptyCriteriaAcceptsEverything(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", f64(4.5))
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, f64(4.8))

	assert.True(t, Matches(models.FilterCriteria{}, rowFixture(tutor, &offering)))
	assert.True(t, Matches(models.FilterCriteria{}, rowFixture(tutor, nil)))
}

func TestMatchesCategoricalEquality(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	row := rowFixture(tutor, &offering)

	assert.True(t, Matches(models.FilterCriteria{Grade: "Secondary 3"}, row))
	assert.False(t, Matches(models.FilterCriteria{Grade: "Secondary 2"}, row))
	// Equality is case-sensitive as stored, not normalised.
	assert.False(t, Matches(models.FilterCriteria{Grade: "secondary 3"}, row))
	assert.True(t, Matches(models.FilterCriteria{Subject: "Math", Sector: "scientific"}, row))
	assert.False(t, Matches(models.FilterCriteria{Subject: "Math", Sector: "literary"}, row))
}

func TestMatchesTutorLevelCriteria(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)

	assert.True(t, Matches(models.FilterCriteria{Governate: "Cairo"}, rowFixture(tutor, &offering)))
	assert.False(t, Matches(models.FilterCriteria{Governate: "Giza"}, rowFixture(tutor, &offering)))
	// Tutor-level criteria alone also apply to tutors with no offerings.
	assert.True(t, Matches(models.FilterCriteria{Governate: "Cairo"}, rowFixture(tutor, nil)))
	assert.False(t, Matches(models.FilterCriteria{District: "Maadi"}, rowFixture(tutor, nil)))
}

func TestMatchesNilOfferingFailsOfferingCriteria(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	row := rowFixture(tutor, nil)

	assert.False(t, Matches(models.FilterCriteria{Grade: "Secondary 3"}, row))
	assert.False(t, Matches(models.FilterCriteria{MinPrice: f64(100)}, row))
	assert.False(t, Matches(models.FilterCriteria{MinRating: f64(1)}, row))
}

func TestMatchesMinRating(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	rated := offeringFixture("o1", "Math", "Secondary 3", 800, 300, f64(4.2))
	unrated := offeringFixture("o2", "Math", "Secondary 3", 800, 300, nil)

	assert.True(t, Matches(models.FilterCriteria{MinRating: f64(4.0)}, rowFixture(tutor, &rated)))
	assert.False(t, Matches(models.FilterCriteria{MinRating: f64(4.5)}, rowFixture(tutor, &rated)))
	// No rating yet means the threshold cannot be met.
	assert.False(t, Matches(models.FilterCriteria{MinRating: f64(0.1)}, rowFixture(tutor, &unrated)))
}

// The price range matches when EITHER price type falls inside it. Reading
// it as an AND across both prices is the obvious wrong implementation, so
// the OR semantics are pinned here explicitly.
func TestMatchesPriceRangeIsOrAcrossPriceTypes(t *testing.T) {
	tutor := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	offering := offeringFixture("o1", "Math", "Secondary 3", 800, 300, nil)
	row := rowFixture(tutor, &offering)

	// Only the group price (300) is inside [200, 400].
	assert.True(t, Matches(models.FilterCriteria{MinPrice: f64(200), MaxPrice: f64(400)}, row))
	// Only the private price (800) is inside [700, 900].
	assert.True(t, Matches(models.FilterCriteria{MinPrice: f64(700), MaxPrice: f64(900)}, row))
	// Neither price is inside [400, 700].
	assert.False(t, Matches(models.FilterCriteria{MinPrice: f64(400), MaxPrice: f64(700)}, row))
	// Open-ended bounds behave the same way.
	assert.True(t, Matches(models.FilterCriteria{MaxPrice: f64(350)}, row))
	assert.True(t, Matches(models.FilterCriteria{MinPrice: f64(750)}, row))
}

// Filter monotonicity: adding one more criterion can never grow the
// matched set.
func TestMatchStageMonotonicity(t *testing.T) {
	tutorA := tutorFixture("t1", "Ahmed", "Cairo", "Nasr City", nil)
	tutorB := tutorFixture("t2", "Tarek", "Giza", "Dokki", nil)
	oA := offeringFixture("o1", "Math", "Secondary 3", 800, 300, f64(4.8))
	oB := offeringFixture("o2", "Math", "Secondary 2", 200, 150, f64(3.2))
	rows := []models.CandidateRow{
		rowFixture(tutorA, &oA),
		rowFixture(tutorB, &oB),
	}

	loose := models.FilterCriteria{Subject: "Math"}
	strict := models.FilterCriteria{Subject: "Math", Grade: "Secondary 3"}

	looseRows := NewMatchStage(loose).Apply(append([]models.CandidateRow(nil), rows...))
	strictRows := NewMatchStage(strict).Apply(append([]models.CandidateRow(nil), rows...))

	assert.LessOrEqual(t, len(strictRows), len(looseRows))
	assert.Len(t, looseRows, 2)
	assert.Len(t, strictRows, 1)
	assert.Equal(t, "t1", strictRows[0].Tutor.ID)
}
