package discovery

import (
	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
)

// Weights holds every ranking weight in one place. Nothing else in the
// pipeline carries a numeric constant.
type Weights struct {
	GradeMatch           float64
	EducationSystemMatch float64
	SectorMatch          float64
	RatingWeight         float64
	GovernateBoost       float64
	NameMatchBoost       float64
}

// DefaultWeights returns the product-default ranking weights.
func DefaultWeights() Weights {
	return Weights{
		GradeMatch:           2,
		EducationSystemMatch: 2,
		SectorMatch:          1,
		RatingWeight:         1,
		GovernateBoost:       1,
		NameMatchBoost:       5,
	}
}

// WeightsFromConfig maps the scoring config section onto pipeline weights,
// falling back to the default for any weight left unset.
func WeightsFromConfig(cfg config.ScoringConfig) Weights {
	w := DefaultWeights()
	if cfg.GradeMatch > 0 {
		w.GradeMatch = cfg.GradeMatch
	}
	if cfg.EducationSystemMatch > 0 {
		w.EducationSystemMatch = cfg.EducationSystemMatch
	}
	if cfg.SectorMatch > 0 {
		w.SectorMatch = cfg.SectorMatch
	}
	if cfg.RatingWeight > 0 {
		w.RatingWeight = cfg.RatingWeight
	}
	if cfg.GovernateBoost > 0 {
		w.GovernateBoost = cfg.GovernateBoost
	}
	if cfg.NameMatchBoost > 0 {
		w.NameMatchBoost = cfg.NameMatchBoost
	}
	return w
}

// ScoreStage computes a per-row relevance score from the student profile.
// Scoring only ever boosts; no row is dropped here, whatever the score.
type ScoreStage struct {
	profile models.StudentPreferenceProfile
	weights Weights
}

// NewScoreStage constructs a ScoreStage.
func NewScoreStage(profile models.StudentPreferenceProfile, weights Weights) *ScoreStage {
	return &ScoreStage{profile: profile, weights: weights}
}

// Name identifies the stage.
func (s *ScoreStage) Name() string { return "score" }

// Apply scores every row in place. Tutor-level boosts (governate, name
// match) are applied once per tutor during aggregation, not here, so they
// cannot multiply with the offering count.
func (s *ScoreStage) Apply(rows []models.CandidateRow) []models.CandidateRow {
	for i := range rows {
		rows[i].Score = s.scoreRow(rows[i])
		rows[i].Matched = true
	}
	return rows
}

func (s *ScoreStage) scoreRow(row models.CandidateRow) float64 {
	if row.Offering == nil {
		return 0
	}
	var score float64
	if s.profile.Grade != "" && row.Offering.Grade == s.profile.Grade {
		score += s.weights.GradeMatch
	}
	if s.profile.EducationSystem != "" && row.Offering.EducationSystem == s.profile.EducationSystem {
		score += s.weights.EducationSystemMatch
	}
	if s.profile.Sector != "" && row.Offering.Sector == s.profile.Sector {
		score += s.weights.SectorMatch
	}
	score += row.Offering.RatingOrZero() * s.weights.RatingWeight
	return score
}
