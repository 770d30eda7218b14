// Package discovery implements the tutor discovery and ranking pipeline:
// flatten tutors into candidate rows, filter or score them, regroup by
// tutor, then rank and paginate. The pipeline is pure; it never touches
// the store and holds no state between invocations.
package discovery

import "github.com/ostazy-app/ostazy-api/internal/models"

// Stage is one composable step operating on candidate rows. Stages must be
// pure: no store access, no mutation of shared state.
type Stage interface {
	Name() string
	Apply(rows []models.CandidateRow) []models.CandidateRow
}

// Pipeline applies its stages in order.
type Pipeline struct {
	stages []Stage
}

// Run feeds the rows through every stage.
func (p *Pipeline) Run(rows []models.CandidateRow) []models.CandidateRow {
	for _, stage := range p.stages {
		rows = stage.Apply(rows)
	}
	return rows
}

// Stages exposes the assembled stage names, in order. Used by tests to
// assert conditional assembly without executing the pipeline.
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		names = append(names, stage.Name())
	}
	return names
}

// Builder assembles a pipeline from conditionally present stages.
type Builder struct {
	stages []Stage
}

// NewBuilder returns an empty pipeline builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Append adds a stage. Nil stages are skipped so callers can pass the
// result of conditional constructors directly.
func (b *Builder) Append(stage Stage) *Builder {
	if stage != nil {
		b.stages = append(b.stages, stage)
	}
	return b
}

// Build finalises the pipeline.
func (b *Builder) Build() *Pipeline {
	return &Pipeline{stages: b.stages}
}

// ForFilter assembles the filter-mode row pipeline: deduplication plus a
// predicate stage when any criterion is present.
func ForFilter(criteria models.FilterCriteria) *Pipeline {
	b := NewBuilder().Append(NewDedupeStage())
	if !criteria.Empty() {
		b.Append(NewMatchStage(criteria))
	} else {
		b.Append(matchAllStage{})
	}
	return b.Build()
}

// ForRecommend assembles the recommend-mode row pipeline: deduplication
// followed by scoring. Nothing in this pipeline drops rows.
func ForRecommend(profile models.StudentPreferenceProfile, weights Weights) *Pipeline {
	return NewBuilder().
		Append(NewDedupeStage()).
		Append(NewScoreStage(profile, weights)).
		Build()
}

// matchAllStage marks every row matched; used for the criteria-less plain
// listing so aggregation keeps all tutors.
type matchAllStage struct{}

func (matchAllStage) Name() string { return "match_all" }

func (matchAllStage) Apply(rows []models.CandidateRow) []models.CandidateRow {
	for i := range rows {
		rows[i].Matched = true
	}
	return rows
}

// DedupeStage removes duplicate (tutor, offering) pairs so aggregation
// never double-counts a score. The first occurrence wins.
type DedupeStage struct{}

// NewDedupeStage constructs a DedupeStage.
func NewDedupeStage() *DedupeStage {
	return &DedupeStage{}
}

// Name identifies the stage.
func (s *DedupeStage) Name() string { return "dedupe" }

// Apply drops rows whose (tutor, offering) identity was already seen.
func (s *DedupeStage) Apply(rows []models.CandidateRow) []models.CandidateRow {
	type rowKey struct {
		tutorID    string
		offeringID string
	}
	seen := make(map[rowKey]struct{}, len(rows))
	out := rows[:0]
	for _, row := range rows {
		key := rowKey{tutorID: row.Tutor.ID, offeringID: row.OfferingKey()}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}
