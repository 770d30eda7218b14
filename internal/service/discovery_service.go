package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/ostazy-app/ostazy-api/internal/discovery"
	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

// TutorStore loads tutor candidates for the discovery pipeline.
type TutorStore interface {
	ListWithOfferings(ctx context.Context, pre models.TutorPrefilter) ([]models.TutorWithOfferings, error)
}

// StudentStore loads preference profiles for recommend mode.
type StudentStore interface {
	FindPreferenceProfile(ctx context.Context, studentID string) (*models.StudentPreferenceProfile, error)
}

// DiscoveryService orchestrates both discovery modes end to end: load,
// flatten, pipeline, aggregate, rank, paginate.
type DiscoveryService struct {
	tutors   TutorStore
	students StudentStore
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger

	weights     discovery.Weights
	defaultPage int
	maxPage     int
}

// NewDiscoveryService constructs a DiscoveryService.
func NewDiscoveryService(
	tutors TutorStore,
	students StudentStore,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
	cfg *config.Config,
) *DiscoveryService {
	return &DiscoveryService{
		tutors:      tutors,
		students:    students,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		weights:     discovery.WeightsFromConfig(cfg.Scoring),
		defaultPage: cfg.Discovery.DefaultPageSize,
		maxPage:     cfg.Discovery.MaxPageSize,
	}
}

// Filter serves the public listing. Absent criteria mean a plain listing
// of every active tutor.
func (s *DiscoveryService) Filter(ctx context.Context, criteria models.FilterCriteria, page, limit int) (*models.DiscoveryResult, error) {
	start := time.Now()

	if cached, err := s.cache.GetListing(ctx, criteria, page, limit); err == nil {
		s.metrics.ObserveCache(true)
		s.metrics.ObserveDiscovery("filter", len(cached.Tutors), time.Since(start))
		return cached, nil
	}
	s.metrics.ObserveCache(false)

	ranked, err := s.filterAll(ctx, criteria)
	if err != nil {
		return nil, err
	}

	result := paginate(ranked, page, limit, s.defaultPage, s.maxPage)

	if err := s.cache.SetListing(ctx, criteria, result.Page, result.Limit, result); err != nil {
		s.logger.Warn("listing cache write failed", zap.Error(err))
	}

	s.metrics.ObserveDiscovery("filter", len(result.Tutors), time.Since(start))
	return result, nil
}

// FilterAll runs filter mode without pagination, capped by the caller.
// Used by exports.
func (s *DiscoveryService) FilterAll(ctx context.Context, criteria models.FilterCriteria, maxRows int) ([]models.RankedTutor, error) {
	ranked, err := s.filterAll(ctx, criteria)
	if err != nil {
		return nil, err
	}
	if maxRows > 0 && len(ranked) > maxRows {
		ranked = ranked[:maxRows]
	}
	return ranked, nil
}

// Recommend serves the personalised listing for a student. A missing
// profile or an empty first page degrades to the plain listing instead
// of failing; the result is flagged so clients can tell.
func (s *DiscoveryService) Recommend(ctx context.Context, studentID, query, sortBy string, page, limit int) (*models.DiscoveryResult, error) {
	start := time.Now()

	profile, err := s.students.FindPreferenceProfile(ctx, studentID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			s.logger.Info("no preference profile, serving plain listing",
				zap.String("student_id", studentID))
			return s.fallback(ctx, sortBy, page, limit)
		}
		return nil, errors.Wrap(err, errors.ErrServiceUnavailable.Code,
			errors.ErrServiceUnavailable.Status, "student profile lookup failed")
	}

	candidates, err := s.loadCandidates(ctx, models.TutorPrefilter{})
	if err != nil {
		return nil, err
	}

	rows := discovery.ForRecommend(*profile, s.weights).Run(discovery.Flatten(candidates))
	ranked := discovery.NewRecommendAggregator(*profile, query, s.weights).Aggregate(rows)
	discovery.NewRanker(discovery.ModeRecommend, sortBy).Sort(ranked)

	result := paginate(ranked, page, limit, s.defaultPage, s.maxPage)

	// First page empty means there is nothing to personalise; degrade to
	// the plain listing rather than showing the student a blank screen.
	if result.Page == 1 && len(result.Tutors) == 0 {
		return s.fallback(ctx, sortBy, page, limit)
	}

	s.metrics.ObserveDiscovery("recommend", len(result.Tutors), time.Since(start))
	return result, nil
}

func (s *DiscoveryService) fallback(ctx context.Context, sortBy string, page, limit int) (*models.DiscoveryResult, error) {
	s.metrics.ObserveFallback()

	result, err := s.Filter(ctx, models.FilterCriteria{SortBy: sortBy}, page, limit)
	if err != nil {
		return nil, err
	}
	result.Fallback = true
	return result, nil
}

func (s *DiscoveryService) filterAll(ctx context.Context, criteria models.FilterCriteria) ([]models.RankedTutor, error) {
	candidates, err := s.loadCandidates(ctx, criteria.Prefilter())
	if err != nil {
		return nil, err
	}

	rows := discovery.ForFilter(criteria).Run(discovery.Flatten(candidates))
	ranked := discovery.NewFilterAggregator().Aggregate(rows)
	discovery.NewRanker(discovery.ModeFilter, criteria.SortBy).Sort(ranked)
	return ranked, nil
}

func (s *DiscoveryService) loadCandidates(ctx context.Context, pre models.TutorPrefilter) ([]models.TutorWithOfferings, error) {
	candidates, err := s.tutors.ListWithOfferings(ctx, pre)
	if err != nil {
		s.logger.Error("tutor store unavailable", zap.Error(err))
		return nil, errors.Wrap(err, errors.ErrServiceUnavailable.Code,
			errors.ErrServiceUnavailable.Status, "tutor store unavailable")
	}
	return candidates, nil
}

func paginate(ranked []models.RankedTutor, page, limit, defaultLimit, maxLimit int) *models.DiscoveryResult {
	slice, page, limit, total := discovery.Page(ranked, page, limit, defaultLimit, maxLimit)
	return &models.DiscoveryResult{
		Tutors: slice,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
}
