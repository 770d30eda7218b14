package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

const listingKeyPrefix = "ostazy:listings:"

// ListingCache is the subset of the cache repository the services use.
type ListingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, pattern string) error
}

// CacheService caches paginated filter-mode listings. Recommend results
// are personalised and never cached.
type CacheService struct {
	cache   ListingCache
	ttl     time.Duration
	enabled bool
}

// NewCacheService constructs a CacheService.
func NewCacheService(cache ListingCache, cfg config.DiscoveryConfig) *CacheService {
	return &CacheService{
		cache:   cache,
		ttl:     cfg.CacheTTL,
		enabled: cfg.CacheEnabled && cache != nil,
	}
}

// GetListing loads a cached listing page. Returns errors.ErrCacheMiss
// when caching is disabled or the entry is absent.
func (s *CacheService) GetListing(ctx context.Context, criteria models.FilterCriteria, page, limit int) (*models.DiscoveryResult, error) {
	if !s.enabled {
		return nil, errors.ErrCacheMiss
	}

	var result models.DiscoveryResult
	if err := s.cache.Get(ctx, listingKey(criteria, page, limit), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetListing stores a listing page. Failures are the caller's to log;
// they never fail the request.
func (s *CacheService) SetListing(ctx context.Context, criteria models.FilterCriteria, page, limit int, result *models.DiscoveryResult) error {
	if !s.enabled {
		return nil
	}
	return s.cache.Set(ctx, listingKey(criteria, page, limit), result, s.ttl)
}

// InvalidateListings drops every cached listing page.
func (s *CacheService) InvalidateListings(ctx context.Context) error {
	if !s.enabled {
		return nil
	}
	return s.cache.Delete(ctx, listingKeyPrefix+"*")
}

// listingKey derives a stable key from the criteria and page window. The
// criteria are hashed so free-text values never leak into key space.
func listingKey(c models.FilterCriteria, page, limit int) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%v|%v|%v|%s|%d|%d",
		c.EducationSystem, c.Grade, c.Subject, c.Language, c.Sector,
		c.Governate, c.District,
		floatKey(c.MinRating), floatKey(c.MinPrice), floatKey(c.MaxPrice),
		c.SortBy, page, limit)

	sum := sha256.Sum256([]byte(raw))
	return listingKeyPrefix + hex.EncodeToString(sum[:16])
}

func floatKey(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *f)
}
