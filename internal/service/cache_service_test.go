package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostazy-app/ostazy-api/internal/models"
	"github.com/ostazy-app/ostazy-api/pkg/config"
	"github.com/ostazy-app/ostazy-api/pkg/errors"
)

type fakeListingCache struct {
	store map[string][]byte
	sets  int
}

func newFakeListingCache() *fakeListingCache {
	return &fakeListingCache{store: map[string][]byte{}}
}

func (f *fakeListingCache) Get(_ context.Context, key string, dest interface{}) error {
	if _, ok := f.store[key]; !ok {
		return errors.ErrCacheMiss
	}
	result := dest.(*models.DiscoveryResult)
	result.Total = 1
	return nil
}

func (f *fakeListingCache) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	f.store[key] = []byte("x")
	f.sets++
	return nil
}

func (f *fakeListingCache) Delete(_ context.Context, _ string) error {
	f.store = map[string][]byte{}
	return nil
}

func enabledDiscoveryConfig() config.DiscoveryConfig {
	return config.DiscoveryConfig{CacheEnabled: true, CacheTTL: time.Minute}
}

func TestCacheServiceRoundTrip(t *testing.T) {
	cache := newFakeListingCache()
	svc := NewCacheService(cache, enabledDiscoveryConfig())
	criteria := models.FilterCriteria{Grade: "Secondary 3"}

	_, err := svc.GetListing(context.Background(), criteria, 1, 10)
	assert.ErrorIs(t, err, errors.ErrCacheMiss)

	require.NoError(t, svc.SetListing(context.Background(), criteria, 1, 10, &models.DiscoveryResult{}))

	cached, err := svc.GetListing(context.Background(), criteria, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Total)
}

func TestCacheServiceDisabledNeverTouchesStore(t *testing.T) {
	cache := newFakeListingCache()
	svc := NewCacheService(cache, config.DiscoveryConfig{CacheEnabled: false})

	_, err := svc.GetListing(context.Background(), models.FilterCriteria{}, 1, 10)
	assert.ErrorIs(t, err, errors.ErrCacheMiss)

	require.NoError(t, svc.SetListing(context.Background(), models.FilterCriteria{}, 1, 10, &models.DiscoveryResult{}))
	assert.Zero(t, cache.sets)
}

func TestListingKeyDistinguishesCriteriaAndWindow(t *testing.T) {
	base := models.FilterCriteria{Grade: "Secondary 3"}

	assert.Equal(t, listingKey(base, 1, 10), listingKey(base, 1, 10))
	assert.NotEqual(t, listingKey(base, 1, 10), listingKey(base, 2, 10))
	assert.NotEqual(t, listingKey(base, 1, 10),
		listingKey(models.FilterCriteria{Grade: "Secondary 2"}, 1, 10))
}

func TestListingKeyHidesRawValues(t *testing.T) {
	key := listingKey(models.FilterCriteria{Governate: "Cairo"}, 1, 10)

	assert.True(t, strings.HasPrefix(key, listingKeyPrefix))
	assert.NotContains(t, key, "Cairo")
}
