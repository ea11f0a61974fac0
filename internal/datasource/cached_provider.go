package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-advisor/internal/cache"
	"github.com/yourusername/parlay-advisor/internal/models"
)

// CachedProvider wraps a Provider with a response cache.
// Only successful lookups are cached; failures always reach the upstream again.
type CachedProvider struct {
	provider Provider
	store    cache.Store
	ttl      time.Duration
	logger   *logrus.Entry
}

// NewCachedProvider creates a new cached provider
func NewCachedProvider(provider Provider, store cache.Store, ttl time.Duration, logger *logrus.Logger) *CachedProvider {
	if logger == nil {
		logger = logrus.New()
	}
	return &CachedProvider{
		provider: provider,
		store:    store,
		ttl:      ttl,
		logger:   logger.WithField("component", "provider_cache"),
	}
}

// FetchFixtures retrieves fixtures with caching
func (c *CachedProvider) FetchFixtures(ctx context.Context, date string) ([]models.Match, error) {
	var matches []models.Match
	err := c.cached(ctx, "fixtures:"+date, &matches, func() (any, error) {
		m, err := c.provider.FetchFixtures(ctx, date)
		matches = m
		return m, err
	})
	return matches, err
}

// FetchPrediction retrieves a prediction with caching; an absent prediction is cached too
func (c *CachedProvider) FetchPrediction(ctx context.Context, fixtureID int) (*models.PredictionSignal, error) {
	var prediction *models.PredictionSignal
	err := c.cached(ctx, fmt.Sprintf("prediction:%d", fixtureID), &prediction, func() (any, error) {
		p, err := c.provider.FetchPrediction(ctx, fixtureID)
		prediction = p
		return p, err
	})
	return prediction, err
}

// FetchTeamStatistics retrieves team statistics with caching
func (c *CachedProvider) FetchTeamStatistics(ctx context.Context, teamID int, date string) (*models.TeamStatistics, error) {
	var stats *models.TeamStatistics
	err := c.cached(ctx, fmt.Sprintf("stats:%d:%s", teamID, date), &stats, func() (any, error) {
		s, err := c.provider.FetchTeamStatistics(ctx, teamID, date)
		stats = s
		return s, err
	})
	return stats, err
}

// FetchOdds retrieves odds with caching
func (c *CachedProvider) FetchOdds(ctx context.Context, fixtureID int) ([]models.OddsQuote, error) {
	var quotes []models.OddsQuote
	err := c.cached(ctx, fmt.Sprintf("odds:%d", fixtureID), &quotes, func() (any, error) {
		q, err := c.provider.FetchOdds(ctx, fixtureID)
		quotes = q
		return q, err
	})
	return quotes, err
}

// Ping checks the wrapped provider, bypassing the cache
func (c *CachedProvider) Ping(ctx context.Context) error {
	return c.provider.Ping(ctx)
}

// Name returns the wrapped provider's name
func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

// cached serves key from the store into dst, or calls load (which must fill dst itself) and stores its value.
// Store failures are logged and never fail the lookup.
func (c *CachedProvider) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	found, err := c.store.Get(ctx, key, dst)
	if err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Cache read failed")
	}
	if found {
		c.logger.WithField("cache_key", key).Debug("Cache hit")
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.WithError(err).WithField("cache_key", key).Warn("Cache write failed")
	}
	return nil
}
