package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-advisor/internal/cache"
	"github.com/yourusername/parlay-advisor/internal/config"
)

// Factory creates Provider implementations based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClientConfig converts the http_client section into client settings
func (f *Factory) HTTPClientConfig() HTTPClientConfig {
	c := f.config.HTTPClient
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	cfg.MaxRetries = c.MaxRetries
	cfg.RetryWaitMin = time.Duration(c.RetryWaitMinMs) * time.Millisecond
	cfg.RetryWaitMax = time.Duration(c.RetryWaitMaxMs) * time.Millisecond
	cfg.RateLimit = c.RateLimit
	cfg.CircuitBreakerMax = c.CircuitBreakerMax
	return cfg
}

// NewProvider creates the API-Football provider over a shared rate-limited HTTP client
func (f *Factory) NewProvider(httpClient *RateLimitedHTTPClient) (Provider, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}

	api := f.config.APIFootball
	if api.APIKey == "" {
		return nil, fmt.Errorf("API-Football API key is required")
	}

	opts := APIFootballOptions{
		BaseURL:  api.BaseURL,
		APIKey:   api.APIKey,
		LeagueID: api.LeagueID,
		Season:   api.Season,
	}
	if api.ArchiveEnabled {
		opts.Archive = NewResponseArchive(api.ArchiveDir)
		f.logger.WithField("dir", api.ArchiveDir).Info("Archiving upstream responses")
	}

	return NewAPIFootballClient(httpClient, opts, f.logger), nil
}

// NewStore creates the configured cache backend, or nil when caching is disabled
func (f *Factory) NewStore(ctx context.Context) (cache.Store, error) {
	c := f.config.Cache
	if !c.Enabled {
		return nil, nil
	}

	switch c.Backend {
	case config.CacheBackendRedis:
		store, err := cache.ConnectRedis(ctx, cache.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			TTL:      f.config.CacheTTL(),
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendMemory, "":
		return cache.NewMemoryStore(f.config.CacheTTL(), c.MaxSize), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", c.Backend)
	}
}

// Stack is the assembled upstream access path
type Stack struct {
	// Provider serves lookups, through the cache when one is configured
	Provider Provider
	// Store is the cache backend, or nil when caching is disabled
	Store cache.Store

	httpClient *RateLimitedHTTPClient
}

// Close releases the HTTP client and cache store
func (s *Stack) Close() error {
	if s.httpClient != nil {
		s.httpClient.Close()
	}
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}

// Build assembles the provider stack: HTTP client, API client and, when enabled, the cache decorator.
func (f *Factory) Build(ctx context.Context) (*Stack, error) {
	httpClient := NewRateLimitedHTTPClient(f.HTTPClientConfig(), f.logger)

	provider, err := f.NewProvider(httpClient)
	if err != nil {
		return nil, err
	}

	store, err := f.NewStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache store: %w", err)
	}

	stack := &Stack{Provider: provider, Store: store, httpClient: httpClient}
	if store != nil {
		f.logger.WithField("backend", f.config.Cache.Backend).Info("Upstream response cache enabled")
		stack.Provider = NewCachedProvider(provider, store, f.config.CacheTTL(), f.logger)
	}
	return stack, nil
}
