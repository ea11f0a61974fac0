// Package service provides parlay recommendation functionality.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/parlay-advisor/internal/analysis"
	"github.com/yourusername/parlay-advisor/internal/config"
	"github.com/yourusername/parlay-advisor/internal/datasource"
	"github.com/yourusername/parlay-advisor/internal/logger"
	"github.com/yourusername/parlay-advisor/internal/metrics"
	"github.com/yourusername/parlay-advisor/internal/models"
	"github.com/yourusername/parlay-advisor/internal/tracing"
)

const defaultMaxConcurrentMatches = 4

// TierPolicy is a selection tier plus its expected-return scaling
type TierPolicy struct {
	analysis.Tier
	// ReturnMultiplier scales the expected return; values below 1 are treated as 1
	ReturnMultiplier int
}

// Options configures the recommendation pipeline
type Options struct {
	MaxConcurrentMatches int
	LowRisk              TierPolicy
	HighRisk             TierPolicy
}

// DefaultOptions returns the built-in tiers with no return scaling
func DefaultOptions() Options {
	return Options{
		MaxConcurrentMatches: defaultMaxConcurrentMatches,
		LowRisk:              TierPolicy{Tier: analysis.LowRiskTier, ReturnMultiplier: 1},
		HighRisk:             TierPolicy{Tier: analysis.HighRiskTier, ReturnMultiplier: 1},
	}
}

// OptionsFromConfig builds pipeline options from the analysis section
func OptionsFromConfig(cfg config.AnalysisConfig) Options {
	return Options{
		MaxConcurrentMatches: cfg.MaxConcurrentMatches,
		LowRisk: TierPolicy{
			Tier: analysis.Tier{
				Name:              analysis.LowRiskTier.Name,
				TargetProbability: cfg.LowRisk.TargetProbability,
				MaxLegs:           cfg.LowRisk.MaxLegs,
			},
			ReturnMultiplier: cfg.LowRisk.ReturnMultiplier,
		},
		HighRisk: TierPolicy{
			Tier: analysis.Tier{
				Name:              analysis.HighRiskTier.Name,
				TargetProbability: cfg.HighRisk.TargetProbability,
				MaxLegs:           cfg.HighRisk.MaxLegs,
			},
			ReturnMultiplier: cfg.HighRisk.ReturnMultiplier,
		},
	}
}

// ParlayService gathers signals for a date's fixtures and builds the two tiered parlays
type ParlayService struct {
	provider       datasource.Provider
	scorer         *analysis.MarketScorer
	opts           Options
	logger         *logrus.Logger
	analysisLogger *logger.AnalysisLogger
}

// NewParlayService creates a new parlay service
func NewParlayService(provider datasource.Provider, opts Options, log *logrus.Logger) *ParlayService {
	if log == nil {
		log = logrus.New()
	}
	if opts.MaxConcurrentMatches <= 0 {
		opts.MaxConcurrentMatches = defaultMaxConcurrentMatches
	}
	return &ParlayService{
		provider:       provider,
		scorer:         analysis.NewMarketScorer(),
		opts:           opts,
		logger:         log,
		analysisLogger: logger.NewAnalysisLogger(log),
	}
}

// GetRecommendations produces the low-risk and high-risk parlays for date (YYYY-MM-DD).
// It fails with models.ErrInvalidDate for a malformed date and wraps models.ErrUpstreamUnavailable
// when fixtures, predictions or statistics cannot be fetched. Odds failures only lower confidence.
func (s *ParlayService) GetRecommendations(ctx context.Context, date string) (*models.ParlayRecommendation, error) {
	start := time.Now()

	if _, err := models.ParseDate(date); err != nil {
		metrics.RecordRecommendation("invalid_date", time.Since(start).Seconds())
		return nil, err
	}

	matches, err := s.provider.FetchFixtures(ctx, date)
	if err != nil {
		metrics.RecordRecommendation("upstream_error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: fixtures for %s: %w", models.ErrUpstreamUnavailable, date, err)
	}

	pool, err := s.collectPool(ctx, date, matches)
	if err != nil {
		metrics.RecordRecommendation("upstream_error", time.Since(start).Seconds())
		return nil, err
	}

	recommendation := &models.ParlayRecommendation{
		LowRisk:  s.buildParlay(pool, s.opts.LowRisk),
		HighRisk: s.buildParlay(pool, s.opts.HighRisk),
	}

	elapsed := time.Since(start)
	metrics.RecordRecommendation("success", elapsed.Seconds())
	s.analysisLogger.LogRecommendation(date, len(matches), len(pool), float64(elapsed.Milliseconds()))

	return recommendation, nil
}

// Prefetch loads every upstream record GetRecommendations would need for date, so a cached
// provider serves the next request without upstream calls. It returns the number of fixtures warmed.
func (s *ParlayService) Prefetch(ctx context.Context, date string) (int, error) {
	if _, err := models.ParseDate(date); err != nil {
		return 0, err
	}

	matches, err := s.provider.FetchFixtures(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("%w: fixtures for %s: %w", models.ErrUpstreamUnavailable, date, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrentMatches)
	for _, match := range matches {
		match := match
		g.Go(func() error {
			_, err := s.gatherMatch(gctx, match, date)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"date":     date,
		"fixtures": len(matches),
	}).Info("Upstream data prefetched")
	return len(matches), nil
}

// collectPool scores every match concurrently and flattens the propositions in fixture order
func (s *ParlayService) collectPool(ctx context.Context, date string, matches []models.Match) ([]models.BettingOption, error) {
	results := make([][]models.BettingOption, len(matches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrentMatches)
	for i, match := range matches {
		i, match := i, match
		g.Go(func() error {
			data, err := s.gatherMatch(gctx, match, date)
			if err != nil {
				return err
			}

			options := s.scorer.Score(*data)
			for _, o := range options {
				metrics.RecordProposition(o.Bet)
			}
			s.analysisLogger.LogMatchScored(match.ID, match.Label(), len(options))

			results[i] = options
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pool := make([]models.BettingOption, 0, len(matches)*3)
	for _, options := range results {
		pool = append(pool, options...)
	}
	return pool, nil
}

// gatherMatch fetches the four signals for one match concurrently
func (s *ParlayService) gatherMatch(ctx context.Context, match models.Match, date string) (data *models.MatchData, err error) {
	ctx, closeSeg := tracing.StartSubsegment(ctx, "gather_match")
	defer func() { closeSeg(err) }()
	tracing.AddAnnotation(ctx, "fixture_id", match.ID)

	data = &models.MatchData{Match: match}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		prediction, err := s.provider.FetchPrediction(gctx, match.ID)
		if err != nil {
			return fmt.Errorf("%w: prediction for fixture %d: %w", models.ErrUpstreamUnavailable, match.ID, err)
		}
		data.Prediction = prediction
		return nil
	})
	g.Go(func() error {
		stats, err := s.provider.FetchTeamStatistics(gctx, match.Home.ID, date)
		if err != nil {
			return fmt.Errorf("%w: statistics for team %d: %w", models.ErrUpstreamUnavailable, match.Home.ID, err)
		}
		data.HomeStats = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.provider.FetchTeamStatistics(gctx, match.Away.ID, date)
		if err != nil {
			return fmt.Errorf("%w: statistics for team %d: %w", models.ErrUpstreamUnavailable, match.Away.ID, err)
		}
		data.AwayStats = stats
		return nil
	})
	g.Go(func() error {
		quotes, err := s.provider.FetchOdds(gctx, match.ID)
		if err != nil {
			metrics.RecordSignalDegraded("odds")
			s.analysisLogger.LogSignalDegraded(match.ID, "odds", err)
			return nil
		}
		data.Odds = quotes
		return nil
	})

	if err = g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// buildParlay applies a tier to the pool and formats the result
func (s *ParlayService) buildParlay(pool []models.BettingOption, policy TierPolicy) models.Parlay {
	legs := policy.Select(pool)
	probability := analysis.CombinedProbability(legs)

	multiplier := policy.ReturnMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	expectedReturn := analysis.ExpectedReturn(probability) * multiplier

	betting := make(map[string]string, len(legs))
	for _, leg := range legs {
		betting[leg.Game] = leg.Bet
	}

	metrics.UpdateParlay(policy.Name, len(legs), probability)
	s.analysisLogger.LogParlaySelected(policy.Name, len(legs), probability, expectedReturn)

	return models.Parlay{
		Betting:            betting,
		Legs:               legs,
		SuccessProbability: fmt.Sprintf("%d%%", probability),
		ExpectedReturn:     fmt.Sprintf("%d%%", expectedReturn),
	}
}
