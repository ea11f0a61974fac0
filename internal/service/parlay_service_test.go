package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-advisor/internal/analysis"
	"github.com/yourusername/parlay-advisor/internal/config"
	"github.com/yourusername/parlay-advisor/internal/models"
)

const testDate = "2024-05-12"

// MockProvider mocks the upstream data provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchFixtures(ctx context.Context, date string) ([]models.Match, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Match), args.Error(1)
}

func (m *MockProvider) FetchPrediction(ctx context.Context, fixtureID int) (*models.PredictionSignal, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PredictionSignal), args.Error(1)
}

func (m *MockProvider) FetchTeamStatistics(ctx context.Context, teamID int, date string) (*models.TeamStatistics, error) {
	args := m.Called(ctx, teamID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TeamStatistics), args.Error(1)
}

func (m *MockProvider) FetchOdds(ctx context.Context, fixtureID int) ([]models.OddsQuote, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OddsQuote), args.Error(1)
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockProvider) Name() string {
	return "mock"
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

var (
	matchA = models.Match{ID: 1, Home: models.Team{ID: 10, Name: "Flamengo"}, Away: models.Team{ID: 20, Name: "Santos"}}
	matchB = models.Match{ID: 2, Home: models.Team{ID: 30, Name: "Palmeiras"}, Away: models.Team{ID: 40, Name: "Gremio"}}
)

// strong home side: Home Win 74, Both Score 100, Over 2.5 70
func setupMatchA(p *MockProvider) {
	p.On("FetchPrediction", mock.Anything, matchA.ID).Return(&models.PredictionSignal{FixtureID: matchA.ID, Advice: "Home Win"}, nil)
	p.On("FetchTeamStatistics", mock.Anything, matchA.Home.ID, testDate).Return(&models.TeamStatistics{
		TeamID:        matchA.Home.ID,
		Form:          strPtr("WWWWW"),
		Wins:          models.VenueCount{Home: intPtr(5)},
		Played:        models.VenueCount{Home: intPtr(5)},
		GoalsFor:      models.VenueAverage{Home: floatPtr(3.0), Total: floatPtr(2.0)},
		FailedToScore: models.VenueCount{Home: intPtr(0)},
		CleanSheets:   models.VenueCount{Home: intPtr(0)},
	}, nil)
	p.On("FetchTeamStatistics", mock.Anything, matchA.Away.ID, testDate).Return(&models.TeamStatistics{
		TeamID:        matchA.Away.ID,
		Form:          strPtr("LLLLL"),
		Wins:          models.VenueCount{Away: intPtr(0)},
		Played:        models.VenueCount{Away: intPtr(5)},
		GoalsFor:      models.VenueAverage{Away: floatPtr(0.5), Total: floatPtr(1.5)},
		GoalsAgainst:  models.VenueAverage{Away: floatPtr(3.0)},
		FailedToScore: models.VenueCount{Away: intPtr(0)},
		CleanSheets:   models.VenueCount{Away: intPtr(0)},
	}, nil)
	p.On("FetchOdds", mock.Anything, matchA.ID).Return([]models.OddsQuote{
		{Bookmaker: "10Bet", Market: "Match Winner", Outcome: "Home", DecimalOdds: "1.5"},
	}, nil)
}

// no statistics or prediction: Both Score 70 (odds 2.5), Over 2.5 60
func setupMatchB(p *MockProvider) {
	p.On("FetchPrediction", mock.Anything, matchB.ID).Return(nil, nil)
	p.On("FetchTeamStatistics", mock.Anything, matchB.Home.ID, testDate).Return(&models.TeamStatistics{TeamID: matchB.Home.ID}, nil)
	p.On("FetchTeamStatistics", mock.Anything, matchB.Away.ID, testDate).Return(&models.TeamStatistics{TeamID: matchB.Away.ID}, nil)
	p.On("FetchOdds", mock.Anything, matchB.ID).Return([]models.OddsQuote{
		{Bookmaker: "10Bet", Market: "Both Teams Score", Outcome: "Yes", DecimalOdds: "2.5"},
	}, nil)
}

// TestGetRecommendationsEmptyFixtures tests a date without fixtures
func TestGetRecommendationsEmptyFixtures(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{}, nil)

	svc := NewParlayService(provider, DefaultOptions(), nil)
	rec, err := svc.GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	for _, parlay := range []models.Parlay{rec.LowRisk, rec.HighRisk} {
		assert.NotNil(t, parlay.Betting)
		assert.Empty(t, parlay.Betting)
		assert.Empty(t, parlay.Legs)
		assert.Equal(t, "0%", parlay.SuccessProbability)
		assert.Equal(t, "10000%", parlay.ExpectedReturn)
	}
}

// TestGetRecommendationsInvalidDate tests date validation happens before any upstream call
func TestGetRecommendationsInvalidDate(t *testing.T) {
	provider := new(MockProvider)
	svc := NewParlayService(provider, DefaultOptions(), nil)

	for _, date := range []string{"", "12/05/2024", "2024-13-01", "tomorrow"} {
		_, err := svc.GetRecommendations(context.Background(), date)
		assert.ErrorIs(t, err, models.ErrInvalidDate, date)
	}
	provider.AssertNotCalled(t, "FetchFixtures", mock.Anything, mock.Anything)
}

// TestGetRecommendationsSingleMatch tests that only one leg per match is selected
func TestGetRecommendationsSingleMatch(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchA}, nil)
	setupMatchA(provider)

	svc := NewParlayService(provider, DefaultOptions(), nil)
	rec, err := svc.GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"Flamengo vs Santos": analysis.BetBothScore}, rec.LowRisk.Betting)
	assert.Equal(t, "100%", rec.LowRisk.SuccessProbability)
	assert.Equal(t, "100%", rec.LowRisk.ExpectedReturn)
	assert.Len(t, rec.HighRisk.Legs, 1)
}

// TestGetRecommendationsTwoMatches tests selection across matches
func TestGetRecommendationsTwoMatches(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchA, matchB}, nil)
	setupMatchA(provider)
	setupMatchB(provider)

	svc := NewParlayService(provider, DefaultOptions(), nil)
	rec, err := svc.GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	expected := map[string]string{
		"Flamengo vs Santos":  analysis.BetBothScore,
		"Palmeiras vs Gremio": analysis.BetBothScore,
	}
	assert.Equal(t, expected, rec.LowRisk.Betting)
	assert.Equal(t, "70%", rec.LowRisk.SuccessProbability)
	assert.Equal(t, "142%", rec.LowRisk.ExpectedReturn)
	require.Len(t, rec.LowRisk.Legs, 2)
	assert.Equal(t, 100, rec.LowRisk.Legs[0].Confidence)
	assert.Equal(t, 70, rec.LowRisk.Legs[1].Confidence)

	assert.Equal(t, expected, rec.HighRisk.Betting)
	assert.Equal(t, "70%", rec.HighRisk.SuccessProbability)
}

// TestGetRecommendationsReturnMultiplier tests the high-risk return scaling knob
func TestGetRecommendationsReturnMultiplier(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchA, matchB}, nil)
	setupMatchA(provider)
	setupMatchB(provider)

	opts := DefaultOptions()
	opts.HighRisk.ReturnMultiplier = 2

	rec, err := NewParlayService(provider, opts, nil).GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, "142%", rec.LowRisk.ExpectedReturn)
	assert.Equal(t, "284%", rec.HighRisk.ExpectedReturn)
}

// TestGetRecommendationsOddsFailureTolerated tests that odds failures only degrade confidence
func TestGetRecommendationsOddsFailureTolerated(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchB}, nil)
	provider.On("FetchPrediction", mock.Anything, matchB.ID).Return(nil, nil)
	provider.On("FetchTeamStatistics", mock.Anything, mock.Anything, testDate).Return(&models.TeamStatistics{}, nil)
	provider.On("FetchOdds", mock.Anything, matchB.ID).Return(nil, errors.New("odds timeout"))

	rec, err := NewParlayService(provider, DefaultOptions(), nil).GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	// without odds Both Score is statistics only
	assert.Equal(t, map[string]string{"Palmeiras vs Gremio": analysis.BetBothScore}, rec.LowRisk.Betting)
	assert.Equal(t, "100%", rec.LowRisk.SuccessProbability)
}

// TestGetRecommendationsFatalFailures tests that required signals abort the request
func TestGetRecommendationsFatalFailures(t *testing.T) {
	upstream := errors.New("503 from provider")

	tests := []struct {
		name  string
		setup func(p *MockProvider)
	}{
		{
			name: "fixtures",
			setup: func(p *MockProvider) {
				p.On("FetchFixtures", mock.Anything, testDate).Return(nil, upstream)
			},
		},
		{
			name: "prediction",
			setup: func(p *MockProvider) {
				p.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchB}, nil)
				p.On("FetchPrediction", mock.Anything, matchB.ID).Return(nil, upstream)
				p.On("FetchTeamStatistics", mock.Anything, mock.Anything, testDate).Return(&models.TeamStatistics{}, nil).Maybe()
				p.On("FetchOdds", mock.Anything, matchB.ID).Return([]models.OddsQuote{}, nil).Maybe()
			},
		},
		{
			name: "statistics",
			setup: func(p *MockProvider) {
				p.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchB}, nil)
				p.On("FetchPrediction", mock.Anything, matchB.ID).Return(nil, nil).Maybe()
				p.On("FetchTeamStatistics", mock.Anything, matchB.Home.ID, testDate).Return(&models.TeamStatistics{}, nil).Maybe()
				p.On("FetchTeamStatistics", mock.Anything, matchB.Away.ID, testDate).Return(nil, upstream)
				p.On("FetchOdds", mock.Anything, matchB.ID).Return([]models.OddsQuote{}, nil).Maybe()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockProvider)
			tt.setup(provider)

			rec, err := NewParlayService(provider, DefaultOptions(), nil).GetRecommendations(context.Background(), testDate)
			assert.Nil(t, rec)
			assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
			assert.ErrorIs(t, err, upstream)
		})
	}
}

// TestGetRecommendationsLegsAreDistinct tests the one-leg-per-match rule over a larger slate
func TestGetRecommendationsLegsAreDistinct(t *testing.T) {
	provider := new(MockProvider)
	var matches []models.Match
	for i := 1; i <= 6; i++ {
		matches = append(matches, models.Match{
			ID:   100 + i,
			Home: models.Team{ID: i * 2, Name: "Home" + string(rune('A'+i))},
			Away: models.Team{ID: i*2 + 1, Name: "Away" + string(rune('A'+i))},
		})
	}
	provider.On("FetchFixtures", mock.Anything, testDate).Return(matches, nil)
	provider.On("FetchPrediction", mock.Anything, mock.Anything).Return(&models.PredictionSignal{Advice: "Home Win"}, nil)
	provider.On("FetchTeamStatistics", mock.Anything, mock.Anything, testDate).Return(&models.TeamStatistics{
		Form: strPtr("WWWDL"), Wins: models.VenueCount{Home: intPtr(3)}, Played: models.VenueCount{Home: intPtr(4)},
	}, nil)
	provider.On("FetchOdds", mock.Anything, mock.Anything).Return([]models.OddsQuote{}, nil)

	opts := DefaultOptions()
	opts.MaxConcurrentMatches = 2
	rec, err := NewParlayService(provider, opts, nil).GetRecommendations(context.Background(), testDate)
	require.NoError(t, err)

	for _, parlay := range []models.Parlay{rec.LowRisk, rec.HighRisk} {
		seen := map[string]bool{}
		for _, leg := range parlay.Legs {
			assert.False(t, seen[leg.Game], "duplicate leg for %s", leg.Game)
			seen[leg.Game] = true
		}
		assert.Equal(t, len(parlay.Legs), len(parlay.Betting))
	}
	assert.LessOrEqual(t, len(rec.LowRisk.Legs), 3)
	assert.LessOrEqual(t, len(rec.HighRisk.Legs), 4)
}

// TestPrefetch tests warm-up touches every signal and tolerates odds failures
func TestPrefetch(t *testing.T) {
	provider := new(MockProvider)
	provider.On("FetchFixtures", mock.Anything, testDate).Return([]models.Match{matchA, matchB}, nil)
	provider.On("FetchPrediction", mock.Anything, mock.Anything).Return(nil, nil)
	provider.On("FetchTeamStatistics", mock.Anything, mock.Anything, testDate).Return(&models.TeamStatistics{}, nil)
	provider.On("FetchOdds", mock.Anything, mock.Anything).Return(nil, errors.New("no odds"))

	warmed, err := NewParlayService(provider, DefaultOptions(), nil).Prefetch(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)
	provider.AssertNumberOfCalls(t, "FetchTeamStatistics", 4)
	provider.AssertNumberOfCalls(t, "FetchOdds", 2)
}

// TestPrefetchInvalidDate tests warm-up date validation
func TestPrefetchInvalidDate(t *testing.T) {
	_, err := NewParlayService(new(MockProvider), DefaultOptions(), nil).Prefetch(context.Background(), "bad")
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

// TestOptionsFromConfig tests mapping of the analysis section
func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.AnalysisConfig{
		MaxConcurrentMatches: 8,
		LowRisk:              config.TierConfig{TargetProbability: 65, MaxLegs: 2, ReturnMultiplier: 1},
		HighRisk:             config.TierConfig{TargetProbability: 25, MaxLegs: 5, ReturnMultiplier: 2},
	})

	assert.Equal(t, 8, opts.MaxConcurrentMatches)
	assert.Equal(t, "low_risk", opts.LowRisk.Name)
	assert.Equal(t, 65, opts.LowRisk.TargetProbability)
	assert.Equal(t, 2, opts.LowRisk.MaxLegs)
	assert.Equal(t, "high_risk", opts.HighRisk.Name)
	assert.Equal(t, 5, opts.HighRisk.MaxLegs)
	assert.Equal(t, 2, opts.HighRisk.ReturnMultiplier)
}
