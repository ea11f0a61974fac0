package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/parlay-advisor/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// TestStatisticalWinProbabilityCeiling tests that a dominant home side is clamped at the ceiling
func TestStatisticalWinProbabilityCeiling(t *testing.T) {
	home := &models.TeamStatistics{
		Form:     strPtr("WWWWW"),
		Wins:     models.VenueCount{Home: intPtr(5)},
		Played:   models.VenueCount{Home: intPtr(5)},
		GoalsFor: models.VenueAverage{Home: floatPtr(3.0)},
	}
	away := &models.TeamStatistics{
		GoalsAgainst: models.VenueAverage{Away: floatPtr(0.5)},
	}

	assert.Equal(t, 90, StatisticalWinProbability(home, away, true))
}

// TestStatisticalWinProbability tests the individual scoring components
func TestStatisticalWinProbability(t *testing.T) {
	tests := []struct {
		name     string
		team     *models.TeamStatistics
		opponent *models.TeamStatistics
		isHome   bool
		expected int
	}{
		{
			name:     "missing statistics yield neutral score",
			expected: 50,
		},
		{
			name:     "mixed form",
			team:     &models.TeamStatistics{Form: strPtr("WDLWD")},
			isHome:   true,
			expected: 55,
		},
		{
			name:     "only the last five results count",
			team:     &models.TeamStatistics{Form: strPtr("LLLLLWWWWW")},
			isHome:   true,
			expected: 75,
		},
		{
			name: "away win rate uses away counts",
			team: &models.TeamStatistics{
				Wins:   models.VenueCount{Home: intPtr(0), Away: intPtr(3)},
				Played: models.VenueCount{Home: intPtr(5), Away: intPtr(4)},
			},
			isHome:   false,
			expected: 57,
		},
		{
			name: "zero played does not divide by zero",
			team: &models.TeamStatistics{
				Wins:   models.VenueCount{Home: intPtr(0)},
				Played: models.VenueCount{Home: intPtr(0)},
			},
			isHome:   true,
			expected: 50,
		},
		{
			name:     "positive goal balance truncates toward zero",
			team:     &models.TeamStatistics{GoalsFor: models.VenueAverage{Home: floatPtr(1.55)}},
			isHome:   true,
			expected: 55,
		},
		{
			name:     "negative goal balance truncates toward zero",
			opponent: &models.TeamStatistics{GoalsAgainst: models.VenueAverage{Away: floatPtr(1.55)}},
			isHome:   true,
			expected: 45,
		},
		{
			name: "floor clamp",
			team: &models.TeamStatistics{
				Form:     strPtr("LLLLL"),
				GoalsFor: models.VenueAverage{Away: floatPtr(0.0)},
			},
			opponent: &models.TeamStatistics{GoalsAgainst: models.VenueAverage{Home: floatPtr(3.0)}},
			isHome:   false,
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatisticalWinProbability(tt.team, tt.opponent, tt.isHome))
		})
	}
}

// TestStatisticalBTTSProbability tests both-teams-to-score rates
func TestStatisticalBTTSProbability(t *testing.T) {
	t.Run("never blanked and never kept a clean sheet", func(t *testing.T) {
		home := &models.TeamStatistics{
			Played:        models.VenueCount{Home: intPtr(5)},
			FailedToScore: models.VenueCount{Home: intPtr(0)},
			CleanSheets:   models.VenueCount{Home: intPtr(0)},
		}
		away := &models.TeamStatistics{
			Played:        models.VenueCount{Away: intPtr(5)},
			FailedToScore: models.VenueCount{Away: intPtr(0)},
			CleanSheets:   models.VenueCount{Away: intPtr(0)},
		}
		assert.Equal(t, 100, StatisticalBTTSProbability(home, away))
	})

	t.Run("partial rates", func(t *testing.T) {
		home := &models.TeamStatistics{
			Played:        models.VenueCount{Home: intPtr(4)},
			FailedToScore: models.VenueCount{Home: intPtr(1)},
			CleanSheets:   models.VenueCount{Home: intPtr(2)},
		}
		away := &models.TeamStatistics{
			Played:        models.VenueCount{Away: intPtr(5)},
			FailedToScore: models.VenueCount{Away: intPtr(2)},
			CleanSheets:   models.VenueCount{Away: intPtr(1)},
		}
		// home scoring 75, away conceding 80, away scoring 60, home conceding 50
		// ((75+80)/2 + (60+50)/2) / 2 = (77 + 55) / 2 = 66
		assert.Equal(t, 66, StatisticalBTTSProbability(home, away))
	})

	t.Run("missing statistics", func(t *testing.T) {
		assert.Equal(t, 100, StatisticalBTTSProbability(nil, nil))
	})
}

// TestStatisticalOverProbability tests the over/under goal line estimate
func TestStatisticalOverProbability(t *testing.T) {
	tests := []struct {
		name      string
		homeTotal *float64
		awayTotal *float64
		expected  int
	}{
		{"defaults", nil, nil, 60},
		{"over the line", floatPtr(2.0), floatPtr(1.5), 70},
		{"over clamps at ceiling", floatPtr(3.0), floatPtr(3.0), 85},
		{"under the line", floatPtr(0.5), floatPtr(0.5), 80},
		{"under clamps at ceiling", floatPtr(0.2), floatPtr(0.2), 85},
		{"exactly on the line counts as under", floatPtr(1.25), floatPtr(1.25), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := &models.TeamStatistics{GoalsFor: models.VenueAverage{Total: tt.homeTotal}}
			away := &models.TeamStatistics{GoalsFor: models.VenueAverage{Total: tt.awayTotal}}
			assert.Equal(t, tt.expected, StatisticalOverProbability(home, away, OverUnderThreshold))
		})
	}
}

// TestPredictionAdviceProbability tests advice text parsing
func TestPredictionAdviceProbability(t *testing.T) {
	tests := []struct {
		name     string
		advice   string
		isHome   bool
		expected Estimate
	}{
		{"home advice for home side", "Winner : Home Win", true, Some(70)},
		{"home advice for away side", "Winner : Home Win", false, NoEstimate},
		{"away advice for away side", "Combo Away and -3.5 goals", false, Some(70)},
		{"draw advice", "Double chance : draw or Away", true, Some(33)},
		{"draw advice prefers away side", "Double chance : draw or Away", false, Some(70)},
		{"unrelated advice", "No predictions available", true, NoEstimate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prediction := &models.PredictionSignal{Advice: tt.advice}
			assert.Equal(t, tt.expected, PredictionAdviceProbability(prediction, tt.isHome))
		})
	}

	assert.Equal(t, NoEstimate, PredictionAdviceProbability(nil, true))
}

// TestOddsImpliedProbability tests bookmaker price conversion
func TestOddsImpliedProbability(t *testing.T) {
	quotes := []models.OddsQuote{
		{Bookmaker: "10Bet", Market: "Match Winner", Outcome: "Home", DecimalOdds: "2.0"},
		{Bookmaker: "10Bet", Market: "Match Winner", Outcome: "Away", DecimalOdds: "1.5"},
		{Bookmaker: "10Bet", Market: "Goals Over/Under", Outcome: "Over 2.5", DecimalOdds: "abc"},
		{Bookmaker: "10Bet", Market: "Both Teams Score", Outcome: "Yes", DecimalOdds: "0"},
		{Bookmaker: "Bet365", Market: "Exact Score", Outcome: "1:0", DecimalOdds: "7.0"},
	}

	tests := []struct {
		name     string
		market   string
		outcome  string
		expected Estimate
	}{
		{"even money", "Match Winner", "Home", Some(50)},
		{"rounded", "match winner", "away", Some(67)},
		{"unparseable odds", "Goals Over/Under", "Over 2.5", NoEstimate},
		{"non positive odds", "Both Teams Score", "Yes", NoEstimate},
		{"unknown outcome", "Match Winner", "Draw", NoEstimate},
		{"only the first bookmaker is consulted", "Exact Score", "1:0", NoEstimate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OddsImpliedProbability(quotes, tt.market, tt.outcome))
		})
	}

	assert.Equal(t, NoEstimate, OddsImpliedProbability(nil, "Match Winner", "Home"))
}
