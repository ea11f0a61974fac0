package analysis

import (
	"github.com/yourusername/parlay-advisor/internal/models"
)

// Bet labels emitted by the scorer
const (
	BetHomeWin   = "Home Win"
	BetAwayWin   = "Away Win"
	BetBothScore = "Both Score"
	BetOver25    = "Over 2.5 Goals"
)

// Market describes how one proposition is scored and when it is emitted
type Market struct {
	Bet         string
	OddsMarket  string
	OddsOutcome string
	// Statistical produces the statistics-derived estimate; it always votes
	Statistical func(data models.MatchData) int
	// Advice produces the prediction-derived estimate; nil means the market has no advice voter
	Advice func(data models.MatchData) Estimate
	// EmitAbove, when positive, suppresses the proposition unless confidence exceeds it
	EmitAbove int
}

// DefaultMarkets returns the markets evaluated for every match.
// Win markets are only emitted when they clear the neutral prior; goal markets are always emitted.
func DefaultMarkets() []Market {
	return []Market{
		{
			Bet:         BetHomeWin,
			OddsMarket:  "Match Winner",
			OddsOutcome: "Home",
			Statistical: func(d models.MatchData) int {
				return StatisticalWinProbability(d.HomeStats, d.AwayStats, true)
			},
			Advice: func(d models.MatchData) Estimate {
				return PredictionAdviceProbability(d.Prediction, true)
			},
			EmitAbove: NeutralConfidence,
		},
		{
			Bet:         BetAwayWin,
			OddsMarket:  "Match Winner",
			OddsOutcome: "Away",
			Statistical: func(d models.MatchData) int {
				return StatisticalWinProbability(d.AwayStats, d.HomeStats, false)
			},
			Advice: func(d models.MatchData) Estimate {
				return PredictionAdviceProbability(d.Prediction, false)
			},
			EmitAbove: NeutralConfidence,
		},
		{
			Bet:         BetBothScore,
			OddsMarket:  "Both Teams Score",
			OddsOutcome: "Yes",
			Statistical: func(d models.MatchData) int {
				return StatisticalBTTSProbability(d.HomeStats, d.AwayStats)
			},
		},
		{
			Bet:         BetOver25,
			OddsMarket:  "Goals Over/Under",
			OddsOutcome: "Over 2.5",
			Statistical: func(d models.MatchData) int {
				return StatisticalOverProbability(d.HomeStats, d.AwayStats, OverUnderThreshold)
			},
		},
	}
}

// MarketScorer turns the raw signals for one match into scored propositions
type MarketScorer struct {
	markets []Market
}

// NewMarketScorer creates a scorer over the given markets, or DefaultMarkets when none are given
func NewMarketScorer(markets ...Market) *MarketScorer {
	if len(markets) == 0 {
		markets = DefaultMarkets()
	}
	return &MarketScorer{markets: markets}
}

// Score evaluates every market for the match. It has no side effects and is
// safe to call concurrently for different matches.
func (s *MarketScorer) Score(data models.MatchData) []models.BettingOption {
	label := data.Match.Label()
	options := make([]models.BettingOption, 0, len(s.markets))

	for _, m := range s.markets {
		estimates := []Estimate{Some(ClampConfidence(m.Statistical(data)))}
		if m.Advice != nil {
			estimates = append(estimates, m.Advice(data))
		}
		estimates = append(estimates, OddsImpliedProbability(data.Odds, m.OddsMarket, m.OddsOutcome))

		confidence := ClampConfidence(Aggregate(estimates...))
		if m.EmitAbove > 0 && confidence <= m.EmitAbove {
			continue
		}

		options = append(options, models.BettingOption{
			Game:       label,
			Bet:        m.Bet,
			Confidence: confidence,
		})
	}

	return options
}
