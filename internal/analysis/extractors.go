// Package analysis scores betting propositions for a match and assembles
// risk-tiered parlays from the scored pool.
package analysis

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/parlay-advisor/internal/models"
)

// Defaults applied when a statistics field is absent from the provider payload.
const (
	// FormWindow is the number of most recent results read from the form string
	FormWindow = 5
	// FormResultWeight is added per win and subtracted per loss in the form window
	FormResultWeight = 5
	// DefaultPlayed is the matches-played value assumed when the count is missing
	DefaultPlayed = 1
	// MinDenominator guards every per-match rate against division by zero
	MinDenominator = 1
	// DefaultVenueGoalAverage is assumed for missing home/away goal averages
	DefaultVenueGoalAverage = 1.0
	// DefaultTotalGoalAverage is assumed for a missing season goal average
	DefaultTotalGoalAverage = 1.5
	// OverUnderThreshold is the goal line evaluated by the over/under market
	OverUnderThreshold = 2.5

	winProbabilityFloor   = 10
	winProbabilityCeiling = 90
	overUnderFloor        = 30
	overUnderCeiling      = 85

	adviceWinConfidence  = 70
	adviceDrawConfidence = 33
)

// Estimate is one source's confidence for a proposition. Valid is false when the
// source had no usable signal, in which case it does not vote in Aggregate.
type Estimate struct {
	Value int
	Valid bool
}

// NoEstimate marks a source that could not produce a confidence value
var NoEstimate = Estimate{}

// Some wraps a concrete confidence value
func Some(v int) Estimate {
	return Estimate{Value: v, Valid: true}
}

// StatisticalWinProbability estimates the chance that team beats opponent from
// recent form, venue win rate and the goal balance against the opponent.
func StatisticalWinProbability(team, opponent *models.TeamStatistics, isHome bool) int {
	team, opponent = orEmpty(team), orEmpty(opponent)

	score := 50

	if team.Form != nil {
		form := *team.Form
		if len(form) > FormWindow {
			form = form[len(form)-FormWindow:]
		}
		score += strings.Count(form, "W") * FormResultWeight
		score -= strings.Count(form, "L") * FormResultWeight
	}

	wins := models.IntOr(team.Wins.At(isHome), 0)
	played := atLeast(models.IntOr(team.Played.At(isHome), DefaultPlayed), MinDenominator)
	score += (wins * 100 / played) / 10

	scored := models.FloatOr(team.GoalsFor.At(isHome), DefaultVenueGoalAverage)
	conceded := models.FloatOr(opponent.GoalsAgainst.At(!isHome), DefaultVenueGoalAverage)
	score += int((scored - conceded) * 10)

	return clamp(score, winProbabilityFloor, winProbabilityCeiling)
}

// StatisticalBTTSProbability estimates the chance that both sides score, from
// each side's failed-to-score and clean-sheet rates at its own venue.
func StatisticalBTTSProbability(home, away *models.TeamStatistics) int {
	home, away = orEmpty(home), orEmpty(away)

	homeScoring := 100 - venueRate(home.FailedToScore.Home, home.Played.Home)
	awayScoring := 100 - venueRate(away.FailedToScore.Away, away.Played.Away)
	homeConceding := 100 - venueRate(home.CleanSheets.Home, home.Played.Home)
	awayConceding := 100 - venueRate(away.CleanSheets.Away, away.Played.Away)

	return ((homeScoring+awayConceding)/2 + (awayScoring+homeConceding)/2) / 2
}

// StatisticalOverProbability estimates the confidence in the over side of the
// goal line when both teams' combined scoring average exceeds it, and in the
// under side otherwise.
func StatisticalOverProbability(home, away *models.TeamStatistics, threshold float64) int {
	home, away = orEmpty(home), orEmpty(away)

	combined := models.FloatOr(home.GoalsFor.Total, DefaultTotalGoalAverage) +
		models.FloatOr(away.GoalsFor.Total, DefaultTotalGoalAverage)

	if combined > threshold {
		return clamp(int(combined*20), overUnderFloor, overUnderCeiling)
	}
	return clamp(int(100-combined*20), overUnderFloor, overUnderCeiling)
}

// PredictionAdviceProbability reads the provider's advice text for the queried side
func PredictionAdviceProbability(prediction *models.PredictionSignal, isHome bool) Estimate {
	if prediction == nil {
		return NoEstimate
	}
	advice := strings.ToLower(prediction.Advice)

	switch {
	case strings.Contains(advice, "home") && isHome:
		return Some(adviceWinConfidence)
	case strings.Contains(advice, "away") && !isHome:
		return Some(adviceWinConfidence)
	case strings.Contains(advice, "draw"):
		return Some(adviceDrawConfidence)
	default:
		return NoEstimate
	}
}

// OddsImpliedProbability converts the first bookmaker's price for the matching
// market and outcome into an implied percentage. Matching is a case-insensitive
// substring test on both the market name and the outcome label.
func OddsImpliedProbability(quotes []models.OddsQuote, market, outcome string) Estimate {
	if len(quotes) == 0 {
		return NoEstimate
	}
	bookmaker := quotes[0].Bookmaker

	matchedMarket := ""
	for _, q := range quotes {
		if q.Bookmaker == bookmaker && containsFold(q.Market, market) {
			matchedMarket = q.Market
			break
		}
	}
	if matchedMarket == "" {
		return NoEstimate
	}

	for _, q := range quotes {
		if q.Bookmaker != bookmaker || q.Market != matchedMarket || !containsFold(q.Outcome, outcome) {
			continue
		}
		odds, err := decimal.NewFromString(strings.TrimSpace(q.DecimalOdds))
		if err != nil || !odds.IsPositive() {
			return NoEstimate
		}
		return Some(int(decimal.NewFromInt(100).Div(odds).Round(0).IntPart()))
	}
	return NoEstimate
}

// ClampConfidence bounds a confidence value to [0, 100]
func ClampConfidence(v int) int {
	return clamp(v, 0, 100)
}

func venueRate(count, played *int) int {
	return models.IntOr(count, 0) * 100 / atLeast(models.IntOr(played, DefaultPlayed), MinDenominator)
}

func orEmpty(s *models.TeamStatistics) *models.TeamStatistics {
	if s == nil {
		return &models.TeamStatistics{}
	}
	return s
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func atLeast(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
