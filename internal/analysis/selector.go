package analysis

import (
	"sort"

	"github.com/yourusername/parlay-advisor/internal/models"
)

// Tier is a parlay selection policy
type Tier struct {
	Name              string
	TargetProbability int
	MaxLegs           int
}

// Built-in tiers
var (
	LowRiskTier  = Tier{Name: "low_risk", TargetProbability: 60, MaxLegs: 3}
	HighRiskTier = Tier{Name: "high_risk", TargetProbability: 30, MaxLegs: 4}
)

// SelectParlay greedily picks legs by descending confidence. A candidate is kept
// when the parlay is still empty or when adding it keeps the combined probability
// at or above target. At most one leg is taken per match and at most maxLegs overall.
func SelectParlay(pool []models.BettingOption, target, maxLegs int) []models.BettingOption {
	if maxLegs <= 0 {
		return []models.BettingOption{}
	}

	sorted := make([]models.BettingOption, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	selected := make([]models.BettingOption, 0, maxLegs)
	seen := make(map[string]bool)

	for _, candidate := range sorted {
		if len(selected) >= maxLegs {
			break
		}
		if seen[candidate.Game] {
			continue
		}

		tentative := append(selected[:len(selected):len(selected)], candidate)
		if len(selected) == 0 || CombinedProbability(tentative) >= target {
			selected = tentative
			seen[candidate.Game] = true
		}
	}

	if len(selected) == 0 {
		return topDistinct(sorted, maxLegs)
	}
	return selected
}

// Select applies the tier's policy to the pool
func (t Tier) Select(pool []models.BettingOption) []models.BettingOption {
	return SelectParlay(pool, t.TargetProbability, t.MaxLegs)
}

func topDistinct(sorted []models.BettingOption, n int) []models.BettingOption {
	out := make([]models.BettingOption, 0, n)
	seen := make(map[string]bool)
	for _, o := range sorted {
		if len(out) >= n {
			break
		}
		if seen[o.Game] {
			continue
		}
		seen[o.Game] = true
		out = append(out, o)
	}
	return out
}
