package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/parlay-advisor/internal/models"
)

var hundred = decimal.NewFromInt(100)

// CombinedProbability returns the product of the legs' confidences as a
// truncated percentage. An empty parlay has probability 0.
func CombinedProbability(options []models.BettingOption) int {
	if len(options) == 0 {
		return 0
	}
	product := decimal.NewFromInt(1)
	for _, o := range options {
		product = product.Mul(decimal.NewFromInt(int64(o.Confidence)).Div(hundred))
	}
	return int(product.Mul(hundred).Truncate(0).IntPart())
}

// ExpectedReturn models a fair-odds payout as a percentage of the stake: 10000 / p,
// with p floored at 1.
func ExpectedReturn(probability int) int {
	return 10000 / atLeast(probability, 1)
}
