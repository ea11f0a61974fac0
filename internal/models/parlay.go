package models

// BettingOption is a scored proposition on a single match
type BettingOption struct {
	Game       string `json:"game"`
	Bet        string `json:"bet"`
	Confidence int    `json:"confidence" validate:"gte=0,lte=100"`
}

// Parlay is a combined bet with at most one leg per match
type Parlay struct {
	Betting            map[string]string `json:"betting"`
	Legs               []BettingOption   `json:"legs"`
	SuccessProbability string            `json:"successProbability"`
	ExpectedReturn     string            `json:"expectedReturn"`
}

// ParlayRecommendation pairs the low-risk and high-risk parlays for one date
type ParlayRecommendation struct {
	LowRisk  Parlay `json:"lowRiskParlay"`
	HighRisk Parlay `json:"highRiskParlay"`
}
