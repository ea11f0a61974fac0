package models

// PredictionSignal is the provider's model prediction for one fixture
type PredictionSignal struct {
	FixtureID  int     `json:"fixture_id"`
	WinnerName *string `json:"winner_name"`
	WinOrDraw  bool    `json:"win_or_draw"`
	Advice     string  `json:"advice"`
	UnderOver  *string `json:"under_over"`
	GoalsHome  *string `json:"goals_home"`
	GoalsAway  *string `json:"goals_away"`
}
