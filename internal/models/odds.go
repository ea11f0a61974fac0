package models

// OddsQuote is one bookmaker price for one outcome of one market.
// DecimalOdds is kept as the raw provider string; it is parsed where it is used.
type OddsQuote struct {
	Bookmaker   string `json:"bookmaker"`
	Market      string `json:"market"`
	Outcome     string `json:"outcome"`
	DecimalOdds string `json:"odd"`
}
