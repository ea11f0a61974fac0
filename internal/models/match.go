// Package models defines the domain entities shared by the data source, analysis and service layers.
package models

import (
	"fmt"
	"time"
)

// DateLayout is the layout accepted for query dates.
const DateLayout = "2006-01-02"

// Team identifies one side of a fixture
type Team struct {
	ID   int    `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// Match represents a single fixture on the query date
type Match struct {
	ID   int       `json:"id" validate:"required"`
	Date time.Time `json:"date"`
	Home Team      `json:"home" validate:"required"`
	Away Team      `json:"away" validate:"required"`
}

// Label returns the human readable match label used as the parlay key
func (m Match) Label() string {
	return fmt.Sprintf("%s vs %s", m.Home.Name, m.Away.Name)
}

// MatchData bundles every signal gathered for one match before scoring
type MatchData struct {
	Match      Match
	Prediction *PredictionSignal
	HomeStats  *TeamStatistics
	AwayStats  *TeamStatistics
	Odds       []OddsQuote
}

// ParseDate validates a query date string
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return t, nil
}
