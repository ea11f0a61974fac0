package models

// VenueCount holds an optional integer broken down by venue
type VenueCount struct {
	Home  *int `json:"home"`
	Away  *int `json:"away"`
	Total *int `json:"total"`
}

// VenueAverage holds an optional per-match average broken down by venue
type VenueAverage struct {
	Home  *float64 `json:"home"`
	Away  *float64 `json:"away"`
	Total *float64 `json:"total"`
}

// At returns the count for the requested venue
func (v VenueCount) At(home bool) *int {
	if home {
		return v.Home
	}
	return v.Away
}

// At returns the average for the requested venue
func (v VenueAverage) At(home bool) *float64 {
	if home {
		return v.Home
	}
	return v.Away
}

// TeamStatistics is a snapshot of a team's season aggregates up to the query date.
// Every field is optional; the upstream provider omits values it has not computed.
type TeamStatistics struct {
	TeamID        int          `json:"team_id"`
	Form          *string      `json:"form"`
	Played        VenueCount   `json:"played"`
	Wins          VenueCount   `json:"wins"`
	Draws         VenueCount   `json:"draws"`
	Losses        VenueCount   `json:"losses"`
	GoalsFor      VenueAverage `json:"goals_for_avg"`
	GoalsAgainst  VenueAverage `json:"goals_against_avg"`
	CleanSheets   VenueCount   `json:"clean_sheets"`
	FailedToScore VenueCount   `json:"failed_to_score"`
}

// IntOr dereferences an optional int, returning fallback when absent
func IntOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

// FloatOr dereferences an optional float, returning fallback when absent
func FloatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
