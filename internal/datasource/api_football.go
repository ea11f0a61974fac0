package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-advisor/internal/metrics"
	"github.com/yourusername/parlay-advisor/internal/models"
	"github.com/yourusername/parlay-advisor/internal/tracing"
)

const (
	apiFootballSourceName = "api_football"
	apiKeyHeader          = "x-apisports-key"
)

var fixtureValidator = validator.New()

// APIFootballClient implements Provider for the API-Football v3 API
type APIFootballClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	leagueID   int
	season     int
	archive    *ResponseArchive
	logger     *logrus.Entry
}

// APIFootballOptions configures an APIFootballClient
type APIFootballOptions struct {
	BaseURL  string
	APIKey   string
	LeagueID int
	Season   int
	// Archive is optional; when set every successful response body is written to it
	Archive *ResponseArchive
}

// NewAPIFootballClient creates a new API-Football client
func NewAPIFootballClient(httpClient *RateLimitedHTTPClient, opts APIFootballOptions, logger *logrus.Logger) *APIFootballClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &APIFootballClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		leagueID:   opts.LeagueID,
		season:     opts.Season,
		archive:    opts.Archive,
		logger:     logger.WithField("component", apiFootballSourceName),
	}
}

// envelope is the wrapper API-Football puts around every payload
type envelope struct {
	Errors   json.RawMessage `json:"errors"`
	Results  int             `json:"results"`
	Response json.RawMessage `json:"response"`
}

type apiTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type apiFixtureItem struct {
	Fixture struct {
		ID   int    `json:"id"`
		Date string `json:"date"`
	} `json:"fixture"`
	Teams struct {
		Home apiTeam `json:"home"`
		Away apiTeam `json:"away"`
	} `json:"teams"`
}

type apiPredictionItem struct {
	Predictions struct {
		Winner struct {
			ID      *int    `json:"id"`
			Name    *string `json:"name"`
			Comment *string `json:"comment"`
		} `json:"winner"`
		WinOrDraw bool    `json:"win_or_draw"`
		UnderOver *string `json:"under_over"`
		Goals     struct {
			Home *string `json:"home"`
			Away *string `json:"away"`
		} `json:"goals"`
		Advice string `json:"advice"`
	} `json:"predictions"`
}

type apiStatValue struct {
	Home  optionalInt `json:"home"`
	Away  optionalInt `json:"away"`
	Total optionalInt `json:"total"`
}

// optionalInt decodes a count that may be absent, null or malformed; only a clean integer is kept
type optionalInt struct {
	value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.value = nil
	d, err := decimal.NewFromString(rawScalar(data))
	if err != nil || !d.IsInteger() {
		return nil
	}
	v := int(d.IntPart())
	o.value = &v
	return nil
}

// apiAverageValue keeps averages raw: the provider sends numeric strings, numbers, "" or text
type apiAverageValue struct {
	Home  json.RawMessage `json:"home"`
	Away  json.RawMessage `json:"away"`
	Total json.RawMessage `json:"total"`
}

type apiGoalDetails struct {
	Total   apiStatValue    `json:"total"`
	Average apiAverageValue `json:"average"`
}

type apiTeamStats struct {
	Form     json.RawMessage `json:"form"`
	Fixtures struct {
		Played apiStatValue `json:"played"`
		Wins   apiStatValue `json:"wins"`
		Draws  apiStatValue `json:"draws"`
		Loses  apiStatValue `json:"loses"`
	} `json:"fixtures"`
	Goals struct {
		For     apiGoalDetails `json:"for"`
		Against apiGoalDetails `json:"against"`
	} `json:"goals"`
	CleanSheet    apiStatValue `json:"clean_sheet"`
	FailedToScore apiStatValue `json:"failed_to_score"`
}

type apiOddsItem struct {
	Bookmakers []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Bets []struct {
			ID     int    `json:"id"`
			Name   string `json:"name"`
			Values []struct {
				Value string          `json:"value"`
				Odd   json.RawMessage `json:"odd"`
			} `json:"values"`
		} `json:"bets"`
	} `json:"bookmakers"`
}

// FetchFixtures retrieves the configured league's fixtures on date
func (c *APIFootballClient) FetchFixtures(ctx context.Context, date string) ([]models.Match, error) {
	query := url.Values{}
	query.Set("league", strconv.Itoa(c.leagueID))
	query.Set("season", strconv.Itoa(c.season))
	query.Set("date", date)

	var items []apiFixtureItem
	if err := c.get(ctx, "/fixtures", "getFixturesDate"+date, query, &items); err != nil {
		return nil, err
	}

	matches := make([]models.Match, 0, len(items))
	for _, item := range items {
		kickoff, err := time.Parse(time.RFC3339, item.Fixture.Date)
		if err != nil {
			c.logger.WithField("fixture_id", item.Fixture.ID).Debug("Unparseable fixture date")
		}
		match := models.Match{
			ID:   item.Fixture.ID,
			Date: kickoff,
			Home: models.Team{ID: item.Teams.Home.ID, Name: item.Teams.Home.Name},
			Away: models.Team{ID: item.Teams.Away.ID, Name: item.Teams.Away.Name},
		}
		// Incomplete fixtures cannot be scored or labelled
		if err := fixtureValidator.Struct(match); err != nil {
			c.logger.WithError(err).WithField("fixture_id", item.Fixture.ID).Warn("Skipping incomplete fixture")
			continue
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// FetchPrediction retrieves the provider's prediction for a fixture
func (c *APIFootballClient) FetchPrediction(ctx context.Context, fixtureID int) (*models.PredictionSignal, error) {
	query := url.Values{}
	query.Set("fixture", strconv.Itoa(fixtureID))

	var items []apiPredictionItem
	if err := c.get(ctx, "/predictions", fmt.Sprintf("getPredictionsFixture%d", fixtureID), query, &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	p := items[0].Predictions
	return &models.PredictionSignal{
		FixtureID:  fixtureID,
		WinnerName: p.Winner.Name,
		WinOrDraw:  p.WinOrDraw,
		Advice:     p.Advice,
		UnderOver:  p.UnderOver,
		GoalsHome:  p.Goals.Home,
		GoalsAway:  p.Goals.Away,
	}, nil
}

// FetchTeamStatistics retrieves a team's season aggregates up to date
func (c *APIFootballClient) FetchTeamStatistics(ctx context.Context, teamID int, date string) (*models.TeamStatistics, error) {
	query := url.Values{}
	query.Set("league", strconv.Itoa(c.leagueID))
	query.Set("season", strconv.Itoa(c.season))
	query.Set("team", strconv.Itoa(teamID))
	query.Set("date", date)

	var raw json.RawMessage
	identifier := fmt.Sprintf("getTeamStatisticsTeam%dDate%s", teamID, date)
	if err := c.get(ctx, "/teams/statistics", identifier, query, &raw); err != nil {
		return nil, err
	}

	// Teams without a computed season come back as an empty array
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &models.TeamStatistics{TeamID: teamID}, nil
	}

	var stats apiTeamStats
	if err := json.Unmarshal(trimmed, &stats); err != nil {
		return nil, NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData, "failed to parse team statistics", err)
	}

	return &models.TeamStatistics{
		TeamID:        teamID,
		Form:          formString(stats.Form),
		Played:        stats.Fixtures.Played.toVenueCount(),
		Wins:          stats.Fixtures.Wins.toVenueCount(),
		Draws:         stats.Fixtures.Draws.toVenueCount(),
		Losses:        stats.Fixtures.Loses.toVenueCount(),
		GoalsFor:      stats.Goals.For.Average.toVenueAverage(),
		GoalsAgainst:  stats.Goals.Against.Average.toVenueAverage(),
		CleanSheets:   stats.CleanSheet.toVenueCount(),
		FailedToScore: stats.FailedToScore.toVenueCount(),
	}, nil
}

// FetchOdds retrieves bookmaker quotes for a fixture, flattened in provider order
func (c *APIFootballClient) FetchOdds(ctx context.Context, fixtureID int) ([]models.OddsQuote, error) {
	query := url.Values{}
	query.Set("fixture", strconv.Itoa(fixtureID))

	var items []apiOddsItem
	if err := c.get(ctx, "/odds", fmt.Sprintf("getOddsFixture%d", fixtureID), query, &items); err != nil {
		return nil, err
	}

	quotes := make([]models.OddsQuote, 0)
	for _, item := range items {
		for _, bookmaker := range item.Bookmakers {
			for _, bet := range bookmaker.Bets {
				for _, value := range bet.Values {
					quotes = append(quotes, models.OddsQuote{
						Bookmaker:   bookmaker.Name,
						Market:      bet.Name,
						Outcome:     value.Value,
						DecimalOdds: rawScalar(value.Odd),
					})
				}
			}
		}
	}
	return quotes, nil
}

// Ping checks the provider account status endpoint
func (c *APIFootballClient) Ping(ctx context.Context) error {
	var status json.RawMessage
	return c.get(ctx, "/status", "", nil, &status)
}

// Name returns the data source name
func (c *APIFootballClient) Name() string {
	return apiFootballSourceName
}

// get performs one upstream call, archives the raw body and decodes the envelope's response into dst
func (c *APIFootballClient) get(ctx context.Context, endpoint, identifier string, query url.Values, dst any) (err error) {
	ctx, closeSeg := tracing.StartSubsegment(ctx, apiFootballSourceName+endpoint)
	defer func() { closeSeg(err) }()

	reqURL := c.baseURL + endpoint
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", time.Since(start).Seconds())
		return NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "request to "+endpoint+" failed", err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewDataSourceError(apiFootballSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(apiFootballSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewDataSourceError(apiFootballSourceName, ErrCodeNotFound, endpoint+" not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewDataSourceError(apiFootballSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewDataSourceError(apiFootballSourceName, ErrCodeNetworkError, "failed to read response", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	if hasErrors(env.Errors) {
		return NewDataSourceError(apiFootballSourceName, ErrCodeProviderError, string(env.Errors), nil)
	}

	if c.archive != nil && identifier != "" {
		if _, err := c.archive.Save(identifier, body); err != nil {
			c.logger.WithError(err).WithField("identifier", identifier).Warn("Failed to archive response")
		}
	}

	if len(env.Response) == 0 || string(env.Response) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Response, dst); err != nil {
		return NewDataSourceError(apiFootballSourceName, ErrCodeInvalidData, "failed to parse "+endpoint+" payload", err)
	}
	return nil
}

// hasErrors reports whether the envelope's errors field carries anything; the provider sends [] or {} when clean
func hasErrors(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "[]", "{}":
		return false
	default:
		return true
	}
}

// rawScalar returns a JSON string or number as plain text
func rawScalar(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (v apiStatValue) toVenueCount() models.VenueCount {
	return models.VenueCount{Home: v.Home.value, Away: v.Away.value, Total: v.Total.value}
}

// formString returns the form string, or nil unless the provider sent a non-empty JSON string
func formString(raw json.RawMessage) *string {
	var form string
	if err := json.Unmarshal(raw, &form); err != nil || form == "" {
		return nil
	}
	return &form
}

func (v apiAverageValue) toVenueAverage() models.VenueAverage {
	return models.VenueAverage{
		Home:  decimalPtr(v.Home),
		Away:  decimalPtr(v.Away),
		Total: decimalPtr(v.Total),
	}
}

// decimalPtr parses an average, leaving it nil when absent or malformed so scoring defaults apply
func decimalPtr(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	d, err := decimal.NewFromString(rawScalar(raw))
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}
