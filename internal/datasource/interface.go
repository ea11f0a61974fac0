package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/parlay-advisor/internal/models"
)

// Provider defines the lookups the recommendation pipeline consumes from a sports-data provider
type Provider interface {
	// FetchFixtures retrieves the configured league's fixtures on date (YYYY-MM-DD)
	FetchFixtures(ctx context.Context, date string) ([]models.Match, error)

	// FetchPrediction retrieves the provider's prediction for a fixture.
	// A nil signal with a nil error means the provider has no prediction.
	FetchPrediction(ctx context.Context, fixtureID int) (*models.PredictionSignal, error)

	// FetchTeamStatistics retrieves a team's season aggregates up to date
	FetchTeamStatistics(ctx context.Context, teamID int, date string) (*models.TeamStatistics, error)

	// FetchOdds retrieves bookmaker quotes for a fixture; the result may be empty
	FetchOdds(ctx context.Context, fixtureID int) ([]models.OddsQuote, error)

	// Ping checks the provider is reachable and the credentials are accepted
	Ping(ctx context.Context) error

	// Name returns the name of the data source
	Name() string
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeProviderError        = "provider_error"
)

// ErrCircuitOpen is returned while the circuit breaker rejects requests
var ErrCircuitOpen = errors.New("circuit breaker open")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DataSourceError with the given code
func IsCode(err error, code string) bool {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code == code
	}
	return false
}
