// Package logger provides analysis-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for match scoring and parlay selection.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogMatchScored logs the propositions produced for one match.
func (al *AnalysisLogger) LogMatchScored(fixtureID int, game string, propositions int) {
	al.WithFields(logrus.Fields{
		"fixture_id":   fixtureID,
		"game":         game,
		"propositions": propositions,
	}).Debug("Match scored")
}

// LogSignalDegraded logs a signal that was unavailable and dropped from aggregation.
func (al *AnalysisLogger) LogSignalDegraded(fixtureID int, signal string, err error) {
	al.WithFields(logrus.Fields{
		"fixture_id": fixtureID,
		"signal":     signal,
		"error":      err,
	}).Warn("Signal unavailable, continuing without it")
}

// LogParlaySelected logs the outcome of a tier selection.
func (al *AnalysisLogger) LogParlaySelected(tier string, legs, probability, expectedReturn int) {
	al.WithFields(logrus.Fields{
		"tier":            tier,
		"legs":            legs,
		"probability":     probability,
		"expected_return": expectedReturn,
	}).Info("Parlay selected")
}

// LogRecommendation logs a completed recommendation request.
func (al *AnalysisLogger) LogRecommendation(date string, matches, propositions int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"date":         date,
		"matches":      matches,
		"propositions": propositions,
		"duration_ms":  durationMs,
	}).Info("Recommendation completed")
}
