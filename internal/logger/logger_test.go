package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionFormatter(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	log := NewLogger("info")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestAttachFile(t *testing.T) {
	log := NewLogger("info")
	path := filepath.Join(t.TempDir(), "logs", "parlay.log")

	require.NoError(t, AttachFile(log, FileOptions{Path: path}))
	log.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestAttachFileEmptyPath(t *testing.T) {
	log, buf := setupTestLogger()

	require.NoError(t, AttachFile(log, FileOptions{}))
	log.Info("still buffered")
	assert.Contains(t, buf.String(), "still buffered")
}

func TestAnalysisLoggerMatchScored(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogMatchScored(1001, "Flamengo vs Santos", 4)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "analysis", logEntry["component"])
	assert.Equal(t, "Flamengo vs Santos", logEntry["game"])
	assert.Equal(t, float64(4), logEntry["propositions"])
}

func TestAnalysisLoggerSignalDegraded(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogSignalDegraded(1001, "odds", errors.New("timeout"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, "odds", logEntry["signal"])
	assert.Equal(t, "timeout", logEntry["error"])
}

func TestAnalysisLoggerParlaySelected(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogParlaySelected("low_risk", 2, 63, 158)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "low_risk", logEntry["tier"])
	assert.Equal(t, float64(158), logEntry["expected_return"])
}

func TestAnalysisLoggerRecommendation(t *testing.T) {
	log, buf := setupTestLogger()
	analysisLogger := NewAnalysisLogger(log)

	analysisLogger.LogRecommendation("2024-05-12", 3, 9, 12.5)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "2024-05-12", logEntry["date"])
	assert.Equal(t, float64(9), logEntry["propositions"])
}
