package simulator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func sampleEventMessage(t *testing.T, ts time.Time) []byte {
	t.Helper()
	msg, err := json.Marshal(map[string]interface{}{
		"timestamp":  ts.Unix(),
		"event_type": "GenerateReading",
		"site_id":    "RO-001",
		"pressure":   65.4,
	})
	require.NoError(t, err)
	return msg
}

func TestPartitionPath(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2026, 1, 10, 13, 30, 0, 0, time.UTC)

	fullPath, fileKey, err := partitionPath(dir, "ro_data", models.TopicTelemetryReadings, map[string]interface{}{
		"timestamp": float64(ts.Unix()),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(fullPath, filepath.Join(
		"ro_data", models.TopicTelemetryReadings, "year=2026", "month=01", "day=10", "hour=13")))
	assert.Contains(t, fileKey, "year=2026/month=01/day=10/hour=13")

	info, err := os.Stat(fullPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestPartitionPath_MissingTimestamp(t *testing.T) {
	_, _, err := partitionPath(t.TempDir(), "ro_data", models.TopicTelemetryReadings, map[string]interface{}{})
	assert.Error(t, err)
}

func TestCSVOutput_WritesHeaderOncePerPartition(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "ro_data")
	ts := time.Date(2026, 1, 10, 13, 0, 0, 0, time.UTC)

	msg := sampleEventMessage(t, ts)
	require.NoError(t, out.WriteMessage(models.TopicTelemetryReadings, msg))
	require.NoError(t, out.WriteMessage(models.TopicTelemetryReadings, msg))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "ro_data", models.TopicTelemetryReadings,
		"year=2026", "month=01", "day=10", "hour=13", "data.csv"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "event_type,pressure,site_id,timestamp", lines[0])
}

func TestJSONOutput_AppendsLines(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "ro_data")
	ts := time.Date(2026, 1, 10, 13, 0, 0, 0, time.UTC)

	msg := sampleEventMessage(t, ts)
	require.NoError(t, out.WriteMessage(models.TopicTelemetryReadings, msg))
	require.NoError(t, out.WriteMessage(models.TopicTelemetryReadings, msg))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "ro_data", models.TopicTelemetryReadings,
		"year=2026", "month=01", "day=10", "hour=13", "data.json"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "RO-001", event["site_id"])
}

func TestDetermineOutputDestination_DefaultsToConsole(t *testing.T) {
	s := newTestSimulator(t)
	_, ok := s.determineOutputDestination().(*ConsoleOutput)
	assert.True(t, ok)
}

func TestDetermineOutputDestination_FileFormats(t *testing.T) {
	s := newTestSimulator(t)
	s.Config.OutputPath = t.TempDir()

	s.Config.OutputFormat = "csv"
	_, ok := s.determineOutputDestination().(*CSVOutput)
	assert.True(t, ok)

	s.Config.OutputFormat = "json"
	_, ok = s.determineOutputDestination().(*JSONOutput)
	assert.True(t, ok)
}
