package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer

	err := WriteCSV(&buf, []models.Reading{testReading("RO-001", "Ashdod North", ts)})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "RO-001,Ashdod North,2026-01-10T12:00:00Z,"))
}

func TestLoadCSV_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	original := testReading("RO-001", "Ashdod North", ts)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.Reading{original}))

	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	s := NewReadingStore()
	require.NoError(t, s.LoadCSV(path))
	require.Equal(t, 1, s.Len())

	loaded := s.Filter(FilterOptions{})[0]
	assert.Equal(t, original.SiteID, loaded.SiteID)
	assert.True(t, original.Timestamp.Equal(loaded.Timestamp))
	assert.InDelta(t, original.Pressure, loaded.Pressure, 1e-9)
	assert.InDelta(t, original.SaltRejection, loaded.SaltRejection, 1e-9)
}

func TestLoadCSV_MalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")
	content := strings.Join(csvHeader, ",") + "\nRO-001,Ashdod North,not-a-timestamp,1,2,3,4,5,6,7,8,9\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewReadingStore()
	assert.Error(t, s.LoadCSV(path))
}
