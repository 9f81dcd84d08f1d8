package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func readingsWith(values map[string][]float64, n int) []models.Reading {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	readings := make([]models.Reading, n)
	for i := range readings {
		r := models.Reading{
			SiteID:    "RO-001",
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
		if v, ok := values[models.MetricPressure]; ok {
			r.Pressure = v[i]
		}
		if v, ok := values[models.MetricFlowRate]; ok {
			r.FlowRate = v[i]
		}
		if v, ok := values[models.MetricRecoveryRate]; ok {
			r.RecoveryRate = v[i]
		}
		readings[i] = r
	}
	return readings
}

func TestSummarize(t *testing.T) {
	readings := readingsWith(map[string][]float64{
		models.MetricPressure: {60, 62, 64, 66, 68},
	}, 5)

	s, err := Summarize(readings, models.MetricPressure)
	require.NoError(t, err)

	assert.Equal(t, models.MetricPressure, s.Metric)
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 64, s.Mean, 1e-9)
	assert.InDelta(t, 60, s.Min, 1e-9)
	assert.InDelta(t, 68, s.Max, 1e-9)
	// sample standard deviation of an arithmetic sequence with step 2
	assert.InDelta(t, 3.1623, s.StdDev, 1e-3)
}

func TestSummarize_UnknownMetric(t *testing.T) {
	readings := readingsWith(map[string][]float64{models.MetricPressure: {60}}, 1)
	_, err := Summarize(readings, "turbidity")
	assert.Error(t, err)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil, models.MetricPressure)
	require.NoError(t, err)
	assert.Zero(t, s.Count)
	assert.Zero(t, s.Mean)
}

func TestCorrelate_PerfectCorrelation(t *testing.T) {
	readings := readingsWith(map[string][]float64{
		models.MetricPressure: {60, 62, 64, 66},
		models.MetricFlowRate: {110, 114, 118, 122}, // linear in pressure
	}, 4)

	m, err := Correlate(readings, []string{models.MetricPressure, models.MetricFlowRate})
	require.NoError(t, err)

	assert.InDelta(t, 1, m.Values[0][0], 1e-9)
	assert.InDelta(t, 1, m.Values[1][1], 1e-9)
	assert.InDelta(t, 1, m.Values[0][1], 1e-9)
	assert.InDelta(t, m.Values[0][1], m.Values[1][0], 1e-9)
}

func TestCorrelate_InverseCorrelation(t *testing.T) {
	readings := readingsWith(map[string][]float64{
		models.MetricPressure:     {60, 62, 64, 66},
		models.MetricRecoveryRate: {80, 78, 76, 74},
	}, 4)

	m, err := Correlate(readings, []string{models.MetricPressure, models.MetricRecoveryRate})
	require.NoError(t, err)
	assert.InDelta(t, -1, m.Values[0][1], 1e-9)
}

func TestCorrelate_ZeroVariance(t *testing.T) {
	readings := readingsWith(map[string][]float64{
		models.MetricPressure: {65, 65, 65},
		models.MetricFlowRate: {110, 115, 120},
	}, 3)

	m, err := Correlate(readings, []string{models.MetricPressure, models.MetricFlowRate})
	require.NoError(t, err)
	assert.Zero(t, m.Values[0][1])
}

func TestCorrelate_RequiresEnoughInput(t *testing.T) {
	readings := readingsWith(map[string][]float64{models.MetricPressure: {60, 61}}, 2)

	_, err := Correlate(readings, []string{models.MetricPressure})
	assert.Error(t, err)

	_, err = Correlate(readings[:1], []string{models.MetricPressure, models.MetricFlowRate})
	assert.Error(t, err)
}
