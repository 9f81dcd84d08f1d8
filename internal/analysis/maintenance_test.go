package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func steadyReadings(n int, pressure, flow, conductivity, recovery float64) []models.Reading {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	readings := make([]models.Reading, n)
	for i := range readings {
		readings[i] = models.Reading{
			SiteID:       "RO-001",
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
			Pressure:     pressure,
			FlowRate:     flow,
			Conductivity: conductivity,
			RecoveryRate: recovery,
		}
	}
	return readings
}

func TestPredict_NormalOperation(t *testing.T) {
	p := NewPredictor()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	forecast := p.Predict("RO-001", steadyReadings(10, 65, 115, 450, 75), now)

	assert.Equal(t, models.MaintenanceStatusNormal, forecast.Status)
	assert.NotNil(t, forecast.Alerts)
	assert.Empty(t, forecast.Alerts)
	assert.Equal(t, now.AddDate(0, 0, 30), forecast.NextMaintenance)
}

func TestPredict_HighPressureRaisesWarning(t *testing.T) {
	p := NewPredictor()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	forecast := p.Predict("RO-001", steadyReadings(10, 78, 115, 450, 75), now)

	assert.Equal(t, models.MaintenanceStatusWarning, forecast.Status)
	require.Len(t, forecast.Alerts, 1)
	assert.Equal(t, models.MetricPressure, forecast.Alerts[0].Parameter)
	assert.Equal(t, models.AlertSeverityHigh, forecast.Alerts[0].Severity)
	assert.Equal(t, now.AddDate(0, 0, 14), forecast.NextMaintenance)
}

func TestPredict_MultipleFaultsAreCritical(t *testing.T) {
	p := NewPredictor()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	// High pressure and depressed recovery together look like heavy fouling.
	forecast := p.Predict("RO-001", steadyReadings(10, 78, 115, 450, 68), now)

	assert.Equal(t, models.MaintenanceStatusCritical, forecast.Status)
	assert.Len(t, forecast.Alerts, 2)
	assert.Equal(t, now.AddDate(0, 0, 7), forecast.NextMaintenance)
}

func TestPredict_RapidDriftRaisesAttention(t *testing.T) {
	p := NewPredictor()
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	readings := steadyReadings(10, 65, 115, 450, 75)
	for i := range readings {
		readings[i].Pressure = 60 + float64(i) // climbing 1 bar per sample
	}

	forecast := p.Predict("RO-001", readings, now)

	assert.Equal(t, models.MaintenanceStatusAttention, forecast.Status)
	require.Len(t, forecast.Alerts, 1)
	assert.Equal(t, models.AlertSeverityMedium, forecast.Alerts[0].Severity)
	assert.Contains(t, forecast.Alerts[0].Message, "increasing")
}

func TestCalculateTrends_ShortSeriesHasZeroSlope(t *testing.T) {
	p := NewPredictor()

	trends := p.CalculateTrends(steadyReadings(3, 65, 115, 450, 75))
	require.Contains(t, trends, models.MetricPressure)
	assert.Zero(t, trends[models.MetricPressure].Slope)
	assert.InDelta(t, 65, trends[models.MetricPressure].Mean, 1e-9)
}

func TestCalculateTrends_Empty(t *testing.T) {
	p := NewPredictor()
	assert.Empty(t, p.CalculateTrends(nil))
}
