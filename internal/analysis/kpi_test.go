package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

func TestCalculateKPIs_Empty(t *testing.T) {
	kpis := CalculateKPIs("RO-001", nil)
	assert.Equal(t, "RO-001", kpis.SiteID)
	assert.Zero(t, kpis.SampleCount)
	assert.Zero(t, kpis.EfficiencyScore)
}

func TestCalculateKPIs_NominalOperation(t *testing.T) {
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	readings := []models.Reading{
		{Timestamp: base, Pressure: 64, FlowRate: 116, RecoveryRate: 74},
		{Timestamp: base.Add(time.Hour), Pressure: 66, FlowRate: 120, RecoveryRate: 76},
	}

	kpis := CalculateKPIs("RO-001", readings)

	assert.Equal(t, 2, kpis.SampleCount)
	assert.InDelta(t, 65, kpis.AvgPressure, 1e-9)
	assert.InDelta(t, 118, kpis.AvgFlow, 1e-9)
	assert.InDelta(t, 75, kpis.AvgRecovery, 1e-9)
	assert.Equal(t, base.Add(time.Hour), kpis.LastUpdated)

	// recovery 75 → 0.6*(5/30)=0.1, pressure 65 → 0.4*(1-0.25)=0.3
	assert.InDelta(t, 40, kpis.EfficiencyScore, 1e-9)
}

func TestCalculateKPIs_ScoreIsClamped(t *testing.T) {
	readings := []models.Reading{
		{Pressure: 80, RecoveryRate: 65}, // fouled, high pressure, low recovery
	}
	kpis := CalculateKPIs("RO-001", readings)
	assert.GreaterOrEqual(t, kpis.EfficiencyScore, 0.0)
	assert.LessOrEqual(t, kpis.EfficiencyScore, 100.0)
}
