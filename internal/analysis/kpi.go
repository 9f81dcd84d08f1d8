package analysis

import (
	"math"
	"time"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// KPIs summarises site performance over a set of readings.
type KPIs struct {
	SiteID          string    `json:"site_id"`
	AvgRecovery     float64   `json:"avg_recovery"`
	AvgPressure     float64   `json:"avg_pressure"`
	AvgFlow         float64   `json:"avg_flow"`
	EfficiencyScore float64   `json:"efficiency_score"`
	SampleCount     int       `json:"sample_count"`
	LastUpdated     time.Time `json:"last_updated"`
}

const (
	recoveryWeight = 0.6
	pressureWeight = 0.4
)

// CalculateKPIs computes the aggregate indicators for one site's readings.
func CalculateKPIs(siteID string, readings []models.Reading) KPIs {
	kpis := KPIs{SiteID: siteID, SampleCount: len(readings)}
	if len(readings) == 0 {
		return kpis
	}

	var sumRecovery, sumPressure, sumFlow, sumScore float64
	for _, r := range readings {
		sumRecovery += r.RecoveryRate
		sumPressure += r.Pressure
		sumFlow += r.FlowRate

		// Normalised blend of recovery (higher is better) and feed
		// pressure (lower is better) on the plant's working ranges.
		normRecovery := (r.RecoveryRate - 70) / 30
		normPressure := 1 - (r.Pressure-60)/20
		sumScore += recoveryWeight*normRecovery + pressureWeight*normPressure

		if r.Timestamp.After(kpis.LastUpdated) {
			kpis.LastUpdated = r.Timestamp
		}
	}

	n := float64(len(readings))
	kpis.AvgRecovery = sumRecovery / n
	kpis.AvgPressure = sumPressure / n
	kpis.AvgFlow = sumFlow / n
	kpis.EfficiencyScore = math.Min(math.Max(sumScore/n*100, 0), 100)

	return kpis
}
