package analysis

import (
	"fmt"
	"time"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// Threshold bounds a parameter and its acceptable rate of change.
type Threshold struct {
	Low            float64
	High           float64
	TrendThreshold float64
}

// Trend captures the rolling state of one parameter.
type Trend struct {
	CurrentValue float64
	Mean         float64
	StdDev       float64
	Slope        float64
}

// Predictor analyses recent readings for maintenance needs.
type Predictor struct {
	Thresholds map[string]Threshold
	WindowSize int
}

func NewPredictor() *Predictor {
	return &Predictor{
		Thresholds: map[string]Threshold{
			models.MetricPressure:     {Low: 55, High: 75, TrendThreshold: 0.5},
			models.MetricFlowRate:     {Low: 105, High: 125, TrendThreshold: 0.3},
			models.MetricConductivity: {Low: 420, High: 490, TrendThreshold: 2.0},
			models.MetricRecoveryRate: {Low: 70, High: 80, TrendThreshold: 0.5},
		},
		WindowSize: 5,
	}
}

// CalculateTrends computes rolling statistics for every thresholded
// parameter. With fewer samples than the window the slope is reported as
// zero rather than extrapolated.
func (p *Predictor) CalculateTrends(readings []models.Reading) map[string]Trend {
	trends := make(map[string]Trend)
	if len(readings) == 0 {
		return trends
	}

	for param := range p.Thresholds {
		values, err := metricValues(readings, param)
		if err != nil || len(values) == 0 {
			continue
		}

		trend := Trend{CurrentValue: values[len(values)-1]}

		if len(values) < p.WindowSize {
			trend.Mean = mean(values)
			trend.StdDev = stdDev(values)
		} else {
			window := values[len(values)-p.WindowSize:]
			trend.Mean = mean(window)
			trend.StdDev = stdDev(window)

			// Change of the rolling mean across one window, per sample.
			prevWindow := values[len(values)-p.WindowSize:]
			if len(values) >= 2*p.WindowSize {
				prevWindow = values[len(values)-2*p.WindowSize : len(values)-p.WindowSize]
			}
			trend.Slope = (mean(window) - mean(prevWindow)) / float64(p.WindowSize)
		}

		trends[param] = trend
	}
	return trends
}

// analyze converts trends into alerts for out-of-range values and rapid
// drifts.
func (p *Predictor) analyze(siteID string, readings []models.Reading, now time.Time) []models.Alert {
	var alerts []models.Alert

	for param, trend := range p.CalculateTrends(readings) {
		threshold := p.Thresholds[param]

		switch {
		case trend.CurrentValue < threshold.Low:
			alerts = append(alerts, models.Alert{
				SiteID:         siteID,
				Parameter:      param,
				Severity:       models.AlertSeverityHigh,
				Message:        fmt.Sprintf("low %s: %.1f", param, trend.CurrentValue),
				Recommendation: fmt.Sprintf("check %s sensors and control systems", param),
				CreatedAt:      now,
			})
		case trend.CurrentValue > threshold.High:
			alerts = append(alerts, models.Alert{
				SiteID:         siteID,
				Parameter:      param,
				Severity:       models.AlertSeverityHigh,
				Message:        fmt.Sprintf("high %s: %.1f", param, trend.CurrentValue),
				Recommendation: fmt.Sprintf("verify %s control systems and membrane condition", param),
				CreatedAt:      now,
			})
		}

		if trend.Slope > threshold.TrendThreshold || trend.Slope < -threshold.TrendThreshold {
			direction := "increasing"
			if trend.Slope < 0 {
				direction = "decreasing"
			}
			alerts = append(alerts, models.Alert{
				SiteID:         siteID,
				Parameter:      param,
				Severity:       models.AlertSeverityMedium,
				Message:        fmt.Sprintf("%s is %s rapidly", param, direction),
				Recommendation: fmt.Sprintf("monitor %s trend and schedule preventive maintenance", param),
				CreatedAt:      now,
			})
		}
	}

	return alerts
}

var severityScores = map[string]int{
	models.AlertSeverityHigh:   3,
	models.AlertSeverityMedium: 2,
	models.AlertSeverityLow:    1,
}

// Predict scores the current alerts and derives the maintenance outlook.
func (p *Predictor) Predict(siteID string, readings []models.Reading, now time.Time) models.MaintenanceForecast {
	alerts := p.analyze(siteID, readings, now)

	if len(alerts) == 0 {
		return models.MaintenanceForecast{
			SiteID:          siteID,
			Status:          models.MaintenanceStatusNormal,
			Alerts:          []models.Alert{},
			NextMaintenance: now.AddDate(0, 0, 30),
		}
	}

	var totalScore int
	for _, alert := range alerts {
		totalScore += severityScores[alert.Severity]
	}

	forecast := models.MaintenanceForecast{SiteID: siteID, Alerts: alerts}
	switch {
	case totalScore >= 5:
		forecast.Status = models.MaintenanceStatusCritical
		forecast.NextMaintenance = now.AddDate(0, 0, 7)
	case totalScore >= 3:
		forecast.Status = models.MaintenanceStatusWarning
		forecast.NextMaintenance = now.AddDate(0, 0, 14)
	default:
		forecast.Status = models.MaintenanceStatusAttention
		forecast.NextMaintenance = now.AddDate(0, 0, 21)
	}
	return forecast
}
