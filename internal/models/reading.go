package models

import "time"

// Reading is a single telemetry sample for one site at one timestamp.
// Records are immutable once generated.
type Reading struct {
	SiteID        string    `json:"site_id"`
	SiteName      string    `json:"site_name"`
	Timestamp     time.Time `json:"timestamp"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Pressure      float64   `json:"pressure"`       // bar
	FlowRate      float64   `json:"flow_rate"`      // m³/h
	Conductivity  float64   `json:"conductivity"`   // µS/cm
	Temperature   float64   `json:"temperature"`    // °C
	PH            float64   `json:"ph"`
	RecoveryRate  float64   `json:"recovery_rate"`  // %
	SaltRejection float64   `json:"salt_rejection"` // %
}

// Metric returns the named metric value of the reading.
func (r *Reading) Metric(name string) (float64, bool) {
	switch name {
	case MetricPressure:
		return r.Pressure, true
	case MetricFlowRate:
		return r.FlowRate, true
	case MetricConductivity:
		return r.Conductivity, true
	case MetricTemperature:
		return r.Temperature, true
	case MetricPH:
		return r.PH, true
	case MetricRecoveryRate:
		return r.RecoveryRate, true
	case MetricSaltRejection:
		return r.SaltRejection, true
	}
	return 0, false
}
