package models

const (
	SiteStatusOnline      = "online"
	SiteStatusDegraded    = "degraded"
	SiteStatusMaintenance = "maintenance"
	SiteStatusOffline     = "offline"

	AlertSeverityLow    = "low"
	AlertSeverityMedium = "medium"
	AlertSeverityHigh   = "high"

	MaintenanceStatusNormal    = "normal"
	MaintenanceStatusAttention = "attention"
	MaintenanceStatusWarning   = "warning"
	MaintenanceStatusCritical  = "critical"

	TopicTelemetryReadings   = "telemetry_readings"
	TopicMaintenanceAlerts   = "maintenance_alerts"
	TopicSiteStatusEvents    = "site_status_events"
	TopicOperatingConditions = "operating_condition_events"

	MetricPressure      = "pressure"
	MetricFlowRate      = "flow_rate"
	MetricConductivity  = "conductivity"
	MetricTemperature   = "temperature"
	MetricPH            = "ph"
	MetricRecoveryRate  = "recovery_rate"
	MetricSaltRejection = "salt_rejection"
)

// MetricNames lists every metric a reading carries, in report order.
var MetricNames = []string{
	MetricPressure,
	MetricFlowRate,
	MetricConductivity,
	MetricTemperature,
	MetricPH,
	MetricRecoveryRate,
	MetricSaltRejection,
}
