package simulator

import (
	"fmt"

	"github.com/xitongsys/parquet-go/schema"

	"github.com/samistat08/ro-process-dashboard/internal/models"
)

// BaseEvent is the common structure for all events
type BaseEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	SiteID    string `json:"siteId,omitempty" parquet:"name=siteId,type=BYTE_ARRAY,convertedtype=UTF8"`
	SiteName  string `json:"siteName,omitempty" parquet:"name=siteName,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// TelemetryReadingEvent carries one generated sensor sample
type TelemetryReadingEvent struct {
	BaseEvent
	Latitude      float64 `json:"latitude" parquet:"name=latitude,type=DOUBLE"`
	Longitude     float64 `json:"longitude" parquet:"name=longitude,type=DOUBLE"`
	Pressure      float64 `json:"pressure" parquet:"name=pressure,type=DOUBLE"`
	FlowRate      float64 `json:"flowRate" parquet:"name=flowRate,type=DOUBLE"`
	Conductivity  float64 `json:"conductivity" parquet:"name=conductivity,type=DOUBLE"`
	Temperature   float64 `json:"temperature" parquet:"name=temperature,type=DOUBLE"`
	PH            float64 `json:"ph" parquet:"name=ph,type=DOUBLE"`
	RecoveryRate  float64 `json:"recoveryRate" parquet:"name=recoveryRate,type=DOUBLE"`
	SaltRejection float64 `json:"saltRejection" parquet:"name=saltRejection,type=DOUBLE"`
}

// MaintenanceAlertEvent represents an out-of-range or trending parameter
type MaintenanceAlertEvent struct {
	BaseEvent
	AlertID        string `json:"alertId" parquet:"name=alertId,type=BYTE_ARRAY,convertedtype=UTF8"`
	Parameter      string `json:"parameter" parquet:"name=parameter,type=BYTE_ARRAY,convertedtype=UTF8"`
	Severity       string `json:"severity" parquet:"name=severity,type=BYTE_ARRAY,convertedtype=UTF8"`
	Message        string `json:"message" parquet:"name=message,type=BYTE_ARRAY,convertedtype=UTF8"`
	Recommendation string `json:"recommendation" parquet:"name=recommendation,type=BYTE_ARRAY,convertedtype=UTF8"`
}

// SiteStatusEvent represents an operational status transition
type SiteStatusEvent struct {
	BaseEvent
	OldStatus    string  `json:"oldStatus" parquet:"name=oldStatus,type=BYTE_ARRAY,convertedtype=UTF8"`
	NewStatus    string  `json:"newStatus" parquet:"name=newStatus,type=BYTE_ARRAY,convertedtype=UTF8"`
	FoulingLevel float64 `json:"foulingLevel" parquet:"name=foulingLevel,type=DOUBLE"`
}

// OperatingConditionEvent represents a plant-wide conditions update
type OperatingConditionEvent struct {
	BaseEvent
	DemandFactor       float64 `json:"demandFactor" parquet:"name=demandFactor,type=DOUBLE"`
	FeedTempOffset     float64 `json:"feedTempOffset" parquet:"name=feedTempOffset,type=DOUBLE"`
	FeedSalinityFactor float64 `json:"feedSalinityFactor" parquet:"name=feedSalinityFactor,type=DOUBLE"`
}

func GetSchema(topic string) (*schema.SchemaHandler, error) {
	var sh *schema.SchemaHandler
	var err error

	switch topic {
	case models.TopicTelemetryReadings:
		sh, err = schema.NewSchemaHandlerFromStruct(new(TelemetryReadingEvent))
	case models.TopicMaintenanceAlerts:
		sh, err = schema.NewSchemaHandlerFromStruct(new(MaintenanceAlertEvent))
	case models.TopicSiteStatusEvents:
		sh, err = schema.NewSchemaHandlerFromStruct(new(SiteStatusEvent))
	case models.TopicOperatingConditions:
		sh, err = schema.NewSchemaHandlerFromStruct(new(OperatingConditionEvent))
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}

	if err != nil {
		return nil, fmt.Errorf("error creating schema for %s: %w", topic, err)
	}

	return sh, nil
}
