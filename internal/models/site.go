package models

import (
	"fmt"
	"time"
)

type Location struct {
	Lat float64 `json:"lat" parquet:"name=lat,type=DOUBLE"`
	Lon float64 `json:"lon" parquet:"name=lon,type=DOUBLE"`
}

// Site represents a reverse-osmosis plant installation
type Site struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Location         Location  `json:"location"`
	Status           string    `json:"status"`
	CapacityM3PerDay float64   `json:"capacity_m3_per_day"`
	CommissionedAt   time.Time `json:"commissioned_at"`
}

func (l *Location) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		_, err := fmt.Sscanf(string(v), "POINT(%f %f)", &l.Lon, &l.Lat)
		return err
	case string:
		_, err := fmt.Sscanf(v, "POINT(%f %f)", &l.Lon, &l.Lat)
		return err
	default:
		return fmt.Errorf("unsupported type for Location: %T", value)
	}
}
