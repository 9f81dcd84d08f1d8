package models

import "time"

// Alert flags a parameter that is out of range or trending badly at a site.
type Alert struct {
	ID             string    `json:"id"`
	SiteID         string    `json:"site_id"`
	Parameter      string    `json:"parameter"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

// MaintenanceForecast summarises the maintenance outlook for a site.
type MaintenanceForecast struct {
	SiteID          string    `json:"site_id"`
	Status          string    `json:"status"`
	Alerts          []Alert   `json:"alerts"`
	NextMaintenance time.Time `json:"next_maintenance"`
}
