package domain

import "time"

// VehicleStatus represents the operational state shown on the live map.
type VehicleStatus string

const (
	VehicleActive VehicleStatus = "Active"
	VehicleIdle   VehicleStatus = "Idle"
)

// Vehicle is a tracked fleet unit. Positions come from the simulated feed;
// real telemetry ingestion is out of scope.
type Vehicle struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Driver    string        `json:"driver"`
	Status    VehicleStatus `json:"status"`
	Lat       float64       `json:"lat"`
	Lng       float64       `json:"lng"`
	Color     string        `json:"color"`
	UpdatedAt time.Time     `json:"updated_at"`
}
