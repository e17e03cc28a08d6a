package models

import "time"

// Punch directions.
const (
	PunchIn  = "punch_in"
	PunchOut = "punch_out"
)

// PunchData is the proof payload captured on a punch action.
type PunchData struct {
	Photo         string   `json:"photo" validate:"required"`
	Location      Location `json:"location" validate:"required"`
	VehicleNumber string   `json:"vehicleNumber" validate:"required"`
	Name          string   `json:"name" validate:"required"`
}

// AttendanceEvent is a document in the driver_attendance collection.
// Events are append-only: created on punch, never updated or deleted.
type AttendanceEvent struct {
	ID            string    `json:"id,omitempty"`
	DriverID      string    `json:"driverId"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	Photo         string    `json:"photo"`
	Location      Location  `json:"location"`
	VehicleNumber string    `json:"vehicleNumber"`
	Name          string    `json:"name"`
	Date          string    `json:"date"`
}

// PunchStatus reports whether the driver's latest punch today was a
// punch-in.
type PunchStatus struct {
	IsPunchedIn bool             `json:"isPunchedIn"`
	LastPunch   *AttendanceEvent `json:"lastPunch"`
}
