package models

import "time"

// Driver status values maintained as side fields by punch and trip
// operations.
const (
	DriverStatusActive   = "active"
	DriverStatusInactive = "inactive"
	DriverStatusOnTrip   = "on_trip"
)

// Location is a GPS coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Driver is a document in the drivers collection.
type Driver struct {
	ID                string     `json:"id,omitempty"`
	Name              string     `json:"name"`
	EmployeeID        string     `json:"employeeId,omitempty"`
	VehicleNumber     string     `json:"vehicleNumber,omitempty"`
	Zone              string     `json:"zone,omitempty"`
	Ward              string     `json:"ward,omitempty"`
	Route             string     `json:"route,omitempty"`
	Status            string     `json:"status,omitempty"`
	CurrentVehicle    string     `json:"currentVehicle,omitempty"`
	CurrentTripID     string     `json:"currentTripId,omitempty"`
	LastPunchIn       *time.Time `json:"lastPunchIn,omitempty"`
	LastPunchOut      *time.Time `json:"lastPunchOut,omitempty"`
	LastTripCompleted *time.Time `json:"lastTripCompleted,omitempty"`
	UpdatedAt         *time.Time `json:"updatedAt,omitempty"`
}

// DayKey buckets a timestamp into its calendar day, the cheap range-free
// query partition used by attendance, trip, and waste records. Records
// always derive date and timestamp from the same clock reading.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
