package models

import "time"

// Trip status values. A driver has at most one in-progress trip at a
// time; the data service enforces this on start.
const (
	TripInProgress = "in_progress"
	TripCompleted  = "completed"
)

// TripData is the payload for starting a trip.
type TripData struct {
	VehicleNumber string   `json:"vehicleNumber" validate:"required"`
	StartLocation Location `json:"startLocation" validate:"required"`
}

// EndTripData is the payload for ending a trip.
type EndTripData struct {
	EndLocation Location `json:"endLocation" validate:"required"`
}

// Trip is a document in the driver_trips collection. Created on start,
// mutated once on end, never deleted.
type Trip struct {
	ID                  string     `json:"id,omitempty"`
	DriverID            string     `json:"driverId"`
	VehicleNumber       string     `json:"vehicleNumber"`
	StartLocation       Location   `json:"startLocation"`
	EndLocation         *Location  `json:"endLocation,omitempty"`
	StartTime           time.Time  `json:"startTime"`
	EndTime             *time.Time `json:"endTime,omitempty"`
	Duration            int        `json:"duration"`
	Status              string     `json:"status"`
	TotalDistance       float64    `json:"totalDistance"`
	FeederPointsVisited int        `json:"feederPointsVisited"`
	TotalWasteCollected float64    `json:"totalWasteCollected"`
	Date                string     `json:"date"`
}
