package models

import "time"

// WasteData is the payload for recording one collection event.
type WasteData struct {
	TotalWeight    float64            `json:"totalWeight" validate:"gte=0"`
	WasteBreakdown map[string]float64 `json:"wasteBreakdown,omitempty"`
}

// WasteCollection is a document in the waste_collections collection.
type WasteCollection struct {
	ID             string             `json:"id,omitempty"`
	FeederPointID  string             `json:"feederPointId"`
	DriverID       string             `json:"driverId"`
	TotalWeight    float64            `json:"totalWeight"`
	WasteBreakdown map[string]float64 `json:"wasteBreakdown,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
	Date           string             `json:"date"`
}

// WasteSummary aggregates one driver's collections for a single day.
type WasteSummary struct {
	TotalWaste  float64            `json:"totalWaste"`
	WasteByType map[string]float64 `json:"wasteByType"`
	Collections []WasteCollection  `json:"collections"`
}

// DailySummary aggregates a driver's trips and waste for one day.
type DailySummary struct {
	TotalTrips          int     `json:"totalTrips"`
	TotalDistance       float64 `json:"totalDistance"`
	TotalDuration       int     `json:"totalDuration"`
	TotalFeederPoints   int     `json:"totalFeederPoints"`
	TotalWasteCollected float64 `json:"totalWasteCollected"`
	Date                string  `json:"date"`
}

// PerformanceStats summarizes a driver's trips over a trailing window.
type PerformanceStats struct {
	TotalTrips         int     `json:"totalTrips"`
	CompletedTrips     int     `json:"completedTrips"`
	TotalDistance      float64 `json:"totalDistance"`
	TotalDuration      int     `json:"totalDuration"`
	AverageTripsPerDay float64 `json:"averageTripsPerDay"`
	PunctualityScore   int     `json:"punctualityScore"`
}
