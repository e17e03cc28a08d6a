package services

import (
	"context"
	"math"
	"time"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// A completed trip at or under eight hours counts as punctual.
const punctualTripMinutes = 480

// GetDailySummary reduces one day's trips and waste collections into a
// dashboard summary. An empty date means today.
func (s *DataService) GetDailySummary(ctx context.Context, driverID, date string) (*models.DailySummary, error) {
	if date == "" {
		date = models.DayKey(s.now())
	}

	tripDocs, err := s.store.Query(ctx, store.CollectionDriverTrips, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "date", Op: "==", Value: date},
		},
	})
	if err != nil {
		return nil, err
	}

	wasteDocs, err := s.store.Query(ctx, store.CollectionWasteCollections, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "date", Op: "==", Value: date},
		},
	})
	if err != nil {
		return nil, err
	}

	summary := &models.DailySummary{TotalTrips: len(tripDocs), Date: date}
	for _, doc := range tripDocs {
		var trip models.Trip
		if err := doc.DataTo(&trip); err != nil {
			return nil, err
		}
		summary.TotalDistance += trip.TotalDistance
		summary.TotalDuration += trip.Duration
		summary.TotalFeederPoints += trip.FeederPointsVisited
	}
	for _, doc := range wasteDocs {
		var waste models.WasteCollection
		if err := doc.DataTo(&waste); err != nil {
			return nil, err
		}
		summary.TotalWasteCollected += waste.TotalWeight
	}
	return summary, nil
}

// GetPerformanceStats reduces a driver's trips over the trailing window
// into aggregate counters and a punctuality score.
func (s *DataService) GetPerformanceStats(ctx context.Context, driverID string, days int) (*models.PerformanceStats, error) {
	if days <= 0 {
		days = 30
	}
	end := s.now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	docs, err := s.store.Query(ctx, store.CollectionDriverTrips, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "startTime", Op: ">=", Value: start},
			{Field: "startTime", Op: "<=", Value: end},
		},
	})
	if err != nil {
		return nil, err
	}

	trips := make([]models.Trip, 0, len(docs))
	for _, doc := range docs {
		var trip models.Trip
		if err := doc.DataTo(&trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	stats := &models.PerformanceStats{
		TotalTrips:         len(trips),
		AverageTripsPerDay: float64(len(trips)) / float64(days),
	}
	for _, trip := range trips {
		if trip.Status == models.TripCompleted {
			stats.CompletedTrips++
		}
		stats.TotalDistance += trip.TotalDistance
		stats.TotalDuration += trip.Duration
	}
	stats.PunctualityScore = punctualityScore(trips)
	return stats, nil
}

// punctualityScore is the rounded percentage of trips that completed
// within the eight-hour threshold.
func punctualityScore(trips []models.Trip) int {
	if len(trips) == 0 {
		return 0
	}
	onTime := 0
	for _, trip := range trips {
		if trip.Status == models.TripCompleted && trip.Duration <= punctualTripMinutes {
			onTime++
		}
	}
	return int(math.Round(float64(onTime) / float64(len(trips)) * 100))
}
