package services

import (
	"context"
	"fmt"
	"log"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// StartTrip creates an in-progress trip for the driver and points the
// driver document at it. At most one in-progress trip may exist per
// driver; a second start fails with ErrInvalidState.
func (s *DataService) StartTrip(ctx context.Context, driverID string, data models.TripData) (*models.Trip, error) {
	lock := s.driverLock(driverID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.GetCurrentTrip(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("driver %s already has trip %s in progress: %w", driverID, current.ID, store.ErrInvalidState)
	}

	now := s.now()
	trip := models.Trip{
		DriverID:      driverID,
		VehicleNumber: data.VehicleNumber,
		StartLocation: data.StartLocation,
		StartTime:     now,
		Status:        models.TripInProgress,
		Date:          models.DayKey(now),
	}

	id, err := s.store.Add(ctx, store.CollectionDriverTrips, trip)
	if err != nil {
		return nil, err
	}
	trip.ID = id

	err = s.store.Update(ctx, store.CollectionDrivers, driverID, map[string]interface{}{
		"currentTripId": id,
		"status":        models.DriverStatusOnTrip,
	})
	if err != nil {
		log.Printf("⚠️  Trip %s started but driver %s status update failed: %v", id, driverID, err)
	}

	return &trip, nil
}

// EndTrip marks an in-progress trip completed, computing its duration as
// whole minutes between the stored start and now. Only the driver who
// owns the trip may end it; ending an already completed trip fails with
// ErrInvalidState rather than silently recomputing.
func (s *DataService) EndTrip(ctx context.Context, driverID, tripID string, data models.EndTripData) (*models.Trip, error) {
	doc, err := s.store.Get(ctx, store.CollectionDriverTrips, tripID)
	if err != nil {
		return nil, err
	}

	var trip models.Trip
	if err := doc.DataTo(&trip); err != nil {
		return nil, err
	}
	trip.ID = doc.ID

	if trip.DriverID != driverID {
		return nil, fmt.Errorf("trip %s does not belong to driver %s: %w", tripID, driverID, store.ErrInvalidState)
	}
	if trip.Status != models.TripInProgress {
		return nil, fmt.Errorf("trip %s is already %s: %w", tripID, trip.Status, store.ErrInvalidState)
	}

	endTime := s.now()
	duration := int(endTime.Sub(trip.StartTime).Minutes())

	err = s.store.Update(ctx, store.CollectionDriverTrips, tripID, map[string]interface{}{
		"endLocation": data.EndLocation,
		"endTime":     endTime,
		"duration":    duration,
		"status":      models.TripCompleted,
	})
	if err != nil {
		return nil, err
	}

	err = s.store.Update(ctx, store.CollectionDrivers, trip.DriverID, map[string]interface{}{
		"currentTripId":     nil,
		"status":            models.DriverStatusActive,
		"lastTripCompleted": endTime,
	})
	if err != nil {
		log.Printf("⚠️  Trip %s ended but driver %s status update failed: %v", tripID, trip.DriverID, err)
	}

	trip.EndLocation = &data.EndLocation
	trip.EndTime = &endTime
	trip.Duration = duration
	trip.Status = models.TripCompleted
	return &trip, nil
}

// GetCurrentTrip returns the driver's in-progress trip, or nil if there
// is none.
func (s *DataService) GetCurrentTrip(ctx context.Context, driverID string) (*models.Trip, error) {
	docs, err := s.store.Query(ctx, store.CollectionDriverTrips, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "status", Op: "==", Value: models.TripInProgress},
		},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var trip models.Trip
	if err := docs[0].DataTo(&trip); err != nil {
		return nil, err
	}
	trip.ID = docs[0].ID
	return &trip, nil
}
