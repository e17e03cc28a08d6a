package services

import (
	"context"
	"fmt"
	"log"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// RecordPunch appends a punch-in or punch-out event to driver_attendance
// and updates the driver's status side fields. There is no idempotency
// key: calling twice creates two events.
func (s *DataService) RecordPunch(ctx context.Context, driverID, direction string, payload models.PunchData) (*models.AttendanceEvent, error) {
	if direction != models.PunchIn && direction != models.PunchOut {
		return nil, fmt.Errorf("punch direction %q: %w", direction, store.ErrInvalidState)
	}

	now := s.now()
	event := models.AttendanceEvent{
		DriverID:      driverID,
		Type:          direction,
		Timestamp:     now,
		Photo:         payload.Photo,
		Location:      payload.Location,
		VehicleNumber: payload.VehicleNumber,
		Name:          payload.Name,
		Date:          models.DayKey(now),
	}

	id, err := s.store.Add(ctx, store.CollectionDriverAttendance, event)
	if err != nil {
		return nil, err
	}
	event.ID = id

	updates := map[string]interface{}{}
	if direction == models.PunchIn {
		updates["status"] = models.DriverStatusActive
		updates["lastPunchIn"] = now
		updates["currentVehicle"] = payload.VehicleNumber
	} else {
		updates["status"] = models.DriverStatusInactive
		updates["lastPunchOut"] = now
	}
	if err := s.store.Update(ctx, store.CollectionDrivers, driverID, updates); err != nil {
		// The event itself is already persisted; the stale side fields
		// self-correct on the next punch.
		log.Printf("⚠️  Punch recorded but driver %s status update failed: %v", driverID, err)
	}

	return &event, nil
}

// GetPunchStatus returns whether the driver's latest punch today was a
// punch-in, along with that event.
func (s *DataService) GetPunchStatus(ctx context.Context, driverID string) (*models.PunchStatus, error) {
	docs, err := s.store.Query(ctx, store.CollectionDriverAttendance, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "date", Op: "==", Value: models.DayKey(s.now())},
		},
		OrderBy: "timestamp",
		Desc:    true,
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return &models.PunchStatus{IsPunchedIn: false}, nil
	}

	var last models.AttendanceEvent
	if err := docs[0].DataTo(&last); err != nil {
		return nil, err
	}
	last.ID = docs[0].ID

	return &models.PunchStatus{
		IsPunchedIn: last.Type == models.PunchIn,
		LastPunch:   &last,
	}, nil
}
