package services

import (
	"context"
	"fmt"
	"time"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

func validWorkerStatus(status string) bool {
	switch status {
	case models.WorkerPresent, models.WorkerAbsent, models.WorkerReliever, models.WorkerNoCollection:
		return true
	}
	return false
}

// MarkWorkerAttendance persists one feeder-point visit's attendance
// records in a single atomic batch. The whole batch is validated first:
// if any record is invalid, zero records are persisted.
func (s *DataService) MarkWorkerAttendance(ctx context.Context, feederPointID, driverID string, inputs []models.WorkerAttendanceInput) error {
	if len(inputs) == 0 {
		return fmt.Errorf("empty attendance batch: %w", store.ErrInvalidState)
	}
	for i, in := range inputs {
		if in.WorkerID == "" {
			return fmt.Errorf("attendance record %d has no workerId: %w", i, store.ErrInvalidState)
		}
		if !validWorkerStatus(in.Status) {
			return fmt.Errorf("attendance record %d has status %q: %w", i, in.Status, store.ErrInvalidState)
		}
		if in.WasteCollected < 0 {
			return fmt.Errorf("attendance record %d has negative waste: %w", i, store.ErrInvalidState)
		}
	}

	now := s.now()
	records := make([]interface{}, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, models.WorkerAttendanceRecord{
			WorkerID:       in.WorkerID,
			FeederPointID:  feederPointID,
			DriverID:       driverID,
			Status:         in.Status,
			RelieverName:   in.RelieverName,
			WasteCollected: in.WasteCollected,
			WasteType:      in.WasteType,
			Proof:          in.Proof,
			Timestamp:      now,
			Date:           models.DayKey(now),
		})
	}

	return s.store.BatchAdd(ctx, store.CollectionWorkerAttendance, records)
}

// GetWorkerAttendanceHistory returns one worker's attendance records
// over the trailing window, newest first.
func (s *DataService) GetWorkerAttendanceHistory(ctx context.Context, workerID string, days int) ([]models.WorkerAttendanceRecord, error) {
	if days <= 0 {
		days = 7
	}
	end := s.now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	docs, err := s.store.Query(ctx, store.CollectionWorkerAttendance, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "workerId", Op: "==", Value: workerID},
			{Field: "timestamp", Op: ">=", Value: start},
			{Field: "timestamp", Op: "<=", Value: end},
		},
		OrderBy: "timestamp",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.WorkerAttendanceRecord, 0, len(docs))
	for _, doc := range docs {
		var rec models.WorkerAttendanceRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, err
		}
		rec.ID = doc.ID
		records = append(records, rec)
	}
	return records, nil
}
