package syncer

import (
	"context"
	"encoding/json"
	"fmt"

	"swachh-backend/internal/models"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
)

// Queued record envelopes. Handlers append these when a write cannot
// reach the backend; the uploader replays them against the data service.
type QueuedPunch struct {
	DriverID  string           `json:"driverId"`
	Direction string           `json:"direction"`
	Punch     models.PunchData `json:"punch"`
}

type QueuedWorkerAttendance struct {
	FeederPointID string                         `json:"feederPointId"`
	DriverID      string                         `json:"driverId"`
	Records       []models.WorkerAttendanceInput `json:"records"`
}

type QueuedWasteLog struct {
	FeederPointID string           `json:"feederPointId"`
	DriverID      string           `json:"driverId"`
	Waste         models.WasteData `json:"waste"`
}

// Notifier pushes a message to one connected user. Satisfied by the
// websocket hub.
type Notifier interface {
	BroadcastToUser(userID string, data interface{})
}

// DataUploader routes buffered records to the matching data-service
// operation by partition. Confirmed uploads are acknowledged to the
// owning driver over the notifier, if one is wired.
type DataUploader struct {
	svc      *services.DataService
	notifier Notifier
}

func NewDataUploader(svc *services.DataService, notifier Notifier) *DataUploader {
	return &DataUploader{svc: svc, notifier: notifier}
}

func (u *DataUploader) Upload(ctx context.Context, partition string, payload json.RawMessage) error {
	switch partition {
	case offline.PartitionAttendance:
		var rec QueuedPunch
		if err := json.Unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("malformed queued punch: %w", err)
		}
		if _, err := u.svc.RecordPunch(ctx, rec.DriverID, rec.Direction, rec.Punch); err != nil {
			return err
		}
		u.ack(rec.DriverID, partition)
		return nil

	case offline.PartitionWorkerAttendance:
		var rec QueuedWorkerAttendance
		if err := json.Unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("malformed queued worker attendance: %w", err)
		}
		if err := u.svc.MarkWorkerAttendance(ctx, rec.FeederPointID, rec.DriverID, rec.Records); err != nil {
			return err
		}
		u.ack(rec.DriverID, partition)
		return nil

	case offline.PartitionWasteLogs:
		var rec QueuedWasteLog
		if err := json.Unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("malformed queued waste log: %w", err)
		}
		if _, err := u.svc.RecordWasteCollection(ctx, rec.FeederPointID, rec.DriverID, rec.Waste); err != nil {
			return err
		}
		u.ack(rec.DriverID, partition)
		return nil
	}

	// QR scans and photos have no standalone upload route: the mobile
	// clients embed proof references in punch and attendance payloads.
	// Anything still buffered under those partitions is parked in the
	// dead letter rather than dropped.
	return fmt.Errorf("no upload route for partition %q", partition)
}

// ack tells the driver one of their buffered records reached the
// backend.
func (u *DataUploader) ack(driverID, partition string) {
	if u.notifier == nil {
		return
	}
	u.notifier.BroadcastToUser(driverID, map[string]interface{}{
		"type": "sync_record_uploaded",
		"data": map[string]interface{}{
			"partition": partition,
		},
	})
}
