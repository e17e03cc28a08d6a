package models

import "time"

// Worker attendance statuses recorded at a feeder-point visit.
const (
	WorkerPresent      = "present"
	WorkerAbsent       = "absent"
	WorkerReliever     = "reliever"
	WorkerNoCollection = "no_collection"
)

// Worker is a document in the workers collection.
type Worker struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// WorkerAssignment links a worker to a feeder point
// (worker_assignments collection).
type WorkerAssignment struct {
	ID            string  `json:"id,omitempty"`
	WorkerID      string  `json:"workerId"`
	FeederPointID string  `json:"feederPointId"`
	Status        string  `json:"status"`
	Worker        *Worker `json:"worker,omitempty"`
}

// WorkerAttendanceInput is one worker's attendance entry inside a
// feeder-point-completion batch.
type WorkerAttendanceInput struct {
	WorkerID       string  `json:"workerId" validate:"required"`
	Status         string  `json:"status" validate:"required,oneof=present absent reliever no_collection"`
	RelieverName   string  `json:"relieverName,omitempty"`
	WasteCollected float64 `json:"wasteCollected,omitempty" validate:"gte=0"`
	WasteType      string  `json:"wasteType,omitempty"`
	Proof          string  `json:"proof,omitempty"`
}

// WorkerAttendanceRecord is a document in the worker_attendance
// collection. Written in a single atomic batch per feeder-point visit;
// immutable after write.
type WorkerAttendanceRecord struct {
	ID             string    `json:"id,omitempty"`
	WorkerID       string    `json:"workerId"`
	FeederPointID  string    `json:"feederPointId"`
	DriverID       string    `json:"driverId"`
	Status         string    `json:"status"`
	RelieverName   string    `json:"relieverName,omitempty"`
	WasteCollected float64   `json:"wasteCollected"`
	WasteType      string    `json:"wasteType,omitempty"`
	Proof          string    `json:"proof,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Date           string    `json:"date"`
}
