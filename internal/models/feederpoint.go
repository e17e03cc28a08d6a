package models

// FeederPoint is a fixed physical waste-collection location on a
// driver's route, staffed by assigned workers.
type FeederPoint struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	Zone           string   `json:"zone"`
	Ward           string   `json:"ward"`
	ScheduledTime  string   `json:"scheduledTime,omitempty"`
	EstimatedWaste string   `json:"estimatedWaste,omitempty"`
	Coordinates    Location `json:"coordinates"`
}

// Assignment links a driver to a feeder point (driver_assignments
// collection). The feeder point document and worker count are resolved
// at read time.
type Assignment struct {
	ID            string       `json:"id,omitempty"`
	DriverID      string       `json:"driverId"`
	FeederPointID string       `json:"feederPointId"`
	Status        string       `json:"status"`
	FeederPoint   *FeederPoint `json:"feederPoint,omitempty"`
	TotalWorkers  int          `json:"totalWorkers"`
}

const AssignmentActive = "active"
