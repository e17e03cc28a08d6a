package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"

	"github.com/joho/godotenv"
)

// Seeds a Firestore project with demo drivers, workers, feeder points
// and assignments so the mobile app has something to show on first run.
func main() {
	log.Println("🌱 Seeding demo field-operations data...")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		log.Fatal("❌ FIRESTORE_PROJECT_ID environment variable is required")
	}
	credentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "./firebase-service-account.json"
	}

	ctx := context.Background()
	client, err := store.NewClient(ctx, projectID, credentialsFile)
	if err != nil {
		log.Fatalf("❌ Firestore connection failed: %v", err)
	}
	defer client.Close()

	if err := seed(ctx, client); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Seeding complete")
}

func seed(ctx context.Context, s store.Store) error {
	drivers := []models.Driver{
		{ID: "driver-001", Name: "Ramesh Kumar", EmployeeID: "EMP-1001", VehicleNumber: "KA-01-AB-1234", Zone: "North", Ward: "Ward 12", Route: "Route A", Status: models.DriverStatusInactive},
		{ID: "driver-002", Name: "Suresh Patil", EmployeeID: "EMP-1002", VehicleNumber: "KA-01-CD-5678", Zone: "South", Ward: "Ward 7", Route: "Route B", Status: models.DriverStatusInactive},
	}
	for _, d := range drivers {
		if err := s.Set(ctx, store.CollectionDrivers, d.ID, d); err != nil {
			return fmt.Errorf("seed driver %s: %w", d.ID, err)
		}
		log.Printf("   👤 Driver %s (%s)", d.Name, d.ID)
	}

	points := []models.FeederPoint{
		{ID: "fp-001", Name: "Market Square", Address: "12 Market Rd", Zone: "North", Ward: "Ward 12", ScheduledTime: "06:30", EstimatedWaste: "120kg", Coordinates: models.Location{Latitude: 12.9716, Longitude: 77.5946}},
		{ID: "fp-002", Name: "Bus Stand East", Address: "4 Station Rd", Zone: "North", Ward: "Ward 12", ScheduledTime: "07:15", EstimatedWaste: "80kg", Coordinates: models.Location{Latitude: 12.9752, Longitude: 77.6031}},
		{ID: "fp-003", Name: "Temple Street", Address: "22 Temple St", Zone: "South", Ward: "Ward 7", ScheduledTime: "06:45", EstimatedWaste: "95kg", Coordinates: models.Location{Latitude: 12.9141, Longitude: 77.5863}},
	}
	for _, fp := range points {
		if err := s.Set(ctx, store.CollectionFeederPoints, fp.ID, fp); err != nil {
			return fmt.Errorf("seed feeder point %s: %w", fp.ID, err)
		}
		log.Printf("   📍 Feeder point %s (%s)", fp.Name, fp.ID)
	}

	assignments := []models.Assignment{
		{ID: "assign-001", DriverID: "driver-001", FeederPointID: "fp-001", Status: models.AssignmentActive},
		{ID: "assign-002", DriverID: "driver-001", FeederPointID: "fp-002", Status: models.AssignmentActive},
		{ID: "assign-003", DriverID: "driver-002", FeederPointID: "fp-003", Status: models.AssignmentActive},
	}
	for _, a := range assignments {
		if err := s.Set(ctx, store.CollectionDriverAssignments, a.ID, a); err != nil {
			return fmt.Errorf("seed assignment %s: %w", a.ID, err)
		}
	}
	log.Printf("   🔗 %d driver assignments", len(assignments))

	workers := []models.Worker{
		{ID: "worker-001", Name: "Lakshmi Devi", EmployeeID: "WRK-2001", Phone: "+91-9800000001"},
		{ID: "worker-002", Name: "Manju Nair", EmployeeID: "WRK-2002", Phone: "+91-9800000002"},
		{ID: "worker-003", Name: "Ravi Shankar", EmployeeID: "WRK-2003", Phone: "+91-9800000003"},
		{ID: "worker-004", Name: "Geetha Bai", EmployeeID: "WRK-2004", Phone: "+91-9800000004"},
	}
	for _, w := range workers {
		if err := s.Set(ctx, store.CollectionWorkers, w.ID, w); err != nil {
			return fmt.Errorf("seed worker %s: %w", w.ID, err)
		}
		log.Printf("   🧹 Worker %s (%s)", w.Name, w.ID)
	}

	workerAssignments := []models.WorkerAssignment{
		{ID: "wassign-001", WorkerID: "worker-001", FeederPointID: "fp-001", Status: models.AssignmentActive},
		{ID: "wassign-002", WorkerID: "worker-002", FeederPointID: "fp-001", Status: models.AssignmentActive},
		{ID: "wassign-003", WorkerID: "worker-003", FeederPointID: "fp-002", Status: models.AssignmentActive},
		{ID: "wassign-004", WorkerID: "worker-004", FeederPointID: "fp-003", Status: models.AssignmentActive},
	}
	for _, wa := range workerAssignments {
		if err := s.Set(ctx, store.CollectionWorkerAssignments, wa.ID, wa); err != nil {
			return fmt.Errorf("seed worker assignment %s: %w", wa.ID, err)
		}
	}
	log.Printf("   🔗 %d worker assignments", len(workerAssignments))

	return nil
}
