package services

import (
	"context"
	"sync"
	"time"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// DataService translates field-operations actions into document-store
// calls and shields callers from the store's query syntax. It is
// constructed with an explicit Store so tests and demo mode can inject
// an in-memory implementation.
type DataService struct {
	store store.Store
	now   func() time.Time

	// Per-driver locks serializing trip starts, so two concurrent starts
	// cannot both pass the one-active-trip check.
	tripLocks sync.Map
}

func NewDataService(s store.Store) *DataService {
	return &DataService{store: s, now: time.Now}
}

// TestConnection probes the backend by writing to the test collection.
func (s *DataService) TestConnection(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// GetDriverProfile reads one driver document.
func (s *DataService) GetDriverProfile(ctx context.Context, driverID string) (*models.Driver, error) {
	doc, err := s.store.Get(ctx, store.CollectionDrivers, driverID)
	if err != nil {
		return nil, err
	}

	var driver models.Driver
	if err := doc.DataTo(&driver); err != nil {
		return nil, err
	}
	driver.ID = doc.ID
	return &driver, nil
}

// UpdateDriverProfile applies field-level profile updates.
func (s *DataService) UpdateDriverProfile(ctx context.Context, driverID string, updates map[string]interface{}) error {
	updates["updatedAt"] = s.now()
	return s.store.Update(ctx, store.CollectionDrivers, driverID, updates)
}

func (s *DataService) driverLock(driverID string) *sync.Mutex {
	v, _ := s.tripLocks.LoadOrStore(driverID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
