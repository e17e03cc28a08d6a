package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection names in the document store. The store is schema-less;
// relationships between collections are by convention (a field holding
// another document's id).
const (
	CollectionDrivers           = "drivers"
	CollectionDriverAttendance  = "driver_attendance"
	CollectionDriverTrips       = "driver_trips"
	CollectionDriverAssignments = "driver_assignments"
	CollectionFeederPoints      = "feeder_points"
	CollectionWorkerAssignments = "worker_assignments"
	CollectionWorkers           = "workers"
	CollectionWorkerAttendance  = "worker_attendance"
	CollectionWasteCollections  = "waste_collections"
	CollectionTest              = "test"
)

// Filter is a single exact-match or range predicate on a named field.
// Supported operators: ==, !=, <, <=, >, >=, in.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// QuerySpec describes a filtered, optionally ordered and limited read
// against one collection.
type QuerySpec struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Document is one record read back from the store.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// DataTo unmarshals the document's loosely-typed fields into dst.
func (d Document) DataTo(dst interface{}) error {
	raw, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Store is the document-store boundary used by the data service. It is
// injected into callers rather than held as a package-level singleton so
// tests and demo mode can swap in MemoryStore.
type Store interface {
	// Get reads a single document. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)

	// Add creates a document with a store-assigned id and returns the id.
	Add(ctx context.Context, collection string, data interface{}) (string, error)

	// Set creates or fully replaces the document with the given id.
	Set(ctx context.Context, collection, id string, data interface{}) error

	// Update applies field-level updates to an existing document.
	// Returns ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, updates map[string]interface{}) error

	// Query returns documents matching the spec, in store-assigned order
	// unless OrderBy is set.
	Query(ctx context.Context, collection string, spec QuerySpec) ([]Document, error)

	// GetAll fetches documents by id in a single round-trip. Missing ids
	// are skipped, not errors.
	GetAll(ctx context.Context, collection string, ids []string) ([]Document, error)

	// BatchAdd writes all documents atomically: either every document is
	// persisted or none are.
	BatchAdd(ctx context.Context, collection string, docs []interface{}) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

// toMap converts an arbitrary record into the loosely-typed shape the
// store persists.
func toMap(data interface{}) (map[string]interface{}, error) {
	if m, ok := data.(map[string]interface{}); ok {
		return m, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	return m, nil
}
