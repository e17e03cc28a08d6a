package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingDocumentIsNotFound(t *testing.T) {
	ms := NewMemoryStore()

	_, err := ms.Get(context.Background(), CollectionDrivers, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRoundTripsThroughJSON(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	type record struct {
		Name  string    `json:"name"`
		Count int       `json:"count"`
		At    time.Time `json:"at"`
	}
	at := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)

	id, err := ms.Add(ctx, CollectionTest, record{Name: "probe", Count: 3, At: at})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := ms.Get(ctx, CollectionTest, id)
	require.NoError(t, err)

	var got record
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "probe", got.Name)
	assert.Equal(t, 3, got.Count)
	assert.True(t, got.At.Equal(at))
}

func TestQueryFiltersCompareAcrossJSONTypes(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	at := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	for i, weight := range []float64{5, 10, 20} {
		_, err := ms.Add(ctx, CollectionWasteCollections, map[string]interface{}{
			"driverId":  "driver-001",
			"weight":    weight,
			"timestamp": at.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	// Stored numbers became float64 and timestamps became RFC3339
	// strings; native filter values must still match.
	docs, err := ms.Query(ctx, CollectionWasteCollections, QuerySpec{
		Filters: []Filter{
			{Field: "weight", Op: ">=", Value: 10},
			{Field: "timestamp", Op: ">", Value: at},
		},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestQueryOrderByDescWithLimit(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for _, seq := range []int{1, 3, 2} {
		_, err := ms.Add(ctx, CollectionDriverAttendance, map[string]interface{}{"seq": seq})
		require.NoError(t, err)
	}

	docs, err := ms.Query(ctx, CollectionDriverAttendance, QuerySpec{
		OrderBy: "seq",
		Desc:    true,
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.EqualValues(t, 3, docs[0].Data["seq"])
	assert.EqualValues(t, 2, docs[1].Data["seq"])
}

func TestQueryInOperator(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	for _, fp := range []string{"fp-001", "fp-002", "fp-003"} {
		_, err := ms.Add(ctx, CollectionWorkerAssignments, map[string]interface{}{"feederPointId": fp})
		require.NoError(t, err)
	}

	docs, err := ms.Query(ctx, CollectionWorkerAssignments, QuerySpec{
		Filters: []Filter{
			{Field: "feederPointId", Op: "in", Value: []interface{}{"fp-001", "fp-003"}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestUpdateNormalizesValuesLikeSet(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, CollectionDrivers, "driver-001", map[string]interface{}{"status": "inactive"}))

	at := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	require.NoError(t, ms.Update(ctx, CollectionDrivers, "driver-001", map[string]interface{}{
		"status":      "active",
		"lastPunchIn": at,
	}))

	// The updated time field must stay comparable in later queries.
	docs, err := ms.Query(ctx, CollectionDrivers, QuerySpec{
		Filters: []Filter{
			{Field: "lastPunchIn", Op: ">=", Value: at.Add(-time.Minute)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	err = ms.Update(ctx, CollectionDrivers, "missing", map[string]interface{}{"status": "active"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllSkipsMissingIDs(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, ms.Set(ctx, CollectionFeederPoints, "fp-001", map[string]interface{}{"name": "Market Square"}))

	docs, err := ms.GetAll(ctx, CollectionFeederPoints, []string{"fp-001", "fp-missing"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "fp-001", docs[0].ID)
}

func TestBatchAddAddsEveryDocument(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	err := ms.BatchAdd(ctx, CollectionWorkerAttendance, []interface{}{
		map[string]interface{}{"workerId": "worker-001"},
		map[string]interface{}{"workerId": "worker-002"},
	})
	require.NoError(t, err)

	docs, err := ms.Query(ctx, CollectionWorkerAttendance, QuerySpec{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
