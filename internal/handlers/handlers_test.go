package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/models"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
	"swachh-backend/internal/store"
	"swachh-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unavailableStore simulates an unreachable backend for write paths.
type unavailableStore struct {
	*store.MemoryStore
}

func (s *unavailableStore) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	return "", fmt.Errorf("add to %s: %w", collection, store.ErrUnavailable)
}

func (s *unavailableStore) BatchAdd(ctx context.Context, collection string, docs []interface{}) error {
	return fmt.Errorf("batch add to %s: %w", collection, store.ErrUnavailable)
}

func (s *unavailableStore) Ping(ctx context.Context) error {
	return fmt.Errorf("connection test: %w", store.ErrUnavailable)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func openTestQueue(t *testing.T) *offline.Queue {
	t.Helper()
	q, err := offline.Open(filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func authedRequest(method, target string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, middleware.UserClaims{
		UserID: "driver-001",
		Email:  "ramesh@swachh.example",
		Role:   "driver",
	})
	return req.WithContext(ctx)
}

func punchBody() PunchRequest {
	return PunchRequest{
		Direction: models.PunchIn,
		Punch: models.PunchData{
			Photo:         "data:image/jpeg;base64,xxxx",
			Location:      models.Location{Latitude: 12.97, Longitude: 77.59},
			VehicleNumber: "KA-01-AB-1234",
			Name:          "Ramesh Kumar",
		},
	}
}

func TestPunchBuffersOfflineWhenBackendUnavailable(t *testing.T) {
	svc := services.NewDataService(&unavailableStore{store.NewMemoryStore()})
	queue := openTestQueue(t)
	handler := Punch(svc, queue, websocket.NewHub())

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/driver/punch", punchBody()))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Queued  bool `json:"queued"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Queued)

	count, err := queue.Count(context.Background(), offline.PartitionAttendance)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPunchRejectsInvalidDirection(t *testing.T) {
	svc := services.NewDataService(store.NewMemoryStore())
	handler := Punch(svc, openTestQueue(t), websocket.NewHub())

	body := punchBody()
	body.Direction = "clock_in"

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/driver/punch", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPunchRequiresAuth(t *testing.T) {
	svc := services.NewDataService(store.NewMemoryStore())
	handler := Punch(svc, openTestQueue(t), websocket.NewHub())

	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(punchBody())
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/api/driver/punch", &buf))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkWorkerAttendanceBuffersWholeBatchOffline(t *testing.T) {
	svc := services.NewDataService(&unavailableStore{store.NewMemoryStore()})
	queue := openTestQueue(t)
	handler := MarkWorkerAttendance(svc, queue, websocket.NewHub())

	req := authedRequest(http.MethodPost, "/api/feeder-points/fp-001/attendance", WorkerAttendanceRequest{
		Records: []models.WorkerAttendanceInput{
			{WorkerID: "worker-001", Status: models.WorkerPresent, WasteCollected: 10},
			{WorkerID: "worker-002", Status: models.WorkerAbsent},
		},
	})
	req = withURLParam(req, "id", "fp-001")

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	entries, err := queue.ReadAll(context.Background(), offline.PartitionWorkerAttendance)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var queued struct {
		FeederPointID string                         `json:"feederPointId"`
		Records       []models.WorkerAttendanceInput `json:"records"`
	}
	require.NoError(t, json.Unmarshal(entries[0].Payload, &queued))
	assert.Equal(t, "fp-001", queued.FeederPointID)
	assert.Len(t, queued.Records, 2)
}

func TestRecordWasteBuffersOfflineWhenBackendUnavailable(t *testing.T) {
	svc := services.NewDataService(&unavailableStore{store.NewMemoryStore()})
	queue := openTestQueue(t)
	handler := RecordWaste(svc, queue)

	req := authedRequest(http.MethodPost, "/api/feeder-points/fp-001/waste", models.WasteData{
		TotalWeight:    42.5,
		WasteBreakdown: map[string]float64{"wet": 30, "dry": 12.5},
	})
	req = withURLParam(req, "id", "fp-001")

	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		Success bool `json:"success"`
		Queued  bool `json:"queued"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Queued)

	entries, err := queue.ReadAll(context.Background(), offline.PartitionWasteLogs)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var queued struct {
		FeederPointID string           `json:"feederPointId"`
		DriverID      string           `json:"driverId"`
		Waste         models.WasteData `json:"waste"`
	}
	require.NoError(t, json.Unmarshal(entries[0].Payload, &queued))
	assert.Equal(t, "fp-001", queued.FeederPointID)
	assert.Equal(t, "driver-001", queued.DriverID)
	assert.Equal(t, 42.5, queued.Waste.TotalWeight)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := services.NewDataService(store.NewMemoryStore())
	handler := GetProfile(svc)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodGet, "/api/driver/profile", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartTripConflictOnSecondStart(t *testing.T) {
	ms := store.NewMemoryStore()
	require.NoError(t, ms.Set(context.Background(), store.CollectionDrivers, "driver-001", models.Driver{Name: "Ramesh"}))

	svc := services.NewDataService(ms)
	handler := StartTrip(svc, websocket.NewHub())

	body := models.TripData{
		VehicleNumber: "KA-01-AB-1234",
		StartLocation: models.Location{Latitude: 12.97, Longitude: 77.59},
	}

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/driver/trip/start", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/driver/trip/start", body))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnavailableReadReturns503(t *testing.T) {
	svc := services.NewDataService(&unavailableStore{store.NewMemoryStore()})
	handler := TestConnection(svc)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/test-connection", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
