package syncer

import (
	"context"
	"encoding/json"
	"testing"

	"swachh-backend/internal/models"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
	"swachh-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotifier records per-user acknowledgements.
type fakeNotifier struct {
	acks map[string][]interface{}
}

func (n *fakeNotifier) BroadcastToUser(userID string, data interface{}) {
	if n.acks == nil {
		n.acks = map[string][]interface{}{}
	}
	n.acks[userID] = append(n.acks[userID], data)
}

func TestDataUploaderReplaysQueuedPunch(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, ms.Set(ctx, store.CollectionDrivers, "driver-001", models.Driver{Name: "Ramesh"}))

	notifier := &fakeNotifier{}
	uploader := NewDataUploader(services.NewDataService(ms), notifier)

	payload, err := json.Marshal(QueuedPunch{
		DriverID:  "driver-001",
		Direction: models.PunchIn,
		Punch: models.PunchData{
			Photo:         "data:image/jpeg;base64,xxxx",
			Location:      models.Location{Latitude: 12.97, Longitude: 77.59},
			VehicleNumber: "KA-01-AB-1234",
			Name:          "Ramesh Kumar",
		},
	})
	require.NoError(t, err)

	require.NoError(t, uploader.Upload(ctx, offline.PartitionAttendance, payload))

	events, err := ms.Query(ctx, store.CollectionDriverAttendance, store.QuerySpec{})
	require.NoError(t, err)
	assert.Len(t, events, 1)

	// The owning driver is told their buffered record made it through.
	require.Len(t, notifier.acks["driver-001"], 1)
}

func TestDataUploaderDoesNotAckFailedUpload(t *testing.T) {
	notifier := &fakeNotifier{}
	uploader := NewDataUploader(services.NewDataService(store.NewMemoryStore()), notifier)

	payload, err := json.Marshal(QueuedPunch{DriverID: "driver-001", Direction: "clock_in"})
	require.NoError(t, err)

	require.Error(t, uploader.Upload(context.Background(), offline.PartitionAttendance, payload))
	assert.Empty(t, notifier.acks)
}

func TestDataUploaderRejectsMalformedPayloadPermanently(t *testing.T) {
	uploader := NewDataUploader(services.NewDataService(store.NewMemoryStore()), nil)

	err := uploader.Upload(context.Background(), offline.PartitionAttendance, json.RawMessage(`{not json`))
	require.Error(t, err)
	assert.False(t, store.IsRetryable(err))
}

func TestDataUploaderHasNoRouteForProofPartitions(t *testing.T) {
	uploader := NewDataUploader(services.NewDataService(store.NewMemoryStore()), nil)

	for _, partition := range []string{offline.PartitionQRScans, offline.PartitionPhotos} {
		err := uploader.Upload(context.Background(), partition, json.RawMessage(`{}`))
		require.Error(t, err)
		assert.False(t, store.IsRetryable(err))
	}
}
