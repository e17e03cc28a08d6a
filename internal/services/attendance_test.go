package services

import (
	"context"
	"testing"
	"time"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func punchPayload() models.PunchData {
	return models.PunchData{
		Photo:         "data:image/jpeg;base64,xxxx",
		Location:      models.Location{Latitude: 12.97, Longitude: 77.59},
		VehicleNumber: "KA-01-AB-1234",
		Name:          "Ramesh Kumar",
	}
}

func TestRecordPunchInUpdatesDriverStatus(t *testing.T) {
	at := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	svc, ms := newTestService(at)
	seedDriver(t, ms, "driver-001")
	ctx := context.Background()

	event, err := svc.RecordPunch(ctx, "driver-001", models.PunchIn, punchPayload())
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)
	assert.Equal(t, "2025-03-14", event.Date)

	driver, err := svc.GetDriverProfile(ctx, "driver-001")
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusActive, driver.Status)
	assert.Equal(t, "KA-01-AB-1234", driver.CurrentVehicle)
	require.NotNil(t, driver.LastPunchIn)
	assert.True(t, driver.LastPunchIn.Equal(at))
}

func TestRecordPunchOutMarksDriverInactive(t *testing.T) {
	at := time.Date(2025, 3, 14, 14, 0, 0, 0, time.UTC)
	svc, ms := newTestService(at)
	seedDriver(t, ms, "driver-001")
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, "driver-001", models.PunchOut, punchPayload())
	require.NoError(t, err)

	driver, err := svc.GetDriverProfile(ctx, "driver-001")
	require.NoError(t, err)
	assert.Equal(t, models.DriverStatusInactive, driver.Status)
	require.NotNil(t, driver.LastPunchOut)
}

func TestRecordPunchRejectsUnknownDirection(t *testing.T) {
	svc, _ := newTestService(time.Now())

	_, err := svc.RecordPunch(context.Background(), "driver-001", "clock_in", punchPayload())
	assert.ErrorIs(t, err, store.ErrInvalidState)
}

func TestPunchStatusReflectsLatestPunchToday(t *testing.T) {
	at := time.Date(2025, 3, 14, 6, 30, 0, 0, time.UTC)
	svc, ms := newTestService(at)
	seedDriver(t, ms, "driver-001")
	ctx := context.Background()

	status, err := svc.GetPunchStatus(ctx, "driver-001")
	require.NoError(t, err)
	assert.False(t, status.IsPunchedIn)
	assert.Nil(t, status.LastPunch)

	_, err = svc.RecordPunch(ctx, "driver-001", models.PunchIn, punchPayload())
	require.NoError(t, err)

	status, err = svc.GetPunchStatus(ctx, "driver-001")
	require.NoError(t, err)
	assert.True(t, status.IsPunchedIn)
	require.NotNil(t, status.LastPunch)
	assert.Equal(t, models.PunchIn, status.LastPunch.Type)

	svc.now = func() time.Time { return at.Add(8 * time.Hour) }
	_, err = svc.RecordPunch(ctx, "driver-001", models.PunchOut, punchPayload())
	require.NoError(t, err)

	status, err = svc.GetPunchStatus(ctx, "driver-001")
	require.NoError(t, err)
	assert.False(t, status.IsPunchedIn)
	assert.Equal(t, models.PunchOut, status.LastPunch.Type)
}

func TestPunchStatusIgnoresYesterdaysPunch(t *testing.T) {
	yesterday := time.Date(2025, 3, 13, 18, 0, 0, 0, time.UTC)
	svc, ms := newTestService(yesterday)
	seedDriver(t, ms, "driver-001")
	ctx := context.Background()

	_, err := svc.RecordPunch(ctx, "driver-001", models.PunchIn, punchPayload())
	require.NoError(t, err)

	svc.now = func() time.Time { return yesterday.Add(16 * time.Hour) }
	status, err := svc.GetPunchStatus(ctx, "driver-001")
	require.NoError(t, err)
	assert.False(t, status.IsPunchedIn)
}
