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

func addCompletedTrip(t *testing.T, ms *store.MemoryStore, driverID string, start time.Time, duration int) {
	t.Helper()
	end := start.Add(time.Duration(duration) * time.Minute)
	_, err := ms.Add(context.Background(), store.CollectionDriverTrips, models.Trip{
		DriverID:  driverID,
		StartTime: start,
		EndTime:   &end,
		Duration:  duration,
		Status:    models.TripCompleted,
		Date:      models.DayKey(start),
	})
	require.NoError(t, err)
}

func TestDailySummaryAggregatesTripsAndWaste(t *testing.T) {
	now := time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)
	svc, ms := newTestService(now)
	ctx := context.Background()

	addCompletedTrip(t, ms, "driver-001", now.Add(-10*time.Hour), 120)
	addCompletedTrip(t, ms, "driver-001", now.Add(-6*time.Hour), 90)
	// Another day, must not count.
	addCompletedTrip(t, ms, "driver-001", now.Add(-30*time.Hour), 60)

	for _, weight := range []float64{10, 15.5, 0} {
		_, err := ms.Add(ctx, store.CollectionWasteCollections, models.WasteCollection{
			DriverID:    "driver-001",
			TotalWeight: weight,
			Timestamp:   now,
			Date:        models.DayKey(now),
		})
		require.NoError(t, err)
	}

	summary, err := svc.GetDailySummary(ctx, "driver-001", "")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalTrips)
	assert.Equal(t, 210, summary.TotalDuration)
	assert.InDelta(t, 25.5, summary.TotalWasteCollected, 1e-9)
	assert.Equal(t, "2025-03-14", summary.Date)
}

func TestPerformanceStatsPunctualityScore(t *testing.T) {
	now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	svc, ms := newTestService(now)
	ctx := context.Background()

	// Three of four trips finish within the eight-hour threshold.
	for i, duration := range []int{100, 500, 200, 470} {
		addCompletedTrip(t, ms, "driver-001", now.Add(-time.Duration(i+1)*24*time.Hour), duration)
	}

	stats, err := svc.GetPerformanceStats(ctx, "driver-001", 30)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalTrips)
	assert.Equal(t, 4, stats.CompletedTrips)
	assert.Equal(t, 75, stats.PunctualityScore)
	assert.InDelta(t, 4.0/30.0, stats.AverageTripsPerDay, 1e-9)
}

func TestPerformanceStatsEmptyWindow(t *testing.T) {
	svc, _ := newTestService(time.Now())

	stats, err := svc.GetPerformanceStats(context.Background(), "driver-001", 0)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTrips)
	assert.Zero(t, stats.PunctualityScore)
}

func TestPerformanceStatsRespectsWindow(t *testing.T) {
	now := time.Date(2025, 3, 14, 20, 0, 0, 0, time.UTC)
	svc, ms := newTestService(now)

	addCompletedTrip(t, ms, "driver-001", now.Add(-2*24*time.Hour), 120)
	addCompletedTrip(t, ms, "driver-001", now.Add(-40*24*time.Hour), 120)

	stats, err := svc.GetPerformanceStats(context.Background(), "driver-001", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalTrips)
}
