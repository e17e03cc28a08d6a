package services

import (
	"context"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// RecordWasteCollection appends one collection event for a feeder-point
// visit.
func (s *DataService) RecordWasteCollection(ctx context.Context, feederPointID, driverID string, data models.WasteData) (*models.WasteCollection, error) {
	now := s.now()
	record := models.WasteCollection{
		FeederPointID:  feederPointID,
		DriverID:       driverID,
		TotalWeight:    data.TotalWeight,
		WasteBreakdown: data.WasteBreakdown,
		Timestamp:      now,
		Date:           models.DayKey(now),
	}

	id, err := s.store.Add(ctx, store.CollectionWasteCollections, record)
	if err != nil {
		return nil, err
	}
	record.ID = id
	return &record, nil
}

// GetWasteCollectionSummary sums a driver's collections for one day,
// overall and per waste type. An empty date means today.
func (s *DataService) GetWasteCollectionSummary(ctx context.Context, driverID, date string) (*models.WasteSummary, error) {
	if date == "" {
		date = models.DayKey(s.now())
	}

	docs, err := s.store.Query(ctx, store.CollectionWasteCollections, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "date", Op: "==", Value: date},
		},
	})
	if err != nil {
		return nil, err
	}

	summary := &models.WasteSummary{
		WasteByType: make(map[string]float64),
		Collections: make([]models.WasteCollection, 0, len(docs)),
	}
	for _, doc := range docs {
		var c models.WasteCollection
		if err := doc.DataTo(&c); err != nil {
			return nil, err
		}
		c.ID = doc.ID

		summary.TotalWaste += c.TotalWeight
		for wasteType, weight := range c.WasteBreakdown {
			summary.WasteByType[wasteType] += weight
		}
		summary.Collections = append(summary.Collections, c)
	}
	return summary, nil
}
