package services

import (
	"context"

	"swachh-backend/internal/models"
	"swachh-backend/internal/store"
)

// Firestore caps "in" filters at 30 values per query.
const inFilterChunkSize = 30

// GetDriverFeederPoints resolves a driver's active assignments together
// with their feeder-point documents and assigned-worker counts. Feeder
// points are fetched in one batched id-list read and worker counts in
// chunked "in" queries instead of one sub-query per assignment.
func (s *DataService) GetDriverFeederPoints(ctx context.Context, driverID string) ([]models.Assignment, error) {
	docs, err := s.store.Query(ctx, store.CollectionDriverAssignments, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "driverId", Op: "==", Value: driverID},
			{Field: "status", Op: "==", Value: models.AssignmentActive},
		},
	})
	if err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(docs))
	pointIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		var a models.Assignment
		if err := doc.DataTo(&a); err != nil {
			return nil, err
		}
		a.ID = doc.ID
		assignments = append(assignments, a)
		pointIDs = append(pointIDs, a.FeederPointID)
	}
	if len(assignments) == 0 {
		return assignments, nil
	}

	pointDocs, err := s.store.GetAll(ctx, store.CollectionFeederPoints, pointIDs)
	if err != nil {
		return nil, err
	}
	points := make(map[string]*models.FeederPoint, len(pointDocs))
	for _, doc := range pointDocs {
		var fp models.FeederPoint
		if err := doc.DataTo(&fp); err != nil {
			return nil, err
		}
		fp.ID = doc.ID
		points[doc.ID] = &fp
	}

	counts, err := s.workerCounts(ctx, pointIDs)
	if err != nil {
		return nil, err
	}

	for i := range assignments {
		assignments[i].FeederPoint = points[assignments[i].FeederPointID]
		assignments[i].TotalWorkers = counts[assignments[i].FeederPointID]
	}
	return assignments, nil
}

// workerCounts counts active worker assignments per feeder point.
func (s *DataService) workerCounts(ctx context.Context, pointIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(pointIDs))

	for start := 0; start < len(pointIDs); start += inFilterChunkSize {
		end := start + inFilterChunkSize
		if end > len(pointIDs) {
			end = len(pointIDs)
		}
		chunk := make([]interface{}, 0, end-start)
		for _, id := range pointIDs[start:end] {
			chunk = append(chunk, id)
		}

		docs, err := s.store.Query(ctx, store.CollectionWorkerAssignments, store.QuerySpec{
			Filters: []store.Filter{
				{Field: "feederPointId", Op: "in", Value: chunk},
				{Field: "status", Op: "==", Value: models.AssignmentActive},
			},
		})
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			if id, ok := doc.Data["feederPointId"].(string); ok {
				counts[id]++
			}
		}
	}
	return counts, nil
}

// GetFeederPointWorkers lists the workers actively assigned to one
// feeder point, with worker documents resolved in a single batched read.
func (s *DataService) GetFeederPointWorkers(ctx context.Context, feederPointID string) ([]models.WorkerAssignment, error) {
	docs, err := s.store.Query(ctx, store.CollectionWorkerAssignments, store.QuerySpec{
		Filters: []store.Filter{
			{Field: "feederPointId", Op: "==", Value: feederPointID},
			{Field: "status", Op: "==", Value: models.AssignmentActive},
		},
	})
	if err != nil {
		return nil, err
	}

	assignments := make([]models.WorkerAssignment, 0, len(docs))
	workerIDs := make([]string, 0, len(docs))
	for _, doc := range docs {
		var wa models.WorkerAssignment
		if err := doc.DataTo(&wa); err != nil {
			return nil, err
		}
		wa.ID = doc.ID
		assignments = append(assignments, wa)
		workerIDs = append(workerIDs, wa.WorkerID)
	}
	if len(assignments) == 0 {
		return assignments, nil
	}

	workerDocs, err := s.store.GetAll(ctx, store.CollectionWorkers, workerIDs)
	if err != nil {
		return nil, err
	}
	workers := make(map[string]*models.Worker, len(workerDocs))
	for _, doc := range workerDocs {
		var w models.Worker
		if err := doc.DataTo(&w); err != nil {
			return nil, err
		}
		w.ID = doc.ID
		workers[doc.ID] = &w
	}

	for i := range assignments {
		assignments[i].Worker = workers[assignments[i].WorkerID]
	}
	return assignments, nil
}
