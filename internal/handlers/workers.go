package handlers

import (
	"log"
	"net/http"
	"strconv"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/models"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
	"swachh-backend/internal/store"
	"swachh-backend/internal/syncer"
	"swachh-backend/internal/websocket"
	"swachh-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// WorkerAttendanceRequest is the body for
// POST /api/feeder-points/{id}/attendance.
type WorkerAttendanceRequest struct {
	Records []models.WorkerAttendanceInput `json:"records" validate:"required,min=1,dive"`
}

// MarkWorkerAttendance records one feeder-point visit's worker
// attendance as an all-or-nothing batch. An unreachable backend
// buffers the whole batch offline.
func MarkWorkerAttendance(svc *services.DataService, queue *offline.Queue, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feederPointID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/feeder-points/%s/attendance", feederPointID)

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if feederPointID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Feeder point id is required")
			return
		}

		var req WorkerAttendanceRequest
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		err := svc.MarkWorkerAttendance(r.Context(), feederPointID, userClaims.UserID, req.Records)
		if err != nil {
			if store.IsRetryable(err) {
				entry, qErr := queue.Append(r.Context(), offline.PartitionWorkerAttendance, syncer.QueuedWorkerAttendance{
					FeederPointID: feederPointID,
					DriverID:      userClaims.UserID,
					Records:       req.Records,
				})
				if qErr != nil {
					log.Printf("❌ Failed to buffer worker attendance offline: %v", qErr)
					utils.RespondError(w, http.StatusInternalServerError, "Failed to buffer record offline")
					return
				}
				respondQueued(w, entry)
				return
			}
			respondServiceError(w, err)
			return
		}

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "worker_attendance_marked",
			"data": map[string]interface{}{
				"feederPointId": feederPointID,
				"driverId":      userClaims.UserID,
				"records":       len(req.Records),
			},
		})

		log.Printf("📤 RESPONSE: 200 - %d attendance records at %s", len(req.Records), feederPointID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"recorded": len(req.Records),
			},
		})
	}
}

// GetWorkerAttendanceHistory returns one worker's attendance records
// over the trailing window (?days=, default 7).
func GetWorkerAttendanceHistory(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		workerID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: GET /api/workers/%s/attendance", workerID)

		if workerID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Worker id is required")
			return
		}

		days, _ := strconv.Atoi(r.URL.Query().Get("days"))

		records, err := svc.GetWorkerAttendanceHistory(r.Context(), workerID, days)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    records,
		})
	}
}
