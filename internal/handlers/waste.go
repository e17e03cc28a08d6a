package handlers

import (
	"log"
	"net/http"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/models"
	"swachh-backend/internal/offline"
	"swachh-backend/internal/services"
	"swachh-backend/internal/store"
	"swachh-backend/internal/syncer"
	"swachh-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// RecordWaste logs one collection event at a feeder point. An
// unreachable backend buffers the record offline.
func RecordWaste(svc *services.DataService, queue *offline.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feederPointID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: POST /api/feeder-points/%s/waste", feederPointID)

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if feederPointID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Feeder point id is required")
			return
		}

		var req models.WasteData
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		record, err := svc.RecordWasteCollection(r.Context(), feederPointID, userClaims.UserID, req)
		if err != nil {
			if store.IsRetryable(err) {
				entry, qErr := queue.Append(r.Context(), offline.PartitionWasteLogs, syncer.QueuedWasteLog{
					FeederPointID: feederPointID,
					DriverID:      userClaims.UserID,
					Waste:         req,
				})
				if qErr != nil {
					log.Printf("❌ Failed to buffer waste log offline: %v", qErr)
					utils.RespondError(w, http.StatusInternalServerError, "Failed to buffer record offline")
					return
				}
				respondQueued(w, entry)
				return
			}
			respondServiceError(w, err)
			return
		}

		log.Printf("📤 RESPONSE: 200 - %.1f kg logged at %s", record.TotalWeight, feederPointID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    record,
		})
	}
}

// GetWasteSummary aggregates the authenticated driver's collections for
// one day (?date=YYYY-MM-DD, default today).
func GetWasteSummary(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/waste-summary")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		summary, err := svc.GetWasteCollectionSummary(r.Context(), userClaims.UserID, r.URL.Query().Get("date"))
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    summary,
		})
	}
}
