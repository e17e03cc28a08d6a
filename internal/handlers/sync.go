package handlers

import (
	"log"
	"net/http"

	"swachh-backend/internal/syncer"
	"swachh-backend/pkg/utils"
)

// TriggerSync requests a drain pass of the offline queue. The drain
// runs asynchronously; clients poll GET /api/sync/status for the
// outcome.
func TriggerSync(coord *syncer.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/sync/trigger")

		coord.Trigger()

		utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"state": coord.State().String(),
			},
		})
	}
}

// GetSyncStatus reports the coordinator state and per-partition pending
// counts.
func GetSyncStatus(coord *syncer.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/sync/status")

		status, err := coord.Status(r.Context())
		if err != nil {
			log.Printf("❌ Failed to read sync status: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to read sync status")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    status,
		})
	}
}
