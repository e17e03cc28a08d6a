package handlers

import (
	"log"
	"net/http"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/services"
	"swachh-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// GetDriverFeederPoints lists the authenticated driver's active
// feeder-point assignments, with point details and worker counts
// resolved.
func GetDriverFeederPoints(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/feeder-points")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		assignments, err := svc.GetDriverFeederPoints(r.Context(), userClaims.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		log.Printf("📤 RESPONSE: 200 - %d feeder points for %s", len(assignments), userClaims.UserID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    assignments,
		})
	}
}

// GetFeederPointWorkers lists the workers actively assigned to one
// feeder point.
func GetFeederPointWorkers(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feederPointID := chi.URLParam(r, "id")
		log.Printf("📥 REQUEST: GET /api/feeder-points/%s/workers", feederPointID)

		if feederPointID == "" {
			utils.RespondError(w, http.StatusBadRequest, "Feeder point id is required")
			return
		}

		workers, err := svc.GetFeederPointWorkers(r.Context(), feederPointID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    workers,
		})
	}
}
