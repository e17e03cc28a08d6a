package handlers

import (
	"log"
	"net/http"
	"strconv"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/services"
	"swachh-backend/pkg/utils"
)

// GetDailySummary aggregates the authenticated driver's trips and waste
// for one day (?date=YYYY-MM-DD, default today).
func GetDailySummary(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/summary")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		summary, err := svc.GetDailySummary(r.Context(), userClaims.UserID, r.URL.Query().Get("date"))
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

// GetPerformanceStats aggregates the authenticated driver's trips over
// the trailing window (?days=, default 30).
func GetPerformanceStats(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/performance")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		days, _ := strconv.Atoi(r.URL.Query().Get("days"))

		stats, err := svc.GetPerformanceStats(r.Context(), userClaims.UserID, days)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    stats,
		})
	}
}
