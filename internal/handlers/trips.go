package handlers

import (
	"log"
	"net/http"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/models"
	"swachh-backend/internal/services"
	"swachh-backend/internal/websocket"
	"swachh-backend/pkg/utils"
)

// EndTripRequest is the body for POST /api/driver/trip/end.
type EndTripRequest struct {
	TripID      string          `json:"tripId" validate:"required"`
	EndLocation models.Location `json:"endLocation" validate:"required"`
}

// StartTrip opens a collection trip for the authenticated driver. Trips
// are not buffered offline: the client needs the trip id back before it
// can do anything else, so an unreachable backend is a plain 503.
func StartTrip(svc *services.DataService, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/driver/trip/start")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.TripData
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		trip, err := svc.StartTrip(r.Context(), userClaims.UserID, req)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "trip_started",
			"data": trip,
		})

		log.Printf("📤 RESPONSE: 200 - trip %s started for %s", trip.ID, userClaims.UserID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    trip,
		})
	}
}

// EndTrip completes an in-progress trip.
func EndTrip(svc *services.DataService, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/driver/trip/end")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req EndTripRequest
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		trip, err := svc.EndTrip(r.Context(), userClaims.UserID, req.TripID, models.EndTripData{EndLocation: req.EndLocation})
		if err != nil {
			respondServiceError(w, err)
			return
		}

		hub.BroadcastToRole("admin", map[string]interface{}{
			"type": "trip_completed",
			"data": trip,
		})

		log.Printf("📤 RESPONSE: 200 - trip %s completed (%d min)", trip.ID, trip.Duration)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    trip,
		})
	}
}

// GetCurrentTrip returns the driver's in-progress trip, or null data
// when there is none.
func GetCurrentTrip(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/trip/current")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		trip, err := svc.GetCurrentTrip(r.Context(), userClaims.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    trip,
		})
	}
}
