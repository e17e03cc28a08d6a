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
	"swachh-backend/internal/websocket"
	"swachh-backend/pkg/utils"
)

// PunchRequest is the body for POST /api/driver/punch.
type PunchRequest struct {
	Direction string           `json:"direction" validate:"required,oneof=punch_in punch_out"`
	Punch     models.PunchData `json:"punch" validate:"required"`
}

// Punch records a punch-in or punch-out for the authenticated driver.
// If the backend is unreachable the punch is buffered offline and
// acknowledged with 202.
func Punch(svc *services.DataService, queue *offline.Queue, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: POST /api/driver/punch")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req PunchRequest
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		event, err := svc.RecordPunch(r.Context(), userClaims.UserID, req.Direction, req.Punch)
		if err != nil {
			if store.IsRetryable(err) {
				entry, qErr := queue.Append(r.Context(), offline.PartitionAttendance, syncer.QueuedPunch{
					DriverID:  userClaims.UserID,
					Direction: req.Direction,
					Punch:     req.Punch,
				})
				if qErr != nil {
					log.Printf("❌ Failed to buffer punch offline: %v", qErr)
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
			"type": "driver_punch",
			"data": event,
		})

		log.Printf("📤 RESPONSE: 200 - %s %s", userClaims.UserID, req.Direction)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    event,
		})
	}
}

// GetPunchStatus returns whether the authenticated driver is currently
// punched in, based on today's latest punch event.
func GetPunchStatus(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/punch/status")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		status, err := svc.GetPunchStatus(r.Context(), userClaims.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    status,
		})
	}
}
