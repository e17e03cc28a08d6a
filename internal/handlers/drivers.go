package handlers

import (
	"log"
	"net/http"

	"swachh-backend/internal/middleware"
	"swachh-backend/internal/services"
	"swachh-backend/pkg/utils"
)

// UpdateProfileRequest is the body for PATCH /api/driver/profile. Only
// the provided fields are written.
type UpdateProfileRequest struct {
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	VehicleNumber string `json:"vehicleNumber,omitempty"`
}

// GetProfile returns the authenticated driver's document.
func GetProfile(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/driver/profile")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		driver, err := svc.GetDriverProfile(r.Context(), userClaims.UserID)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    driver,
		})
	}
}

// UpdateProfile applies field-level updates to the authenticated
// driver's document.
func UpdateProfile(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: PATCH /api/driver/profile")

		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req UpdateProfileRequest
		if err := decodeBody(r, &req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}

		updates := map[string]interface{}{}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Phone != "" {
			updates["phone"] = req.Phone
		}
		if req.VehicleNumber != "" {
			updates["vehicleNumber"] = req.VehicleNumber
		}
		if len(updates) == 0 {
			utils.RespondError(w, http.StatusBadRequest, "No fields to update")
			return
		}

		if err := svc.UpdateDriverProfile(r.Context(), userClaims.UserID, updates); err != nil {
			respondServiceError(w, err)
			return
		}

		log.Printf("📤 RESPONSE: 200 - profile updated for %s", userClaims.UserID)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
		})
	}
}

// TestConnection probes backend reachability by writing to the test
// collection. The mobile client calls this on startup and when
// connectivity is restored.
func TestConnection(svc *services.DataService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("📥 REQUEST: GET /api/test-connection")

		if err := svc.TestConnection(r.Context()); err != nil {
			log.Printf("⚠️  Connection test failed: %v", err)
			respondServiceError(w, err)
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"connected": true,
			},
		})
	}
}
