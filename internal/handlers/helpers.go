package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"swachh-backend/internal/offline"
	"swachh-backend/internal/store"
	"swachh-backend/pkg/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeBody decodes a JSON request body into dst and runs its
// validation tags.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// respondServiceError maps data-service errors onto HTTP statuses.
// Unavailable on a read path is a plain 503; writes go through
// respondQueued instead.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrInvalidState):
		utils.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		utils.RespondError(w, http.StatusServiceUnavailable, "Backend temporarily unavailable")
	default:
		log.Printf("❌ Internal error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// respondQueued acknowledges a write that was buffered offline instead
// of persisted. 202 tells the client the record is durable locally and
// will be replayed by the sync coordinator.
func respondQueued(w http.ResponseWriter, entry offline.Entry) {
	log.Printf("📦 Backend unavailable, record buffered in %s (entry %d)", entry.Partition, entry.ID)
	utils.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"queued":  true,
		"data": map[string]interface{}{
			"entryId":    entry.ID,
			"partition":  entry.Partition,
			"capturedAt": entry.CapturedAt,
		},
	})
}
