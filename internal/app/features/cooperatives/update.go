// internal/app/features/cooperatives/update.go
package cooperatives

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	cooperativestore "github.com/cropconnect/coophub/internal/app/store/cooperatives"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/htmlsanitize"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// updateRequest is the JSON payload for PUT /cooperatives/{id}. Blank or
// absent fields are left unchanged; latitude and longitude travel as a pair.
type updateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /cooperatives/{id}                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpdate edits a cooperative's name, description, or location. Only
// the cooperative's owner (or a platform admin) may edit it.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	coopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxCooperativeFormSize)

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode cooperative update", err, "Invalid JSON payload.")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "update cooperative without user", nil, "Sign in to edit a cooperative.")
		return
	}

	name := ""
	if strings.TrimSpace(req.Name) != "" {
		name = htmlsanitize.StripTags(strings.TrimSpace(req.Name))
		if name == "" {
			h.ErrLog.LogBadRequest(w, r, "cooperative name reduces to nothing", nil,
				"Please provide a cooperative name.")
			return
		}
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.ErrLog.LogBadRequest(w, r, "cooperative partial coordinates", nil,
			"Latitude and longitude must be provided together.")
		return
	}
	if req.Latitude != nil {
		loc := models.GeoCoordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
		if !loc.Valid() {
			h.ErrLog.LogBadRequest(w, r, "cooperative coordinates out of range", nil,
				"Latitude must be in [-90, 90] and longitude in [-180, 180].")
			return
		}
	}

	description := ""
	if strings.TrimSpace(req.Description) != "" {
		description = htmlsanitize.Sanitize(req.Description)
	}

	if name == "" && description == "" && req.Latitude == nil {
		h.ErrLog.LogBadRequest(w, r, "cooperative update with no fields", nil,
			"Provide a name, description, or location to update.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	coop, err := h.Coops.GetByID(ctx, coopID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogNotFound(w, r, "cooperative not found", nil, "Cooperative not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find cooperative", err, "A server error occurred.")
		return
	}

	if coop.CreatedBy != userID && !authz.IsAdmin(r) {
		h.ErrLog.LogForbidden(w, r, "update by non-owner", nil,
			"Only the cooperative's administrator can edit it.")
		return
	}

	err = h.Coops.Update(ctx, coopID, name, description, req.Latitude, req.Longitude)
	switch {
	case errors.Is(err, cooperativestore.ErrDuplicateCooperative):
		h.ErrLog.LogConflict(w, r, "duplicate cooperative name", err,
			"A cooperative with that name already exists.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB update cooperative", err, "A server error occurred.")
		return
	}

	h.Log.Info("cooperative updated",
		zap.String("cooperative_id", coopID.Hex()),
		zap.String("actor_id", userID.Hex()))

	updated, err := h.Coops.GetByID(ctx, coopID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB reread cooperative", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, updated)
}
