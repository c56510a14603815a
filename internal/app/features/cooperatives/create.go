// internal/app/features/cooperatives/create.go
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
)

// createRequest is the JSON payload for POST /cooperatives.
type createRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /cooperatives                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate registers a new cooperative owned by the signed-in user.
// The name is reduced to plain text; the description may keep safe rich
// formatting.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxCooperativeFormSize)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode cooperative payload", err, "Invalid JSON payload.")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "create cooperative without user", nil, "Sign in to create a cooperative.")
		return
	}

	name := htmlsanitize.StripTags(strings.TrimSpace(req.Name))
	if name == "" {
		h.ErrLog.LogBadRequest(w, r, "cooperative missing name", nil, "Please provide a cooperative name.")
		return
	}

	loc := models.GeoCoordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	if !loc.Valid() {
		h.ErrLog.LogBadRequest(w, r, "cooperative coordinates out of range", nil,
			"Latitude must be in [-90, 90] and longitude in [-180, 180].")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	coop, err := h.Coops.Create(ctx, models.Cooperative{
		Name:        name,
		Description: htmlsanitize.Sanitize(req.Description),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedBy:   userID,
	})
	switch {
	case errors.Is(err, cooperativestore.ErrDuplicateCooperative):
		h.ErrLog.LogConflict(w, r, "duplicate cooperative name", err,
			"A cooperative with that name already exists.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB create cooperative", err, "A server error occurred.")
		return
	}

	h.AuditLog.CooperativeCreated(ctx, r, userID, coop.ID, coop.Name)

	uierrors.WriteJSON(w, http.StatusCreated, coop)
}
