// internal/app/features/cooperatives/requests.go
package cooperatives

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// requestsResponse lists a cooperative's join requests for its owner.
type requestsResponse struct {
	CooperativeID string               `json:"cooperative_id"`
	Requests      []models.JoinRequest `json:"requests"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /cooperatives/{id}/requests                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRequests returns the join request list. Only the cooperative's owner
// (or a platform admin) may read it.
func (h *Handler) ServeRequests(w http.ResponseWriter, r *http.Request) {
	coopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "requests without user", nil, "Sign in to view join requests.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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
		h.ErrLog.LogForbidden(w, r, "requests by non-owner", nil,
			"Only the cooperative's administrator can view its join requests.")
		return
	}

	requests := coop.JoinRequests
	if requests == nil {
		requests = []models.JoinRequest{}
	}

	uierrors.WriteJSON(w, http.StatusOK, requestsResponse{
		CooperativeID: coop.ID.Hex(),
		Requests:      requests,
	})
}
