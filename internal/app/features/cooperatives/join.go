// internal/app/features/cooperatives/join.go
package cooperatives

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/joinrequests"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// joinResponse reports how a join request resolved.
type joinResponse struct {
	Status        string `json:"status"` // created | already_requested
	CooperativeID string `json:"cooperative_id"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /cooperatives/{id}/join                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleJoin records the signed-in user's request to join a cooperative and
// notifies its administrator, atomically. Repeating the request is safe: the
// second call reports already_requested without writing anything.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	coopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	_, name, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "join without user", nil, "Sign in to request joining a cooperative.")
		return
	}

	// The coordinator folds an unknown cooperative into its write-failure
	// path; resolve it here first so the client gets a 404 instead.
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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

	outcome, err := h.Joins.RequestToJoin(ctx, &joinrequests.Requester{ID: userID, Name: name}, coop.ID)
	switch {
	case errors.Is(err, joinrequests.ErrUserRequired):
		h.ErrLog.LogUnauthorized(w, r, "join without user", nil, "Sign in to request joining a cooperative.")
		return
	case errors.Is(err, joinrequests.ErrWriteFailed):
		h.ErrLog.LogBadGateway(w, r, "join request write failed", err,
			"Could not record your join request. Please try again.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "join request", err, "A server error occurred.")
		return
	}

	resp := joinResponse{Status: outcome.String(), CooperativeID: coop.ID.Hex()}
	if outcome == joinrequests.OutcomeCreated {
		h.AuditLog.JoinRequested(ctx, r, userID, coop.ID, coop.Name)
		uierrors.WriteJSON(w, http.StatusCreated, resp)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, resp)
}
