// internal/app/features/cooperatives/delete.go
package cooperatives

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /cooperatives/{id}                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes a cooperative from the directory. Only the
// cooperative's owner (or a platform admin) may delete it. Notifications
// that reference the cooperative are left in place; they carry their own
// title and message.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	coopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "delete cooperative without user", nil, "Sign in to delete a cooperative.")
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
		h.ErrLog.LogForbidden(w, r, "delete by non-owner", nil,
			"Only the cooperative's administrator can delete it.")
		return
	}

	err = h.Coops.Delete(ctx, coopID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		// Raced with another delete; the end state is what the caller asked for.
		h.ErrLog.LogNotFound(w, r, "cooperative already deleted", nil, "Cooperative not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB delete cooperative", err, "A server error occurred.")
		return
	}

	h.Log.Info("cooperative deleted",
		zap.String("cooperative_id", coopID.Hex()),
		zap.String("cooperative_name", coop.Name),
		zap.String("actor_id", userID.Hex()))

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{
		"id":     coopID.Hex(),
		"status": "deleted",
	})
}
