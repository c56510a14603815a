// internal/app/features/notifications/delete.go
package notifications

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
)

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /notifications/{id}                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes one of the user's notifications permanently.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "delete without user", nil, "Sign in to manage notifications.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid notification id", err, "Invalid notification ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Store.Delete(ctx, userID, id)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogNotFound(w, r, "notification not found", nil, "Notification not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB delete notification", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
