// internal/app/features/notifications/mark.go
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
| POST /notifications/{id}/read                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleMarkRead flips one notification to read. Operating on another
// user's notification reports not found rather than leaking its existence.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "mark read without user", nil, "Sign in to read notifications.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid notification id", err, "Invalid notification ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Store.MarkRead(ctx, userID, id)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogNotFound(w, r, "notification not found", nil, "Notification not found.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB mark read", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /notifications/read-all                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleReadAll(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "read all without user", nil, "Sign in to read notifications.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Store.MarkAllRead(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB mark all read", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
