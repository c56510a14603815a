// internal/app/features/cooperatives/invite.go
package cooperatives

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// inviteRequest names the user to invite by login ID.
type inviteRequest struct {
	LoginID string `json:"login_id"`
}

// inviteResponse confirms the invitation notification was delivered.
type inviteResponse struct {
	Status         string `json:"status"`
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /cooperatives/{id}/invite                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleInvite sends a cooperativeInvite notification to another user.
// Only the cooperative's owner (or a platform admin) may invite.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	coopID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid cooperative id", err, "Invalid cooperative ID.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode invite payload", err, "Invalid JSON payload.")
		return
	}
	if strings.TrimSpace(req.LoginID) == "" {
		h.ErrLog.LogBadRequest(w, r, "invite missing login_id", nil, "Please provide the login ID to invite.")
		return
	}

	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "invite without user", nil, "Sign in to send invitations.")
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

	if coop.CreatedBy != actorID && !authz.IsAdmin(r) {
		h.ErrLog.LogForbidden(w, r, "invite by non-owner", nil,
			"Only the cooperative's administrator can send invitations.")
		return
	}

	invitee, err := h.Users.GetByLoginID(ctx, req.LoginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.ErrLog.LogNotFound(w, r, "invitee not found", nil, "No user found with that login ID.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find invitee", err, "A server error occurred.")
		return
	}

	note, err := h.Notifications.Create(ctx, models.Notification{
		UserID:        invitee.ID,
		Type:          models.TypeCooperativeInvite,
		Title:         "Cooperative invitation",
		Message:       fmt.Sprintf("You have been invited to join %s.", coop.Name),
		CooperativeID: &coop.ID,
		Action:        models.ActionAcceptInvite,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create invite notification", err, "A server error occurred.")
		return
	}

	h.AuditLog.InviteSent(ctx, r, actorID, invitee.ID, coop.ID, coop.Name)

	uierrors.WriteJSON(w, http.StatusCreated, inviteResponse{
		Status:         "invited",
		UserID:         invitee.ID.Hex(),
		NotificationID: note.ID.Hex(),
	})
}
