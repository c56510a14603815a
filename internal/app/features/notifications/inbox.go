// internal/app/features/notifications/inbox.go
package notifications

import (
	"context"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/paging"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
)

// listResponse is one page of the inbox, newest first. When HasMore is true
// the client passes the oldest item's created_at as ?before= to walk back.
type listResponse struct {
	Notifications []models.Notification `json:"notifications"`
	HasMore       bool                  `json:"has_more"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /notifications?limit=&before=                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "inbox without user", nil, "Sign in to read notifications.")
		return
	}

	limit := paging.ParseLimit(r)
	before, ok := paging.ParseBefore(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "inbox invalid before", nil,
			"before must be an RFC 3339 timestamp.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Fetch one extra row to learn whether another page exists.
	rows, err := h.Store.ListByRecipient(ctx, userID, paging.LimitPlusOne(limit), before)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list notifications", err, "A server error occurred.")
		return
	}
	hasMore := paging.TrimMore(&rows, limit)

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Notifications: rows,
		HasMore:       hasMore,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /notifications/unread-count                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUnreadCount(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "unread count without user", nil, "Sign in to read notifications.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.Store.CountUnread(ctx, userID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB count unread", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]int64{"unread": count})
}
