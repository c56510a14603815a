// internal/app/features/profile/logins.go
package profile

import (
	"context"
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

const (
	defaultLoginHistory = 10
	maxLoginHistory     = 50
)

// loginEntry is one row of the user's sign-in history. The user and login
// id are implied by the route; only the when/how/where travels.
type loginEntry struct {
	At        time.Time `json:"at"`
	Method    string    `json:"method"` // password | google
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent,omitempty"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile/logins?limit=                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeLogins returns the signed-in user's recent sign-ins, newest first.
// The view an account holder checks when they suspect someone else has
// their password.
func (h *Handler) ServeLogins(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "login history without user", nil, "Sign in to view your sign-in history.")
		return
	}

	limit := int64(defaultLoginHistory)
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			h.ErrLog.LogBadRequest(w, r, "login history bad limit", err, "limit must be a positive integer.")
			return
		}
		if n > maxLoginHistory {
			n = maxLoginHistory
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Logins.RecentByUser(ctx, uid, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB load login history", err, "A server error occurred.")
		return
	}

	entries := make([]loginEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, loginEntry{
			At:        rec.At,
			Method:    rec.Method,
			IP:        rec.IP,
			UserAgent: rec.UserAgent,
		})
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]any{"logins": entries})
}
