// internal/app/features/login/login.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authutil"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/normalize"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loginRequest is the JSON payload for POST /login.
type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// loginResponse is returned on successful sign-in.
type loginResponse struct {
	ID       string `json:"id"`
	LoginID  string `json:"login_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login payload", err, "Invalid JSON payload.")
		return
	}

	loginID := strings.TrimSpace(req.LoginID)
	if loginID == "" {
		h.ErrLog.LogBadRequest(w, r, "login missing login_id", nil, "Please enter your login ID.")
		return
	}
	if req.Password == "" {
		h.ErrLog.LogBadRequest(w, r, "login missing password", nil, "Please enter your password.")
		return
	}

	// Rate limit before any database work so hammering costs nothing.
	if allowed, reason := h.Limiter.Check(r, loginID); !allowed {
		h.AuditLog.LoginFailedRateLimit(r.Context(), r, loginID)
		h.ErrLog.LogTooManyRequests(w, r, "login rate limited", nil, reason)
		return
	}

	/*── look-up user by login_id_ci (case/diacritic-insensitive) ──────────*/

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.AuditLog.LoginFailedUserNotFound(ctx, r, loginID)
		h.ErrLog.LogUnauthorized(w, r, "login unknown login_id", nil, "No account found for that login ID.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.")
		return
	}

	/*── check status: disabled users cannot log in ────────────────────────*/

	if normalize.Status(u.Status) == "disabled" {
		h.AuditLog.LoginFailedUserDisabled(ctx, r, u.ID, u.LoginID)
		h.ErrLog.LogForbidden(w, r, "login disabled account", nil,
			"Your account is currently disabled. Please contact an administrator.")
		return
	}

	/*── verify password ───────────────────────────────────────────────────*/

	if u.HashedPassword == "" {
		// Google-provisioned accounts have no local password.
		h.ErrLog.LogUnauthorized(w, r, "login no password on account", nil,
			"This account signs in with Google.")
		return
	}
	if !authutil.CheckPassword(req.Password, u.HashedPassword) {
		h.AuditLog.LoginFailedWrongPassword(ctx, r, u.ID, u.LoginID)
		h.ErrLog.LogUnauthorized(w, r, "login wrong password", nil, "Incorrect password. Please try again.")
		return
	}

	/*── success: session, login record, audit ─────────────────────────────*/

	h.Limiter.ResetLoginID(loginID)

	if err := h.SessionMgr.SignIn(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.")
		return
	}

	if err := h.Logins.CreateFrom(ctx, r, u.ID, u.LoginID, "password"); err != nil {
		// Sign-in already succeeded; the history record is best effort.
		h.Log.Warn("record login failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.AuditLog.LoginSuccess(ctx, r, u.ID, "password", u.LoginID)

	uierrors.WriteJSON(w, http.StatusOK, loginResponse{
		ID:       u.ID.Hex(),
		LoginID:  u.LoginID,
		FullName: u.FullName,
		Role:     u.Role,
	})
}
