// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authutil"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/htmlsanitize"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
)

// profileResponse is the signed-in user's own account record.
type profileResponse struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	LoginID    string    `json:"login_id"`
	AuthMethod string    `json:"auth_method"` // password | google
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// updateNameRequest is the JSON payload for PUT /profile.
type updateNameRequest struct {
	FullName string `json:"full_name"`
}

// changePasswordRequest is the JSON payload for POST /profile/password.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "profile without user", nil, "Sign in to view your profile.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "profile user missing", err, "Account not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB load profile", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, profileResponse{
		ID:         user.ID.Hex(),
		FullName:   user.FullName,
		LoginID:    user.LoginID,
		AuthMethod: user.AuthMethod,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PUT /profile                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleUpdateName renames the signed-in user. The session picks up the
// new name on the next request because sessions refetch the user.
func (h *Handler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "rename without user", nil, "Sign in to update your profile.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode rename payload", err, "Invalid JSON payload.")
		return
	}

	name := strings.TrimSpace(htmlsanitize.StripTags(req.FullName))
	if name == "" {
		h.ErrLog.LogBadRequest(w, r, "rename empty full_name", nil, "A full name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.UpdateFullName(ctx, uid, name); err != nil {
		h.ErrLog.LogServerError(w, r, "DB update full name", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"full_name": name})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /profile/password                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "password change without user", nil, "Sign in to change your password.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode password payload", err, "Invalid JSON payload.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "password change user missing", err, "Account not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB load user", err, "A server error occurred.")
		return
	}

	// Google-linked accounts have no password to change.
	if user.AuthMethod != "password" {
		h.ErrLog.LogBadRequest(w, r, "password change on non-password account", nil,
			"Password change is only available for password authentication.")
		return
	}

	if user.HashedPassword == "" || !authutil.CheckPassword(req.CurrentPassword, user.HashedPassword) {
		h.ErrLog.LogBadRequest(w, r, "password change wrong current", nil, "Current password is incorrect.")
		return
	}

	if err := authutil.ValidatePassword(req.NewPassword); err != nil {
		h.ErrLog.LogBadRequest(w, r, "password change weak password", err, authutil.PasswordRules())
		return
	}

	if authutil.CheckPassword(req.NewPassword, user.HashedPassword) {
		h.ErrLog.LogBadRequest(w, r, "password change reuse", nil,
			"New password cannot be the same as your current password.")
		return
	}

	hash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.")
		return
	}

	if err := h.Users.UpdatePassword(ctx, uid, hash); err != nil {
		h.ErrLog.LogServerError(w, r, "DB update password", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
