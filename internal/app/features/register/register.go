// internal/app/features/register/register.go
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/authutil"
	"github.com/cropconnect/coophub/internal/app/system/inputval"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"

	"go.uber.org/zap"
)

// registerRequest is the JSON payload for POST /register.
type registerRequest struct {
	LoginID  string `json:"login_id"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// registerResponse is returned on successful registration.
type registerResponse struct {
	ID       string `json:"id"`
	LoginID  string `json:"login_id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode register payload", err, "Invalid JSON payload.")
		return
	}

	loginID := strings.TrimSpace(req.LoginID)
	fullName := strings.TrimSpace(req.FullName)

	if loginID == "" {
		h.ErrLog.LogBadRequest(w, r, "register missing login_id", nil, "A login ID is required.")
		return
	}
	if !inputval.IsValidEmail(loginID) {
		h.ErrLog.LogBadRequest(w, r, "register invalid login_id", nil, "The login ID must be a valid email address.")
		return
	}
	if fullName == "" {
		h.ErrLog.LogBadRequest(w, r, "register missing full_name", nil, "A full name is required.")
		return
	}
	if err := authutil.ValidatePassword(req.Password); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register weak password", err, authutil.PasswordRules())
		return
	}

	hash, err := authutil.HashPassword(req.Password)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash password", err, "A server error occurred.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName:       fullName,
		LoginID:        loginID,
		HashedPassword: hash,
		AuthMethod:     "password",
		Role:           "farmer",
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateLoginID) {
			h.ErrLog.LogConflict(w, r, "register duplicate login_id", err, "An account with this login ID already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB create user", err, "A server error occurred.")
		return
	}

	// Welcome note lands in the new account's inbox. Registration has
	// already succeeded, so a failure here only logs.
	if _, err := h.Notifications.Create(ctx, models.Notification{
		UserID:  u.ID,
		Type:    models.TypeGeneralMessage,
		Title:   "Welcome to CoopHub",
		Message: "Find cooperatives near you and request to join from the map.",
		Action:  models.ActionNone,
	}); err != nil {
		h.Log.Warn("welcome notification failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
	}

	h.AuditLog.UserRegistered(ctx, r, u.ID, u.LoginID, u.AuthMethod)

	uierrors.WriteJSON(w, http.StatusCreated, registerResponse{
		ID:       u.ID.Hex(),
		LoginID:  u.LoginID,
		FullName: u.FullName,
		Role:     u.Role,
	})
}
