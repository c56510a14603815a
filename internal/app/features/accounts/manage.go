// internal/app/features/accounts/manage.go
package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/authz"
	"github.com/cropconnect/coophub/internal/app/system/limits"
	"github.com/cropconnect/coophub/internal/app/system/normalize"
	"github.com/cropconnect/coophub/internal/app/system/status"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// selfChangeMsg is returned when an admin tries to flip their own role
// or status, which would let a lone admin lock everyone out.
const selfChangeMsg = "You can't change your own role or status. Ask another admin to make those changes."

// targetAccount parses the {id} route param and blocks self-changes.
func (h *Handler) targetAccount(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		h.ErrLog.LogUnauthorized(w, r, "account change without user", nil, "Sign in as an admin.")
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "account change bad id", err, "Invalid account ID.")
		return primitive.NilObjectID, false
	}

	if id == actorID {
		h.ErrLog.LogForbidden(w, r, "account self change", nil, selfChangeMsg)
		return primitive.NilObjectID, false
	}

	return id, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /accounts/{id}/status                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleSetStatus enables or disables an account. Disabling takes
// effect on the target's next request because sessions refetch the
// user.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetAccount(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode status payload", err, "Invalid JSON payload.")
		return
	}

	st := normalize.Status(req.Status)
	if !status.IsValid(st) {
		h.ErrLog.LogBadRequest(w, r, "account bad status", nil, `status must be "active" or "disabled".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetStatus(ctx, id, st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "account status unknown id", err, "Account not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB set account status", err, "A server error occurred.")
		return
	}

	h.Log.Info("account status changed",
		zap.String("user_id", id.Hex()),
		zap.String("status", st))

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": st})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /accounts/{id}/role                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := h.targetAccount(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode role payload", err, "Invalid JSON payload.")
		return
	}

	role := normalize.Role(req.Role)
	if role != "admin" && role != "farmer" {
		h.ErrLog.LogBadRequest(w, r, "account bad role", nil, `role must be "admin" or "farmer".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetRole(ctx, id, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "account role unknown id", err, "Account not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB set account role", err, "A server error occurred.")
		return
	}

	h.Log.Info("account role changed",
		zap.String("user_id", id.Hex()),
		zap.String("role", role))

	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"id": id.Hex(), "role": role})
}
