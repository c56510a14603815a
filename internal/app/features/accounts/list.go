// internal/app/features/accounts/list.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/system/normalize"
	"github.com/cropconnect/coophub/internal/app/system/paging"
	"github.com/cropconnect/coophub/internal/app/system/status"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /accounts?search=&role=&status=&after=&before=                          |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList pages through every account ordered by folded full name.
// search matches name or login ID prefixes against the folded columns,
// so it is case- and diacritic-insensitive.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	searchQ := strings.TrimSpace(query.Get(r, "search"))
	role := normalize.Role(query.Get(r, "role"))
	st := normalize.Status(query.Get(r, "status"))
	after := strings.TrimSpace(query.Get(r, "after"))
	before := strings.TrimSpace(query.Get(r, "before"))

	if role != "" && role != "admin" && role != "farmer" {
		h.ErrLog.LogBadRequest(w, r, "accounts bad role filter", nil, `role must be "admin" or "farmer".`)
		return
	}
	if st != "" && !status.IsValid(st) {
		h.ErrLog.LogBadRequest(w, r, "accounts bad status filter", nil, `status must be "active" or "disabled".`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// Keep the role key present even unfiltered so the directory index
	// (role, status, full_name_ci, _id) stays usable.
	base := bson.M{"role": bson.M{"$in": []string{"admin", "farmer"}}}
	if role != "" {
		base["role"] = role
	}
	if st != "" {
		base["status"] = st
	}

	var searchOr []bson.M
	if searchQ != "" {
		qFold := text.Fold(searchQ)
		hi := qFold + "￿"
		searchOr = []bson.M{
			{"full_name_ci": bson.M{"$gte": qFold, "$lt": hi}},
			{"login_id_ci": bson.M{"$gte": qFold, "$lt": hi}},
		}
	}

	countFilter := bson.M{}
	for k, v := range base {
		countFilter[k] = v
	}
	if searchOr != nil {
		countFilter["$or"] = searchOr
	}

	total, err := h.DB.Collection("users").CountDocuments(ctx, countFilter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB count accounts", err, "A server error occurred.")
		return
	}

	cfg := paging.ConfigureKeyset(before, after)
	findOpts := options.Find().SetProjection(bson.M{
		"_id":          1,
		"full_name":    1,
		"full_name_ci": 1,
		"login_id":     1,
		"auth_method":  1,
		"role":         1,
		"status":       1,
		"created_at":   1,
	})
	cfg.ApplyToFind(findOpts, "full_name_ci")

	filter := bson.M{}
	for k, v := range base {
		filter[k] = v
	}

	// The search OR and the keyset window are both $or clauses, so when
	// both apply they must be ANDed rather than merged.
	var clauses []bson.M
	if searchOr != nil {
		clauses = append(clauses, bson.M{"$or": searchOr})
	}
	if window := cfg.KeysetWindow("full_name_ci"); window != nil {
		clauses = append(clauses, window)
	}
	switch len(clauses) {
	case 1:
		for k, v := range clauses[0] {
			filter[k] = v
		}
	case 2:
		filter["$and"] = clauses
	}

	cur, err := h.DB.Collection("users").Find(ctx, filter, findOpts)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB list accounts", err, "A server error occurred.")
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		h.ErrLog.LogServerError(w, r, "DB decode accounts", err, "A server error occurred.")
		return
	}

	page := paging.TrimPage(&users, before, after)
	if before != "" {
		paging.Reverse(users)
	}

	rows := make([]accountRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, asRow(u))
	}

	prevCur, nextCur := paging.BuildCursors(users,
		func(u models.User) string { return u.FullNameCI },
		func(u models.User) primitive.ObjectID { return u.ID })

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Accounts:   rows,
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /accounts/{id}                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "accounts bad id", err, "Invalid account ID.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.ErrLog.LogNotFound(w, r, "accounts unknown id", err, "Account not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "DB load account", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, asRow(*user))
}

func asRow(u models.User) accountRow {
	return accountRow{
		ID:         u.ID.Hex(),
		FullName:   u.FullName,
		LoginID:    u.LoginID,
		AuthMethod: u.AuthMethod,
		Role:       u.Role,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
	}
}
