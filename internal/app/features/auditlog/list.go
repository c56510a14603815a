// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/store/audit"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

/*─────────────────────────────────────────────────────────────────────────────*
| GET /audit?category=&event_type=&user_id=&cooperative_id=&start_date=       |
|     &end_date=&page=                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeList returns a page of the audit trail, newest first. All filters
// combine; dates are whole days in UTC (YYYY-MM-DD).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit trail list")
	defer cancel()

	filter := audit.QueryFilter{Limit: pageSize}

	category := strings.TrimSpace(query.Get(r, "category"))
	switch category {
	case "", audit.CategoryAuth, audit.CategoryCoop:
		filter.Category = category
	default:
		h.ErrLog.LogBadRequest(w, r, "audit bad category", nil,
			`category must be "auth" or "coop".`)
		return
	}

	if eventType := strings.TrimSpace(query.Get(r, "event_type")); eventType != "" {
		if !isKnownEventType(category, eventType) {
			h.ErrLog.LogBadRequest(w, r, "audit bad event type", nil,
				"Unknown event type for this category.")
			return
		}
		filter.EventType = eventType
	}

	if raw := query.Get(r, "user_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit bad user id", err, "Invalid user ID.")
			return
		}
		filter.UserID = &id
	}
	if raw := query.Get(r, "cooperative_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit bad cooperative id", err, "Invalid cooperative ID.")
			return
		}
		filter.CooperativeID = &id
	}

	if raw := query.Get(r, "start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit bad start date", err,
				"start_date must be YYYY-MM-DD.")
			return
		}
		filter.StartTime = &t
	}
	if raw := query.Get(r, "end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "audit bad end date", err,
				"end_date must be YYYY-MM-DD.")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	page := 1
	if raw := query.Get(r, "page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			h.ErrLog.LogBadRequest(w, r, "audit bad page", err, "page must be a positive integer.")
			return
		}
		page = p
	}
	filter.Offset = int64(page-1) * pageSize

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB query audit events", err, "A server error occurred.")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB count audit events", err, "A server error occurred.")
		return
	}

	items := h.buildItems(ctx, events)

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /audit/failed-logins?since_hours=&limit=                                |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeFailedLogins returns recent failed sign-in attempts, the view an
// admin checks when an account reports being locked out.
func (h *Handler) ServeFailedLogins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit failed logins")
	defer cancel()

	sinceHours := 24
	if raw := query.Get(r, "since_hours"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.ErrLog.LogBadRequest(w, r, "audit bad since_hours", err,
				"since_hours must be a positive integer.")
			return
		}
		sinceHours = n
	}

	limit := int64(pageSize)
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			h.ErrLog.LogBadRequest(w, r, "audit bad limit", err, "limit must be a positive integer.")
			return
		}
		if n > 500 {
			n = 500
		}
		limit = n
	}

	since := time.Now().UTC().Add(-time.Duration(sinceHours) * time.Hour)
	events, err := h.Events.GetFailedLogins(ctx, since, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "DB query failed logins", err, "A server error occurred.")
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, map[string]any{
		"since":  since,
		"events": h.buildItems(ctx, events),
	})
}

// buildItems maps store events onto API rows, resolving actor, user, and
// cooperative names in one batch fetch each. Resolution failures degrade to
// hex IDs rather than failing the whole listing.
func (h *Handler) buildItems(ctx context.Context, events []audit.Event) []listItem {
	userIDs := make(map[primitive.ObjectID]struct{})
	coopIDs := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			userIDs[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			userIDs[*e.UserID] = struct{}{}
		}
		if e.CooperativeID != nil {
			coopIDs[*e.CooperativeID] = struct{}{}
		}
	}

	userNames := make(map[primitive.ObjectID]string)
	if len(userIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(userIDs))
		for id := range userIDs {
			ids = append(ids, id)
		}
		users, err := h.Users.GetByIDs(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit trail", zap.Error(err))
		} else {
			for _, u := range users {
				userNames[u.ID] = u.FullName
			}
		}
	}

	coopNames := make(map[primitive.ObjectID]string)
	if len(coopIDs) > 0 {
		ids := make([]primitive.ObjectID, 0, len(coopIDs))
		for id := range coopIDs {
			ids = append(ids, id)
		}
		coops, err := h.Coops.GetByIDs(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch cooperative names for audit trail", zap.Error(err))
		} else {
			for _, c := range coops {
				coopNames[c.ID] = c.Name
			}
		}
	}

	resolve := func(id *primitive.ObjectID, names map[primitive.ObjectID]string) *principal {
		if id == nil {
			return nil
		}
		name, ok := names[*id]
		if !ok {
			name = id.Hex()
		}
		return &principal{ID: id.Hex(), Name: name}
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			Actor:         resolve(e.ActorID, userNames),
			User:          resolve(e.UserID, userNames),
			Cooperative:   resolve(e.CooperativeID, coopNames),
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		})
	}
	return items
}
