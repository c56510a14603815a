// internal/app/features/auditlog/types.go
package auditlog

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"time"

	"github.com/cropconnect/coophub/internal/app/store/audit"
)

// principal is a resolved reference to a user or cooperative in an event.
// Name falls back to the hex ID when the record no longer exists.
type principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// listItem is one audit event row as the admin API reports it.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	Actor         *principal        `json:"actor,omitempty"`       // who performed the action
	User          *principal        `json:"user,omitempty"`        // affected user
	Cooperative   *principal        `json:"cooperative,omitempty"` // affected cooperative
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// listResponse is one page of the audit trail, newest first.
type listResponse struct {
	Events     []listItem `json:"events"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
}

// eventTypesForCategory returns the event types recognized for a category,
// used to reject typo'd filters instead of silently returning nothing.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventUserRegistered,
		audit.EventLoginSuccess,
		audit.EventLoginFailedUserNotFound,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedUserDisabled,
		audit.EventLoginFailedRateLimit,
		audit.EventLogout,
	}

	coopEvents := []string{
		audit.EventCooperativeCreated,
		audit.EventJoinRequested,
		audit.EventInviteSent,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryCoop:
		return coopEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(coopEvents))
		all = append(all, authEvents...)
		all = append(all, coopEvents...)
		return all
	default:
		return nil
	}
}

func isKnownEventType(category, eventType string) bool {
	for _, t := range eventTypesForCategory(category) {
		if t == eventType {
			return true
		}
	}
	return false
}
