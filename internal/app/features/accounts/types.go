// internal/app/features/accounts/types.go
package accounts

import "time"

// accountRow is one account in the directory listing.
type accountRow struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	LoginID    string    `json:"login_id"`
	AuthMethod string    `json:"auth_method"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// listResponse is one page of the directory, ordered by folded full
// name. Cursors are opaque; clients pass them back as ?after= or
// ?before= to walk the list.
type listResponse struct {
	Accounts   []accountRow `json:"accounts"`
	Total      int64        `json:"total"`
	HasPrev    bool         `json:"has_prev"`
	HasNext    bool         `json:"has_next"`
	PrevCursor string       `json:"prev_cursor,omitempty"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// setStatusRequest is the JSON payload for POST /accounts/{id}/status.
type setStatusRequest struct {
	Status string `json:"status"` // active | disabled
}

// setRoleRequest is the JSON payload for POST /accounts/{id}/role.
type setRoleRequest struct {
	Role string `json:"role"` // admin | farmer
}
