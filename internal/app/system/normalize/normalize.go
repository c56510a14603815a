// Package normalize provides input normalization helpers applied at the
// edges (JSON/form parsing) before values reach stores or query filters.
//
// Identifier-like values (login IDs, auth methods, statuses, roles) are
// lowercased and trimmed; display values (names, search text) are trimmed
// only, preserving case.
package normalize

import "strings"

// LoginID lowercases and trims a login identifier.
func LoginID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace. Case is preserved; case-insensitive
// matching uses the folded *_ci fields instead.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// AuthMethod lowercases and trims an auth method value.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-text query parameter, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
