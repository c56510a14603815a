// Package inputval validates untrusted request input: email addresses,
// auth methods, and URLs. Validation here is about shape, not
// existence; nothing in this package touches the network or database.
package inputval

import (
	"net/mail"
	"net/url"
	"strings"
)

// IsValidEmail reports whether s is a plain RFC 5322 address
// (addr-spec only, no display name). Single-label domains are allowed
// so dev and test environments can use addresses like admin@mailserver.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <user@host>" forms; requiring the
	// parsed address to round-trip to the input rejects those.
	return addr.Address == s
}

// allowedAuthMethods are the sign-in mechanisms user records may carry.
var allowedAuthMethods = []string{"password", "google"}

// IsValidAuthMethod reports whether method names a supported sign-in
// mechanism. Case-insensitive; surrounding whitespace is ignored.
func IsValidAuthMethod(method string) bool {
	m := strings.ToLower(strings.TrimSpace(method))
	for _, allowed := range allowedAuthMethods {
		if m == allowed {
			return true
		}
	}
	return false
}

// AllowedAuthMethodsList returns the supported auth methods in
// canonical (lowercase) form.
func AllowedAuthMethodsList() []string {
	out := make([]string, len(allowedAuthMethods))
	copy(out, allowedAuthMethods)
	return out
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
