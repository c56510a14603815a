// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig is where everything specific to CoopHub lives: the MongoDB
// connection, session cookies, the Google sign-in credentials, and the
// domain defaults (search radius, notification retention, login rate
// limits). The struct is passed to most lifecycle hooks, so anything
// needed during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: coophub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // How long a signed-in session lasts

	// Base URL of this deployment, used to build the Google OAuth
	// callback URL (e.g., "https://coophub.example.com").
	BaseURL string

	// Google OAuth configuration. Both must be set for Google sign-in to
	// be offered; with either blank the endpoints answer 404.
	GoogleClientID     string
	GoogleClientSecret string

	// DefaultRadiusMeters bounds nearby-cooperative searches when the
	// client sends no explicit radius.
	DefaultRadiusMeters float64

	// NotificationRetention is how long read notifications are kept
	// before the background sweep deletes them. Unread notifications are
	// never swept.
	NotificationRetention time.Duration

	// Login rate limiting (sliding windows per client IP and per login id)
	LoginIPLimit  int
	LoginIPWindow time.Duration
	LoginIDLimit  int
	LoginIDWindow time.Duration

	// Audit logging modes: "all" (db+log), "db", "log", or "off"
	AuditLogAuth string // authentication events (register, login, logout)
	AuditLogCoop string // cooperative events (create, join request, invite)

	// AdminLoginID, when set, names an account that is created (or
	// promoted) as a platform admin on startup. Lets a fresh deployment
	// bootstrap its first administrator without touching the database.
	AdminLoginID string
}
