// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CoopHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: COOPHUB_MONGO_URI, COOPHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "coop_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "coophub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session lifetime (e.g., 720h for 30 days)"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL of this deployment (builds the Google callback URL)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Discovery defaults
	{Name: "default_radius_m", Default: 10000, Desc: "Default nearby-search radius in meters"},

	// Background maintenance
	{Name: "notification_retention_days", Default: 90, Desc: "Days to keep read notifications before the sweep deletes them"},

	// Login rate limiting
	{Name: "login_ip_limit", Default: 10, Desc: "Max login attempts per client IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Sliding window for the per-IP login limit"},
	{Name: "login_id_limit", Default: 5, Desc: "Max login attempts per login id per window"},
	{Name: "login_id_window", Default: "5m", Desc: "Sliding window for the per-login-id limit"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_coop", Default: "all", Desc: "Cooperative event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Admin bootstrap
	{Name: "admin_login_id", Default: "", Desc: "Login id of the platform admin (created/promoted on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, COOPHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "COOPHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 720*time.Hour),

		// Trailing slash would double up in the OAuth callback URL.
		BaseURL: strings.TrimSuffix(appValues.String("base_url"), "/"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		DefaultRadiusMeters: float64(appValues.Int("default_radius_m")),

		NotificationRetention: time.Duration(appValues.Int("notification_retention_days")) * 24 * time.Hour,

		LoginIPLimit:  appValues.Int("login_ip_limit"),
		LoginIPWindow: appValues.Duration("login_ip_window", time.Minute),
		LoginIDLimit:  appValues.Int("login_id_limit"),
		LoginIDWindow: appValues.Duration("login_id_window", 5*time.Minute),

		AuditLogAuth: appValues.String("audit_log_auth"),
		AuditLogCoop: appValues.String("audit_log_coop"),

		AdminLoginID: appValues.String("admin_login_id"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// CoopHub validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and rejects half-configured
// Google credentials so a typo'd deployment fails loudly instead of
// silently disabling sign-in.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	// Google sign-in needs both halves of the credential or neither.
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		return fmt.Errorf("google_client_id and google_client_secret must be set together")
	}

	if appCfg.DefaultRadiusMeters <= 0 {
		return fmt.Errorf("default_radius_m must be positive, got %v", appCfg.DefaultRadiusMeters)
	}
	if appCfg.NotificationRetention < 24*time.Hour {
		return fmt.Errorf("notification_retention_days must be at least 1")
	}

	return nil
}
