// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	accountsfeature "github.com/cropconnect/coophub/internal/app/features/accounts"
	auditlogfeature "github.com/cropconnect/coophub/internal/app/features/auditlog"
	authgooglefeature "github.com/cropconnect/coophub/internal/app/features/authgoogle"
	cooperativesfeature "github.com/cropconnect/coophub/internal/app/features/cooperatives"
	errorsfeature "github.com/cropconnect/coophub/internal/app/features/errors"
	healthfeature "github.com/cropconnect/coophub/internal/app/features/health"
	loginfeature "github.com/cropconnect/coophub/internal/app/features/login"
	logoutfeature "github.com/cropconnect/coophub/internal/app/features/logout"
	notificationsfeature "github.com/cropconnect/coophub/internal/app/features/notifications"
	profilefeature "github.com/cropconnect/coophub/internal/app/features/profile"
	registerfeature "github.com/cropconnect/coophub/internal/app/features/register"
	userinfofeature "github.com/cropconnect/coophub/internal/app/features/userinfo"
	"github.com/cropconnect/coophub/internal/app/store/audit"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/auditlog"
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/cropconnect/coophub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// CoopHub serves JSON to mobile clients, so there is no template engine or
// static file server here: the router is session middleware plus the
// feature mounts for auth, the cooperative directory, and the notification
// inbox.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.CoopHubMongoDatabase

	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. This ensures role changes, disabled accounts, and
	// profile updates take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Audit trail: auth and cooperative events, modes from config.
	auditLogger := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth: appCfg.AuditLogAuth,
		Coop: appCfg.AuditLogCoop,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CoopHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account lifecycle
	registerHandler := registerfeature.NewHandler(db, errLog, auditLogger, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	limiter := ratelimit.NewLoginLimiterWithConfig(
		appCfg.LoginIPLimit, appCfg.LoginIPWindow,
		appCfg.LoginIDLimit, appCfg.LoginIDWindow)
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, auditLogger, limiter, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLogger, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	userinfoHandler := userinfofeature.NewHandler()
	userinfofeature.MountRoutes(r, userinfoHandler)

	// Google sign-in; the handlers answer 404 when no credentials are
	// configured, so mounting unconditionally is fine.
	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, errLog, auditLogger,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Cooperative directory and the join flow
	coopHandler := cooperativesfeature.NewHandler(db, errLog, auditLogger, appCfg.DefaultRadiusMeters, logger)
	r.Mount("/cooperatives", cooperativesfeature.Routes(coopHandler, sessionMgr))

	// Notification inbox
	noteHandler := notificationsfeature.NewHandler(db, errLog, logger)
	r.Mount("/notifications", notificationsfeature.Routes(noteHandler, sessionMgr))

	// Own-account management
	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))

	// Admin surfaces: account directory and the audit trail
	accountsHandler := accountsfeature.NewHandler(db, errLog, logger)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler, sessionMgr))

	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
