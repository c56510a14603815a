// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	loginstore "github.com/cropconnect/coophub/internal/app/store/logins"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/auditlog"
	"github.com/cropconnect/coophub/internal/app/system/auth"
	"github.com/cropconnect/coophub/internal/app/system/ratelimit"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB         *mongo.Database
	Users      *userstore.Store
	Logins     *loginstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	limiter *ratelimit.LoginLimiter,
	logger *zap.Logger,
) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{
		DB:         db,
		Users:      userstore.New(db),
		Logins:     loginstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
	}
}
