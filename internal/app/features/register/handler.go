// internal/app/features/register/handler.go
package register

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/auditlog"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the self-service account registration endpoint.
type Handler struct {
	DB            *mongo.Database
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger
}

// NewHandler constructs a register Handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Users:         userstore.New(db),
		Notifications: notificationstore.New(db),
		Log:           logger,
		ErrLog:        errLog,
		AuditLog:      audit,
	}
}
