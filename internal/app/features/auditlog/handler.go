// internal/app/features/auditlog/handler.go
package auditlog

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	"github.com/cropconnect/coophub/internal/app/store/audit"
	cooperativestore "github.com/cropconnect/coophub/internal/app/store/cooperatives"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the audit trail to platform admins: the filtered event
// list and the failed-login view. It only reads; events are written by the
// auditlog system package as the actions happen.
type Handler struct {
	DB     *mongo.Database
	Events *audit.Store
	Users  *userstore.Store
	Coops  *cooperativestore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler constructs an audit trail handler bound to the given Mongo
// database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Events: audit.New(db),
		Users:  userstore.New(db),
		Coops:  cooperativestore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
