// internal/app/features/notifications/handler.go
package notifications

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves a signed-in user's notification inbox. Every operation is
// scoped to the requesting user; there is no cross-user access.
type Handler struct {
	DB     *mongo.Database
	Store  *notificationstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a notifications handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Store:  notificationstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
