// internal/app/features/accounts/handler.go
package accounts

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the admin account directory: listing every account on the
// platform and flipping roles and statuses. All routes are admin-only.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates an accounts handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
