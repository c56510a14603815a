// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	loginstore "github.com/cropconnect/coophub/internal/app/store/logins"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own account: viewing it, renaming
// it, changing the password, and reviewing sign-in activity. Nothing here
// touches other users.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	Logins *loginstore.Store
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewHandler creates a profile handler.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		Logins: loginstore.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
