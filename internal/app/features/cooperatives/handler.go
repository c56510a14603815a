// internal/app/features/cooperatives/handler.go
package cooperatives

import (
	"context"

	uierrors "github.com/cropconnect/coophub/internal/app/features/errors"
	cooperativestore "github.com/cropconnect/coophub/internal/app/store/cooperatives"
	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/auditlog"
	"github.com/cropconnect/coophub/internal/app/system/joinrequests"
	"github.com/cropconnect/coophub/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the cooperative directory: create, fetch, edit, delete,
// nearby search, join requests, and owner invitations.
type Handler struct {
	DB            *mongo.Database
	Coops         *cooperativestore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Joins         *joinrequests.Coordinator
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	AuditLog      *auditlog.Logger

	// DefaultRadiusMeters bounds nearby searches when the request carries no
	// explicit radius.
	DefaultRadiusMeters float64
}

// NewHandler creates a cooperatives handler. defaultRadiusMeters <= 0 selects
// the store's built-in default.
func NewHandler(
	db *mongo.Database,
	errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger,
	defaultRadiusMeters float64,
	logger *zap.Logger,
) *Handler {
	if defaultRadiusMeters <= 0 {
		defaultRadiusMeters = cooperativestore.DefaultRadiusMeters
	}

	coops := cooperativestore.New(db)
	notes := notificationstore.New(db)
	run := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return txn.Run(ctx, db, logger, fn)
	}

	return &Handler{
		DB:                  db,
		Coops:               coops,
		Users:               userstore.New(db),
		Notifications:       notes,
		Joins:               joinrequests.New(coops, notes, run, logger),
		Log:                 logger,
		ErrLog:              errLog,
		AuditLog:            audit,
		DefaultRadiusMeters: defaultRadiusMeters,
	}
}
