// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	"github.com/cropconnect/coophub/internal/app/store/oauthstate"
	userstore "github.com/cropconnect/coophub/internal/app/store/users"
	"github.com/cropconnect/coophub/internal/app/system/tasks"
	"github.com/cropconnect/coophub/internal/app/system/timeouts"
	"github.com/cropconnect/coophub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// backgroundRunner drives the maintenance jobs for the life of the process.
// Startup creates it and Shutdown stops it; the lifecycle hooks share no
// other state, so it lives at package level.
var backgroundRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// CoopHub uses it to apply timeout overrides, provision the first platform
// admin when one is configured, and launch the background maintenance jobs
// (notification retention, OAuth state sweep).
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts configured from environment", zap.Int("overrides", n))
	}

	if appCfg.AdminLoginID != "" {
		if err := ensureAdminUser(ctx, deps, appCfg.AdminLoginID, logger); err != nil {
			return fmt.Errorf("ensure admin user: %w", err)
		}
	}

	db := deps.CoopHubMongoDatabase
	backgroundRunner = tasks.NewRunner(logger)
	backgroundRunner.Register(tasks.NotificationRetentionJob(
		notificationstore.New(db), logger, appCfg.NotificationRetention))
	backgroundRunner.Register(tasks.OAuthStateCleanupJob(
		oauthstate.New(db), logger))
	backgroundRunner.Start()

	return nil
}

// ensureAdminUser guarantees that loginID names a platform admin. An
// existing account is promoted; a missing one is created without a
// password, so its first sign-in happens through Google using the same
// login id.
func ensureAdminUser(ctx context.Context, deps DBDeps, loginID string, logger *zap.Logger) error {
	users := userstore.New(deps.CoopHubMongoDatabase)

	existing, err := users.GetByLoginID(ctx, loginID)
	switch {
	case err == nil:
		if existing.Role == "admin" {
			return nil
		}
		if err := users.SetRole(ctx, existing.ID, "admin"); err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("login_id", existing.LoginID),
			zap.String("user_id", existing.ID.Hex()))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, models.User{
			FullName: loginID,
			LoginID:  loginID,
			Role:     "admin",
		})
		if err != nil {
			return err
		}
		logger.Info("created admin user",
			zap.String("login_id", created.LoginID),
			zap.String("user_id", created.ID.Hex()))
		return nil

	default:
		return err
	}
}
