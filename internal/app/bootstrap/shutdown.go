// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down background jobs and DB connections. Jobs are
// stopped before the database disconnects so a sweep mid-run can finish its
// writes.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if backgroundRunner != nil {
		backgroundRunner.Stop()
		backgroundRunner = nil
	}

	if deps.CoopHubMongoClient != nil {
		logger.Info("disconnecting CoopHub MongoDB client")
		if err := deps.CoopHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
