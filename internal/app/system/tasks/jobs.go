// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	notificationstore "github.com/cropconnect/coophub/internal/app/store/notifications"
	"github.com/cropconnect/coophub/internal/app/store/oauthstate"
	"go.uber.org/zap"
)

// NotificationRetentionJob creates a job that deletes read notifications older
// than the retention window. Unread notifications are never swept.
func NotificationRetentionJob(noteStore *notificationstore.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "notification-retention",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			count, err := noteStore.DeleteReadOlderThan(ctx, cutoff)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("swept read notifications",
					zap.Int64("count", count),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// This is a backup for when MongoDB's TTL index cleanup is delayed.
func OAuthStateCleanupJob(stateStore *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := stateStore.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("cleaned up expired OAuth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}
