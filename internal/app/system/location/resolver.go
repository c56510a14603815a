package location

import (
	"context"

	"github.com/cropconnect/coophub/internal/domain/models"
	"go.uber.org/zap"
)

// Resolver turns a Provider into a single-call position lookup:
// check consent, re-request it at most once, then take a high-accuracy fix.
//
// Resolve keeps no state between calls, so re-invoking after a failure or a
// cancellation is always safe.
type Resolver struct {
	provider Provider
	log      *zap.Logger
}

// NewResolver creates a Resolver backed by provider.
func NewResolver(provider Provider, log *zap.Logger) *Resolver {
	return &Resolver{provider: provider, log: log}
}

// Resolve acquires the current position.
//
// A denial on the initial check triggers exactly one permission re-request;
// a second denial returns ErrPermissionDenied. Provider faults (timeouts,
// hardware errors) return ErrPositionUnavailable. If ctx is canceled the
// context error is returned as-is and no result is delivered.
func (r *Resolver) Resolve(ctx context.Context) (models.GeoCoordinate, error) {
	perm, err := r.provider.CheckPermission(ctx)
	if err != nil {
		return models.GeoCoordinate{}, r.fault(ctx, "permission check failed", err)
	}

	if perm != PermissionGranted {
		perm, err = r.provider.RequestPermission(ctx)
		if err != nil {
			return models.GeoCoordinate{}, r.fault(ctx, "permission request failed", err)
		}
		if perm != PermissionGranted {
			r.log.Info("location permission denied by user", zap.Stringer("state", perm))
			return models.GeoCoordinate{}, ErrPermissionDenied
		}
	}

	pos, err := r.provider.CurrentPosition(ctx, AccuracyHigh)
	if err != nil {
		return models.GeoCoordinate{}, r.fault(ctx, "position fix failed", err)
	}
	return pos, nil
}

// fault maps a provider error onto the package taxonomy. Caller-initiated
// cancellation wins over classification so a torn-down caller never sees a
// position error for its own cancel.
func (r *Resolver) fault(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	r.log.Warn(msg, zap.Error(err))
	return ErrPositionUnavailable
}
