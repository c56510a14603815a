package location

import (
	"context"

	"github.com/cropconnect/coophub/internal/domain/models"
)

// StaticProvider serves a fixed coordinate, standing in for device hardware
// where none exists: the coopscout CLI builds one from flags, and tests use
// it for the granted path.
type StaticProvider struct {
	Coordinate models.GeoCoordinate
	Granted    bool // answer for both the check and the request
}

func (p *StaticProvider) CheckPermission(ctx context.Context) (Permission, error) {
	if err := ctx.Err(); err != nil {
		return PermissionUnrequested, err
	}
	if p.Granted {
		return PermissionGranted, nil
	}
	return PermissionDenied, nil
}

func (p *StaticProvider) RequestPermission(ctx context.Context) (Permission, error) {
	return p.CheckPermission(ctx)
}

func (p *StaticProvider) CurrentPosition(ctx context.Context, accuracy Accuracy) (models.GeoCoordinate, error) {
	if err := ctx.Err(); err != nil {
		return models.GeoCoordinate{}, err
	}
	return p.Coordinate, nil
}
