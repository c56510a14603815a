// Package location acquires the user's current position through a
// pluggable provider, handling the permission round-trip and mapping
// provider failures onto a small error taxonomy.
//
// The package has no opinion about where positions come from: device
// hardware, a CLI flag, or a test script all satisfy Provider.
package location

import (
	"context"
	"errors"

	"github.com/cropconnect/coophub/internal/domain/models"
)

// Permission is the state of the user's consent to read their position.
type Permission int

const (
	PermissionUnrequested Permission = iota
	PermissionGranted
	PermissionDenied
)

// String returns the lowercase name used in logs.
func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unrequested"
	}
}

// Accuracy selects the quality of a position fix. Higher accuracy may take
// longer and is what the nearby-cooperative flow asks for.
type Accuracy int

const (
	AccuracyLow Accuracy = iota
	AccuracyHigh
)

// Sentinel errors surfaced by Resolver.Resolve. Callers branch with
// errors.Is; neither is retried automatically anywhere in this package.
var (
	// ErrPermissionDenied means the user refused the permission request
	// twice. Terminal for the session.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrPositionUnavailable means permission was granted but no fix could
	// be obtained (provider timeout or hardware failure).
	ErrPositionUnavailable = errors.New("position unavailable")
)

// Provider is the position source a Resolver drives. Implementations must
// honor context cancellation on every call.
type Provider interface {
	// CheckPermission reports the current consent state without prompting.
	CheckPermission(ctx context.Context) (Permission, error)

	// RequestPermission prompts the user and reports the resulting state.
	// The call may suspend for the duration of the dialog.
	RequestPermission(ctx context.Context) (Permission, error)

	// CurrentPosition obtains a fix at the requested accuracy. The call may
	// suspend while the fix is acquired.
	CurrentPosition(ctx context.Context, accuracy Accuracy) (models.GeoCoordinate, error)
}
