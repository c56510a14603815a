// internal/app/system/joinrequests/coordinator.go

// Package joinrequests coordinates a farmer asking to join a cooperative.
// One request produces two writes that must land together: a pending entry
// on the cooperative's join request list and a notification to the
// cooperative's owner. The coordinator runs both inside a single
// transaction callback so a failure in either leaves no trace of the other.
//
// NOTE:
//   - "Already requested" is a normal outcome, not an error. A farmer
//     tapping the button twice should see the same friendly state both
//     times.
//   - Dedup happens twice: a fresh read up front for the common case, and
//     a guard on the append itself for the race where two requests from
//     the same user arrive between read and write. The guard is what makes
//     the invariant hold; the read just makes the usual path cheap.
package joinrequests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cropconnect/coophub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrUserRequired means no signed-in requester was supplied. Nothing
	// is read or written in that case.
	ErrUserRequired = errors.New("a signed-in user is required to request joining")

	// ErrWriteFailed wraps any storage failure while recording the
	// request. Neither the join request nor the notification persists.
	ErrWriteFailed = errors.New("join request could not be recorded")
)

// errAlreadyPending aborts the transaction when the append guard finds a
// pending request that appeared after the dedup read.
var errAlreadyPending = errors.New("pending request already present")

// Outcome reports how a join request resolved when no error occurred.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeAlreadyRequested
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyRequested:
		return "already_requested"
	default:
		return "unknown"
	}
}

// Requester identifies who is asking to join.
type Requester struct {
	ID   primitive.ObjectID
	Name string
}

// Directory is the slice of the cooperative store the coordinator needs.
type Directory interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Cooperative, error)
	AppendPendingRequest(ctx context.Context, coopID primitive.ObjectID, jr models.JoinRequest) (bool, error)
}

// Notifier is the slice of the notification store the coordinator needs.
type Notifier interface {
	Create(ctx context.Context, n models.Notification) (models.Notification, error)
}

// TxnRunner executes fn atomically: every write made through fn's context
// persists only if fn returns nil. Production wires this to txn.Run against
// the live database.
type TxnRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Coordinator records join requests. Construct with New and share freely;
// it holds no per-request state.
type Coordinator struct {
	coops Directory
	notes Notifier
	run   TxnRunner
	log   *zap.Logger
}

func New(coops Directory, notes Notifier, run TxnRunner, log *zap.Logger) *Coordinator {
	return &Coordinator{coops: coops, notes: notes, run: run, log: log}
}

// RequestToJoin records requester's pending request on the cooperative and
// notifies the cooperative's owner, atomically.
//
// Outcomes:
//   - OutcomeCreated: the request and its notification were written.
//   - OutcomeAlreadyRequested: a pending request from this user already
//     exists, whether found by the dedup read or by the append guard.
//
// Errors:
//   - ErrUserRequired: requester is nil or has no ID; nothing was touched.
//   - ErrWriteFailed: a read or write failed; no partial state remains.
func (c *Coordinator) RequestToJoin(ctx context.Context, requester *Requester, coopID primitive.ObjectID) (Outcome, error) {
	if requester == nil || requester.ID.IsZero() {
		return 0, ErrUserRequired
	}

	// Fresh read so the dedup check sees requests recorded since the
	// caller last looked at the cooperative.
	coop, err := c.coops.GetByID(ctx, coopID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if coop.HasPendingRequest(requester.ID) {
		return OutcomeAlreadyRequested, nil
	}

	now := time.Now().UTC()
	jr := models.JoinRequest{
		UserID:      requester.ID,
		UserName:    requester.Name,
		RequestedAt: now,
		Status:      models.JoinStatusPending,
	}
	note := models.Notification{
		UserID:        coop.CreatedBy,
		Type:          models.TypeCooperativeJoinRequest,
		Title:         "New join request",
		Message:       fmt.Sprintf("%s has requested to join %s.", requester.Name, coop.Name),
		CooperativeID: &coop.ID,
		CreatedAt:     now,
		Action:        models.ActionNone,
	}

	err = c.run(ctx, func(ctx context.Context) error {
		matched, err := c.coops.AppendPendingRequest(ctx, coop.ID, jr)
		if err != nil {
			return err
		}
		if !matched {
			return errAlreadyPending
		}
		if _, err := c.notes.Create(ctx, note); err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, errAlreadyPending) {
		return OutcomeAlreadyRequested, nil
	}
	if err != nil {
		c.log.Warn("join request write failed",
			zap.String("cooperative_id", coop.ID.Hex()),
			zap.String("user_id", requester.ID.Hex()),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	return OutcomeCreated, nil
}
