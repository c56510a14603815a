// Package txn runs a function inside a MongoDB multi-document transaction,
// falling back to plain execution on deployments that cannot support one
// (standalone servers without a replica set).
//
// The fallback keeps local development on a bare mongod working; the
// all-or-nothing guarantee only holds where the server supports sessions.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. Every operation in
// fn must use the context it receives, or it will escape the transaction.
//
// If the server rejects transactions (IsNotSupported), fn is re-run once
// without one and a warning is logged. Any other error aborts and is
// returned; the transaction machinery has already rolled back.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logFallback(log, err)
		return fn(ctx)
	}
	return err
}

func logFallback(log *zap.Logger, err error) {
	if log != nil {
		log.Warn("transactions not supported by this MongoDB deployment, running without transaction",
			zap.Error(err))
	}
}

// notSupportedPairs are keyword pairs that identify a "transactions not
// supported here" failure when the server does not return a typed code.
// Both keywords of a pair must appear in the message.
var notSupportedPairs = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err indicates the deployment cannot run
// multi-document transactions (as opposed to a transaction that failed).
// Typed server codes: 20 (IllegalOperation on standalone), 51
// (IllegalOperation), 263 (OperationNotSupportedInTransaction).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch cmdErr.Code {
		case 20, 51, 263:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pair := range notSupportedPairs {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}
