// internal/app/system/txn/txn.go
// Package txn runs multi-document writes in one atomic scope.
//
// WithTransaction is the unit-of-work entry point for every operation that
// touches a family's member_count together with membership or invite rows.
// The scope travels in the context (mongo.SessionContext), so stores stay
// plain and participate simply by using the ctx they are handed.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction executes fn inside a MongoDB multi-document transaction and
// commits or rolls back as a unit. On deployments without transaction support
// (standalone servers), it degrades to running fn once outside a session;
// callers must keep their guarded writes (conditional updates, unique
// indexes) correct without isolation, which the invite workflow does.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		// First write inside the transaction failed before anything landed.
		return fn(ctx)
	}
	return err
}

// Server error codes that signal "transactions not available here".
const (
	codeIllegalOperation      = 20
	codeCommandNotFound       = 51
	codeOperationNotSupported = 263
)

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions (standalone mongod, very old versions).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeIllegalOperation, codeCommandNotFound, codeOperationNotSupported:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}
