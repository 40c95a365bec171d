// internal/app/system/txn/txn.go
//
// Package txn wraps multi-document MongoDB transactions with a
// detection helper for deployments that cannot run them (standalone
// servers, some DocumentDB versions). Callers that need atomicity
// across collections try the transaction first and fall back to a
// compensating-action sequence when IsNotSupported reports true.
package txn

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction. The callback's
// context must be used for every operation that should be part of the
// transaction.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Transaction-related server error codes:
//   20  IllegalOperation (transaction numbers only on replica set members)
//   51  standalone servers rejecting session/transaction operations
//   263 OperationNotSupportedInTransaction
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err indicates the deployment cannot
// run multi-document transactions. It checks known command error codes
// first, then falls back to message probing for drivers and proxies
// that wrap the original error.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if ok := errorAs(err, &cmdErr); ok {
		if notSupportedCodes[cmdErr.Code] {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	if has("transaction") && (has("replica set") || has("session") || has("illegal operation")) {
		return true
	}
	if has("session") && has("not supported") {
		return true
	}
	return false
}

// errorAs matches a mongo.CommandError whether it arrives by value or
// wrapped. mongo.CommandError implements error by value, so a plain
// type assertion covers the driver's own returns.
func errorAs(err error, target *mongo.CommandError) bool {
	if ce, ok := err.(mongo.CommandError); ok {
		*target = ce
		return true
	}
	return false
}
