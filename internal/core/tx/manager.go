// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a concrete database
// implementation; the implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested calls.
//
// In this subsystem the only operation requiring an explicit transaction is
// sales-point sequence allocation: the read-increment-write triplet must hold
// a row lock so that two concurrent allocations for the same sales point
// never observe the same current value.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
