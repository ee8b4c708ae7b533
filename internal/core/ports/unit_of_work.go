package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command so concurrent
// submissions never share transaction state.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the business transaction boundary. A completed attempt, its
// issued tracks, and the recomputed status row commit or roll back together.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Safe to defer after a
	// commit; rolling back a committed transaction is a no-op.
	Rollback(ctx context.Context) error

	// TransactionRepository returns a ledger repository bound to the current
	// transaction.
	TransactionRepository() TransactionRepository

	// StatusRepository returns a projection repository bound to the current
	// transaction.
	StatusRepository() StatusRepository

	// TrackRepository returns a track repository bound to the current
	// transaction.
	TrackRepository() TrackRepository
}
