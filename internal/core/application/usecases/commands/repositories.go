// Package commands contains the write-side operations of the orchestrator:
// submitting declarations, retrying failed attempts, batch fan-out, and
// expiring stale statuses. All handlers follow the same shape: validate the
// command, run the business transaction through a unit of work, commit or
// roll back as a whole.
package commands

import (
	"context"

	"customs/internal/core/ports"
)

// Unit of Work interfaces used by the command handlers. A submission outcome
// touches the ledger, the track table, and the status projection; they commit
// together or not at all.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// LedgerRepoFactory provides the transaction ledger within a unit of
	// work.
	LedgerRepoFactory interface {
		TransactionRepository() ports.TransactionRepository
	}

	// StatusRepoFactory provides the status projection store within a unit
	// of work.
	StatusRepoFactory interface {
		StatusRepository() ports.StatusRepository
	}

	// TrackRepoFactory provides the track store within a unit of work.
	TrackRepoFactory interface {
		TrackRepository() ports.TrackRepository
	}

	// UoW groups all three stores under one transaction boundary.
	UoW interface {
		TxManager
		LedgerRepoFactory
		StatusRepoFactory
		TrackRepoFactory
	}

	// UoWFactory creates a fresh UoW per command.
	UoWFactory interface {
		Create() UoW
	}
)
