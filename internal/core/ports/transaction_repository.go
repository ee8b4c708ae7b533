// Package ports defines the contracts between the customs core and its
// adapters: persistence of the transaction ledger and status projections,
// authority webservice clients, and the external collaborators the
// orchestrator consults before dispatching.
package ports

import (
	"context"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
)

// TransactionRepository is the persistence contract for the submission
// ledger. The ledger is append-only at the attempt level: rows are added in
// Pending status and updated exactly once with their outcome; terminal rows
// never change again.
type TransactionRepository interface {
	// Add persists a new attempt. Fails if a row with the same id already
	// exists.
	Add(ctx context.Context, txn *transaction.Transaction) error

	// Update completes an attempt in place with its outcome. Updating a row
	// that is already terminal is a persistence-level error.
	Update(ctx context.Context, txn *transaction.Transaction) error

	// Get retrieves one attempt by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error)

	// GetAllByTriple retrieves the full attempt history of one
	// (voyage, country, type) triple, ordered oldest first.
	GetAllByTriple(ctx context.Context, voyageID kernel.UUID, country kernel.Country,
		wsType kernel.WebserviceType) ([]*transaction.Transaction, error)

	// GetRetryCandidates retrieves failed attempts that are the latest of
	// their triple, carry an automatically retriable fault, do not need
	// operator review, and still have retry budget. The dispatch job decides
	// from the response timestamp whether each candidate is due.
	GetRetryCandidates(ctx context.Context) ([]*transaction.Transaction, error)
}
