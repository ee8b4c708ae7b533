package ports

import (
	"context"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
)

// TrackRepository is the persistence contract for authority-issued
// identifiers. Tracks are written once, as part of the unit of work that
// completes their originating transaction, and read by dependent
// submissions.
type TrackRepository interface {
	// AddAll persists the identifiers issued by one successful transaction.
	AddAll(ctx context.Context, tracks []track.TrackIdentifier) error

	// ListByTransactionID retrieves the identifiers issued by a transaction.
	ListByTransactionID(ctx context.Context, transactionID kernel.UUID) ([]track.TrackIdentifier, error)
}
