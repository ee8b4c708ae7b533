package ports

import (
	"context"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"
)

// StatusRepository is the persistence contract for the per-triple status
// projection. There is at most one row per (voyage, country, type) triple.
type StatusRepository interface {
	// Upsert inserts the row or replaces the existing one, guarded by
	// optimistic concurrency: the stored version must be exactly one below
	// the new row's version. A mismatch means a concurrent recompute won and
	// surfaces as a concurrency conflict.
	Upsert(ctx context.Context, status *wsstatus.WebserviceStatus) error

	// GetByTriple retrieves the row for one triple.
	GetByTriple(ctx context.Context, voyageID kernel.UUID, country kernel.Country,
		wsType kernel.WebserviceType) (*wsstatus.WebserviceStatus, error)

	// GetAllByVoyage retrieves every status row of a voyage across both
	// countries.
	GetAllByVoyage(ctx context.Context, voyageID kernel.UUID) ([]*wsstatus.WebserviceStatus, error)

	// GetStale retrieves non-terminal rows not updated since the cutoff.
	// The expiry job closes them out as Expired.
	GetStale(ctx context.Context, cutoff time.Time) ([]*wsstatus.WebserviceStatus, error)
}
