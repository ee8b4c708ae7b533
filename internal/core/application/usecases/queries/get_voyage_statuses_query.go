// Package queries contains the read-side operations of the orchestrator.
// Query handlers read the database directly and return flat response
// structures; they never touch domain aggregates.
package queries

import (
	"errors"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/guard"
)

var ErrGetVoyageStatusesQueryIsNotConstructed = errors.New(
	"GetVoyageStatusesQuery must be created via NewGetVoyageStatusesQuery constructor",
)

// GetVoyageStatusesQuery retrieves the declaration tracks of one voyage
// across both countries, as shown on the voyage detail screen.
type GetVoyageStatusesQuery struct {
	voyageID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetVoyageStatusesQuery creates a query for one voyage's statuses.
func NewGetVoyageStatusesQuery(voyageID kernel.UUID) (GetVoyageStatusesQuery, error) {
	if err := voyageID.Validate(); err != nil {
		return GetVoyageStatusesQuery{}, err
	}

	return GetVoyageStatusesQuery{
		voyageID: voyageID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetVoyageStatusesQuery) Validate() error {
	return q.guard.Validate(ErrGetVoyageStatusesQueryIsNotConstructed)
}

// VoyageID returns the voyage being inspected.
func (q GetVoyageStatusesQuery) VoyageID() kernel.UUID {
	return q.voyageID
}

// GetVoyageStatusesQueryResponse is one declaration track of the voyage.
type GetVoyageStatusesQueryResponse struct {
	VoyageID           kernel.UUID
	Country            string
	WebserviceType     string
	Status             string
	LastSentAt         *time.Time
	ConfirmationNumber string
	RetryCount         int
	MaxRetries         int
	LastError          string
	LastTransactionID  *kernel.UUID
	UpdatedAt          time.Time
}
