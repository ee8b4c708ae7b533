package commands

import (
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/submission"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrBatchSubmitCommandIsNotConstructed is returned when a
// BatchSubmitCommand was not created via its constructor.
var ErrBatchSubmitCommandIsNotConstructed = errors.New(
	"BatchSubmitCommand must be created via NewBatchSubmitCommand constructor",
)

// BatchSubmitCommand requests the same declaration type for several voyages
// at once. Each voyage is submitted independently; one failure never blocks
// the others.
type BatchSubmitCommand struct { //nolint:recvcheck //using for validation
	voyageIDs   []kernel.UUID
	country     kernel.Country
	wsType      kernel.WebserviceType
	environment kernel.Environment
	requestedBy string

	guard guard.ConstructorGuard
}

// NewBatchSubmitCommand creates a command to submit one declaration type for
// every listed voyage.
func NewBatchSubmitCommand(
	voyageIDs []kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	environment kernel.Environment,
	requestedBy string,
) (BatchSubmitCommand, error) {
	if len(voyageIDs) == 0 {
		return BatchSubmitCommand{}, errs.NewValueIsRequiredError("voyageIDs")
	}
	for _, voyageID := range voyageIDs {
		if err := voyageID.Validate(); err != nil {
			return BatchSubmitCommand{}, err
		}
	}
	if !wsType.BelongsTo(country) {
		return BatchSubmitCommand{}, errs.NewValueIsInvalidError("webserviceType")
	}
	if wsType == kernel.WebserviceMicDta {
		return BatchSubmitCommand{}, ErrMicDtaNeedsCheckpoint
	}
	if err := environment.Validate(); err != nil {
		return BatchSubmitCommand{}, err
	}
	if requestedBy == "" {
		return BatchSubmitCommand{}, errs.NewValueIsRequiredError("requestedBy")
	}

	ids := make([]kernel.UUID, len(voyageIDs))
	copy(ids, voyageIDs)

	return BatchSubmitCommand{
		voyageIDs:   ids,
		country:     country,
		wsType:      wsType,
		environment: environment,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c BatchSubmitCommand) Validate() error {
	return c.guard.Validate(ErrBatchSubmitCommandIsNotConstructed)
}

// VoyageIDs returns the voyages to submit.
func (c BatchSubmitCommand) VoyageIDs() []kernel.UUID {
	return c.voyageIDs
}

// SubmitCommandFor builds the per-voyage submit command for one entry of the
// batch.
func (c BatchSubmitCommand) SubmitCommandFor(voyageID kernel.UUID) (SubmitCommand, error) {
	return NewSubmitCommand(
		voyageID, c.country, c.wsType, c.environment,
		submission.PriorityNormal, c.requestedBy,
	)
}
