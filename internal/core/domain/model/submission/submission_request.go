// Package submission contains the SubmissionRequest value object: one user-
// or batch-initiated intent to send a specific declaration for a specific
// voyage. A request is immutable once accepted by the orchestrator; retries
// never mutate it, they produce new transactions in the ledger.
package submission

import (
	"errors"
	"fmt"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrSubmissionRequestIsNotConstructed is returned when a SubmissionRequest
// was not created through NewSubmissionRequest.
var ErrSubmissionRequestIsNotConstructed = errors.New("SubmissionRequest must be created via NewSubmissionRequest")

// Priority orders competing submissions; high-priority requests are dispatched
// ahead of normal ones by batch jobs.
type Priority string

const (
	// PriorityNormal is the default.
	PriorityNormal Priority = "normal"

	// PriorityHigh marks time-critical filings (vessel already at berth).
	PriorityHigh Priority = "high"
)

// Validate rejects values outside the priority set.
func (p Priority) Validate() error {
	switch p {
	case PriorityNormal, PriorityHigh:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%q is not a valid priority", string(p)))
	}
}

// String returns the priority name.
func (p Priority) String() string {
	return string(p)
}

// SubmissionRequest is the immutable intent to send one declaration.
type SubmissionRequest struct {
	voyageID    kernel.UUID
	country     kernel.Country
	wsType      kernel.WebserviceType
	environment kernel.Environment
	priority    Priority
	requestedBy string

	guard guard.ConstructorGuard
}

// NewSubmissionRequest creates a validated SubmissionRequest. The webservice
// type must belong to the target country; an empty priority defaults to
// normal.
func NewSubmissionRequest(
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	environment kernel.Environment,
	priority Priority,
	requestedBy string,
) (SubmissionRequest, error) {
	if priority == "" {
		priority = PriorityNormal
	}

	request := SubmissionRequest{
		priority:    priority,
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		request.setVoyageID(voyageID),
		request.setTarget(country, wsType),
		request.setEnvironment(environment),
		priority.Validate(),
	); err != nil {
		return SubmissionRequest{}, err
	}

	if requestedBy == "" {
		return SubmissionRequest{}, errs.NewValueIsRequiredError("requestedBy")
	}

	return request, nil
}

// Validate ensures the request was created through its constructor.
func (r SubmissionRequest) Validate() error {
	return r.guard.Validate(ErrSubmissionRequestIsNotConstructed)
}

// VoyageID returns the voyage being declared.
func (r SubmissionRequest) VoyageID() kernel.UUID {
	return r.voyageID
}

// Country returns the target customs authority.
func (r SubmissionRequest) Country() kernel.Country {
	return r.country
}

// WebserviceType returns the declaration message type.
func (r SubmissionRequest) WebserviceType() kernel.WebserviceType {
	return r.wsType
}

// Environment returns the target environment.
func (r SubmissionRequest) Environment() kernel.Environment {
	return r.environment
}

// Priority returns the dispatch priority.
func (r SubmissionRequest) Priority() Priority {
	return r.priority
}

// RequestedBy returns the identity that initiated the submission.
func (r SubmissionRequest) RequestedBy() string {
	return r.requestedBy
}

func (r *SubmissionRequest) setVoyageID(voyageID kernel.UUID) error {
	if err := voyageID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("voyageID", err)
	}
	r.voyageID = voyageID
	return nil
}

func (r *SubmissionRequest) setTarget(country kernel.Country, wsType kernel.WebserviceType) error {
	if err := country.Validate(); err != nil {
		return err
	}
	if err := wsType.Validate(); err != nil {
		return err
	}
	if !wsType.BelongsTo(country) {
		return errs.NewValueIsInvalidErrorWithCause("webserviceType",
			fmt.Errorf("%s does not belong to country %s", wsType, country))
	}
	r.country = country
	r.wsType = wsType
	return nil
}

func (r *SubmissionRequest) setEnvironment(environment kernel.Environment) error {
	if err := environment.Validate(); err != nil {
		return err
	}
	r.environment = environment
	return nil
}
