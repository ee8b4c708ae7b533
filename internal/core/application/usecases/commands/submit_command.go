package commands

import (
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/submission"
	"customs/internal/pkg/guard"
)

// ErrSubmitCommandIsNotConstructed is returned when a SubmitCommand was not
// created via its constructor.
var ErrSubmitCommandIsNotConstructed = errors.New(
	"SubmitCommand must be created via NewSubmitCommand constructor",
)

// ErrMicDtaNeedsCheckpoint is returned when the generic submit flow is asked
// to send a MIC/DTA. The MIC/DTA is the second step of a two-phase flow and
// must go through its dedicated command so the operator confirms the tracks
// issued by step one.
var ErrMicDtaNeedsCheckpoint = errors.New(
	"MIC/DTA must be submitted through the two-phase flow with the step-one transaction id",
)

// SubmitCommand requests one declaration dispatch for a voyage.
type SubmitCommand struct { //nolint:recvcheck //using for validation
	request submission.SubmissionRequest

	guard guard.ConstructorGuard
}

// NewSubmitCommand creates a command to submit a declaration. The webservice
// type must belong to the target country and must not be the MIC/DTA, which
// has its own two-phase command.
func NewSubmitCommand(
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	environment kernel.Environment,
	priority submission.Priority,
	requestedBy string,
) (SubmitCommand, error) {
	if wsType == kernel.WebserviceMicDta {
		return SubmitCommand{}, ErrMicDtaNeedsCheckpoint
	}

	request, err := submission.NewSubmissionRequest(
		voyageID, country, wsType, environment, priority, requestedBy,
	)
	if err != nil {
		return SubmitCommand{}, err
	}

	return SubmitCommand{
		request: request,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitCommand) Validate() error {
	return c.guard.Validate(ErrSubmitCommandIsNotConstructed)
}

// Request returns the validated submission request.
func (c SubmitCommand) Request() submission.SubmissionRequest {
	return c.request
}
