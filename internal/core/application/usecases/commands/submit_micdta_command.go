package commands

import (
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrSubmitMicDtaCommandIsNotConstructed is returned when a
// SubmitMicDtaCommand was not created via its constructor.
var ErrSubmitMicDtaCommandIsNotConstructed = errors.New(
	"SubmitMicDtaCommand must be created via NewSubmitMicDtaCommand constructor",
)

// SubmitMicDtaCommand requests step two of the Argentine two-phase flow: the
// MIC/DTA manifest built on the tracks issued by an earlier "Títulos y
// Envíos" submission. The operator names that step-one transaction
// explicitly; the flow is never chained automatically.
type SubmitMicDtaCommand struct { //nolint:recvcheck //using for validation
	voyageID             kernel.UUID
	stepOneTransactionID kernel.UUID
	environment          kernel.Environment
	requestedBy          string

	guard guard.ConstructorGuard
}

// NewSubmitMicDtaCommand creates a command to submit the MIC/DTA for a
// voyage, confirming the step-one transaction whose tracks it must carry.
func NewSubmitMicDtaCommand(
	voyageID kernel.UUID,
	stepOneTransactionID kernel.UUID,
	environment kernel.Environment,
	requestedBy string,
) (SubmitMicDtaCommand, error) {
	command := SubmitMicDtaCommand{
		requestedBy: requestedBy,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setVoyageID(voyageID),
		command.setStepOneTransactionID(stepOneTransactionID),
		command.setEnvironment(environment),
	); err != nil {
		return SubmitMicDtaCommand{}, err
	}

	if requestedBy == "" {
		return SubmitMicDtaCommand{}, errs.NewValueIsRequiredError("requestedBy")
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitMicDtaCommand) Validate() error {
	return c.guard.Validate(ErrSubmitMicDtaCommandIsNotConstructed)
}

// VoyageID returns the voyage being manifested.
func (c SubmitMicDtaCommand) VoyageID() kernel.UUID {
	return c.voyageID
}

// StepOneTransactionID returns the confirmed "Títulos y Envíos" transaction.
func (c SubmitMicDtaCommand) StepOneTransactionID() kernel.UUID {
	return c.stepOneTransactionID
}

// Environment returns the target environment.
func (c SubmitMicDtaCommand) Environment() kernel.Environment {
	return c.environment
}

// RequestedBy returns the operator confirming the checkpoint.
func (c SubmitMicDtaCommand) RequestedBy() string {
	return c.requestedBy
}

func (c *SubmitMicDtaCommand) setVoyageID(voyageID kernel.UUID) error {
	if err := voyageID.Validate(); err != nil {
		return err
	}

	c.voyageID = voyageID
	return nil
}

func (c *SubmitMicDtaCommand) setStepOneTransactionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.stepOneTransactionID = id
	return nil
}

func (c *SubmitMicDtaCommand) setEnvironment(environment kernel.Environment) error {
	if err := environment.Validate(); err != nil {
		return err
	}

	c.environment = environment
	return nil
}
