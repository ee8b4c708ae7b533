package commands

import (
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrRetryCommandIsNotConstructed is returned when a RetryCommand was not
// created via its constructor.
var ErrRetryCommandIsNotConstructed = errors.New(
	"RetryCommand must be created via NewRetryCommand constructor",
)

// RetryCommand requests a new attempt for a failed transaction.
type RetryCommand struct { //nolint:recvcheck //using for validation
	transactionID kernel.UUID
	requestedBy   string

	guard guard.ConstructorGuard
}

// NewRetryCommand creates a command to retry the failed transaction.
func NewRetryCommand(transactionID kernel.UUID, requestedBy string) (RetryCommand, error) {
	if err := transactionID.Validate(); err != nil {
		return RetryCommand{}, err
	}
	if requestedBy == "" {
		return RetryCommand{}, errs.NewValueIsRequiredError("requestedBy")
	}

	return RetryCommand{
		transactionID: transactionID,
		requestedBy:   requestedBy,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RetryCommand) Validate() error {
	return c.guard.Validate(ErrRetryCommandIsNotConstructed)
}

// TransactionID returns the failed transaction to retry.
func (c RetryCommand) TransactionID() kernel.UUID {
	return c.transactionID
}

// RequestedBy returns who requested the retry.
func (c RetryCommand) RequestedBy() string {
	return c.requestedBy
}
