package commands

import (
	"errors"
	"time"

	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrExpireStaleStatusesCommandIsNotConstructed is returned when an
// ExpireStaleStatusesCommand was not created via its constructor.
var ErrExpireStaleStatusesCommandIsNotConstructed = errors.New(
	"ExpireStaleStatusesCommand must be created via NewExpireStaleStatusesCommand constructor",
)

// ExpireStaleStatusesCommand closes out declarations that have sat in a
// non-terminal state longer than the staleness window.
type ExpireStaleStatusesCommand struct { //nolint:recvcheck //using for validation
	olderThan time.Duration

	guard guard.ConstructorGuard
}

// NewExpireStaleStatusesCommand creates a command to expire every
// non-terminal status row not touched for olderThan.
func NewExpireStaleStatusesCommand(olderThan time.Duration) (ExpireStaleStatusesCommand, error) {
	if olderThan <= 0 {
		return ExpireStaleStatusesCommand{}, errs.NewValueIsRequiredError("olderThan")
	}

	return ExpireStaleStatusesCommand{
		olderThan: olderThan,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireStaleStatusesCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleStatusesCommandIsNotConstructed)
}

// OlderThan returns the staleness window.
func (c ExpireStaleStatusesCommand) OlderThan() time.Duration {
	return c.olderThan
}
