package commands

import (
	"context"
	"time"
)

// ExpireStaleStatusesCommandHandler sweeps the status projection and expires
// rows stuck in a non-terminal state past the staleness window. Expiry is a
// projection-level close-out; the ledger keeps the attempt history as it
// was.
type ExpireStaleStatusesCommandHandler struct {
	uowFactory UoWFactory
}

// NewExpireStaleStatusesCommandHandler creates a handler for the expiry
// sweep.
func NewExpireStaleStatusesCommandHandler(uowFactory UoWFactory) ExpireStaleStatusesCommandHandler {
	return ExpireStaleStatusesCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle expires every stale row and returns how many were closed out.
func (h ExpireStaleStatusesCommandHandler) Handle(ctx context.Context, command ExpireStaleStatusesCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	now := time.Now()
	cutoff := now.Add(-command.OlderThan())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stale, err := uow.StatusRepository().GetStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, row := range stale {
		if err = row.Expire(now); err != nil {
			// Rows that cannot expire from their current state are left
			// for the next sweep or for an operator action.
			continue
		}
		if err = uow.StatusRepository().Upsert(ctx, row); err != nil {
			return 0, err
		}
		expired++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return expired, nil
}
