package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/core/domain/services"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/locks"
)

// DefaultCallTimeout bounds one authority call. Customs endpoints are slow;
// AFIP regularly takes tens of seconds under load.
const DefaultCallTimeout = 60 * time.Second

// tripleKey builds the mutual exclusion key for one
// (voyage, country, webservice type) triple.
func tripleKey(voyageID kernel.UUID, country kernel.Country, wsType kernel.WebserviceType) string {
	return fmt.Sprintf("%s|%s|%s", voyageID, country, wsType)
}

// dispatcher runs the shared dispatch pipeline behind every submit-style
// command: persist the Pending attempt, execute the authority call under a
// deadline, and record the outcome together with the recomputed status row
// in one unit of work.
type dispatcher struct {
	uowFactory  UoWFactory
	clients     ports.ClientRegistry
	projector   *services.StatusProjector
	inFlight    *locks.KeyedMutex
	callTimeout time.Duration
}

func newDispatcher(uowFactory UoWFactory, clients ports.ClientRegistry,
	inFlight *locks.KeyedMutex, callTimeout time.Duration) *dispatcher {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &dispatcher{
		uowFactory:  uowFactory,
		clients:     clients,
		projector:   services.NewStatusProjector(),
		inFlight:    inFlight,
		callTimeout: callTimeout,
	}
}

// acquire claims the in-flight slot of the attempt's triple. Returns a
// ConcurrencyConflict error when another submission already holds it.
func (d *dispatcher) acquire(txn *transaction.Transaction) (release func(), err error) {
	key := tripleKey(txn.VoyageID(), txn.Country(), txn.WebserviceType())
	if !d.inFlight.TryLock(key) {
		return nil, errs.NewConcurrencyConflictError(key)
	}
	return func() { d.inFlight.Unlock(key) }, nil
}

// dispatch executes one prepared Pending attempt end to end. The attempt is
// persisted before the network call so that no outcome is ever lost; whatever
// happens on the wire, the ledger ends up with exactly one completed row.
//
// A failure to record the outcome of a call that already reached the
// authority is reported as a SubmissionInconsistency error so the operator
// knows the authority may hold state the ledger does not show.
func (d *dispatcher) dispatch(ctx context.Context, txn *transaction.Transaction,
	sendRequest ports.SendRequest) error {
	// Caller cancellation only stops attempts that have not started. From
	// here the dispatch runs on a detached context: aborting a call already
	// on the wire would leave the authority holding state the ledger cannot
	// explain, and the outcome must be recorded either way.
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	if err := d.persistPending(ctx, txn); err != nil {
		return err
	}

	client, err := d.clients.ClientFor(txn.Country(), txn.WebserviceType())
	if err != nil {
		completeErr := d.complete(ctx, txn, ports.SendResult{}, err)
		if completeErr != nil {
			return completeErr
		}
		return err
	}

	if err = txn.MarkSent(time.Now()); err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	result, sendErr := client.Send(callCtx, sendRequest)
	cancel()

	if completeErr := d.complete(ctx, txn, result, sendErr); completeErr != nil {
		if sendErr == nil {
			return errs.NewSubmissionInconsistencyError(txn.ID().String(), completeErr)
		}
		return completeErr
	}
	return sendErr
}

// persistPending stores the new attempt and projects the triple's status
// before anything goes over the wire.
func (d *dispatcher) persistPending(ctx context.Context, txn *transaction.Transaction) error {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TransactionRepository().Add(ctx, txn); err != nil {
		return err
	}

	if err := d.recomputeStatus(ctx, uow, txn); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// complete writes the attempt's outcome, its issued tracks, and the
// recomputed status row in one transaction.
func (d *dispatcher) complete(ctx context.Context, txn *transaction.Transaction,
	result ports.SendResult, sendErr error) error {
	now := time.Now()
	if sendErr == nil {
		if err := txn.MarkSuccess(now, result.ConfirmationNumber, result.RawRequest, result.RawResponse); err != nil {
			return err
		}
	} else {
		info, responsePayload := classifyFault(sendErr, result.RawResponse)
		if err := txn.MarkFailed(now, result.RawRequest, responsePayload, info); err != nil {
			return err
		}
	}

	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.TransactionRepository().Update(ctx, txn); err != nil {
		return err
	}

	if sendErr == nil && len(result.Tracks) > 0 {
		if err := uow.TrackRepository().AddAll(ctx, result.Tracks); err != nil {
			return err
		}
	}

	if err := d.recomputeStatus(ctx, uow, txn); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recomputeStatus folds the triple's full history into a fresh status
// revision inside the given unit of work.
func (d *dispatcher) recomputeStatus(ctx context.Context, uow UoW, txn *transaction.Transaction) error {
	history, err := uow.TransactionRepository().GetAllByTriple(
		ctx, txn.VoyageID(), txn.Country(), txn.WebserviceType(),
	)
	if err != nil {
		return err
	}

	prior, err := uow.StatusRepository().GetByTriple(
		ctx, txn.VoyageID(), txn.Country(), txn.WebserviceType(),
	)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	var priorRow *wsstatus.WebserviceStatus
	if err == nil {
		priorRow = prior
	}

	row, err := d.projector.Project(
		txn.VoyageID(), txn.Country(), txn.WebserviceType(),
		history, priorRow, time.Now(),
	)
	if err != nil {
		return err
	}

	return uow.StatusRepository().Upsert(ctx, row)
}

// classifyFault maps a client error onto the ledger's fault taxonomy and
// extracts whatever response payload is worth preserving.
func classifyFault(sendErr error, rawResponse string) (transaction.ErrorInfo, string) {
	info := transaction.ErrorInfo{Message: sendErr.Error(), Fault: transaction.FaultUnknown}

	var rejected *errs.AuthorityRejectedError
	var malformed *errs.MalformedResponseError
	switch {
	case errors.Is(sendErr, errs.ErrNetworkTimeout),
		errors.Is(sendErr, context.DeadlineExceeded):
		info.Fault = transaction.FaultNetworkTimeout
	case errors.Is(sendErr, errs.ErrTransport):
		info.Fault = transaction.FaultTransport
	case errors.As(sendErr, &rejected):
		info.Fault = transaction.FaultAuthorityRejected
		info.Code = rejected.Code
		info.Message = rejected.Message
		info.Details = rejected.Details
	case errors.As(sendErr, &malformed):
		info.Fault = transaction.FaultMalformedResponse
		if malformed.RawResponse != "" {
			rawResponse = malformed.RawResponse
		}
	}

	return info, rawResponse
}
