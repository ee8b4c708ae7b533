package commands

import (
	"context"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/services"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/locks"
)

// RetryCommandHandler creates a follow-up attempt for a failed transaction.
// Only the latest attempt of a triple can be retried, only while retry
// budget remains, and only when the recovery policy classifies the fault as
// retriable. Authority rejections and malformed responses are refused; they
// need corrected input or operator review, not a repeat of the same call.
type RetryCommandHandler struct {
	uowFactory   UoWFactory
	dispatcher   *dispatcher
	resolver     *services.DependencyResolver
	policy       *services.RetryPolicy
	voyages      ports.VoyageProvider
	certificates ports.CertificateProvider
}

// NewRetryCommandHandler creates a handler for retry requests.
func NewRetryCommandHandler(
	uowFactory UoWFactory,
	clients ports.ClientRegistry,
	resolver *services.DependencyResolver,
	policy *services.RetryPolicy,
	voyages ports.VoyageProvider,
	certificates ports.CertificateProvider,
	inFlight *locks.KeyedMutex,
	callTimeout time.Duration,
) RetryCommandHandler {
	return RetryCommandHandler{
		uowFactory:   uowFactory,
		dispatcher:   newDispatcher(uowFactory, clients, inFlight, callTimeout),
		resolver:     resolver,
		policy:       policy,
		voyages:      voyages,
		certificates: certificates,
	}
}

// Handle processes the retry and returns the id of the new transaction.
func (h RetryCommandHandler) Handle(ctx context.Context, command RetryCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	parent, err := h.loadRetriableParent(ctx, command.TransactionID())
	if err != nil {
		return kernel.UUID{}, err
	}

	voyage, err := h.voyages.GetVoyage(ctx, parent.VoyageID())
	if err != nil {
		return kernel.UUID{}, err
	}

	certificate, err := h.certificates.GetActiveCertificate(ctx, voyage.CompanyID)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !certificate.ExpiresAt.After(time.Now()) {
		return kernel.UUID{}, errs.NewCertificateExpiredError(voyage.CompanyID, certificate.ExpiresAt)
	}

	retry, err := transaction.NewRetry(kernel.NewUUID(), parent, time.Now())
	if err != nil {
		return kernel.UUID{}, err
	}

	release, err := h.dispatcher.acquire(retry)
	if err != nil {
		return kernel.UUID{}, err
	}
	defer release()

	eligibility, err := h.resolver.CheckEligible(
		ctx, retry.VoyageID(), retry.Country(), retry.WebserviceType(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !eligibility.Eligible {
		return kernel.UUID{}, errs.NewDependencyNotSatisfiedError(
			retry.WebserviceType().String(), typeNames(eligibility.Missing),
		)
	}

	err = h.dispatcher.dispatch(ctx, retry, ports.SendRequest{
		TransactionID:   retry.ID(),
		VoyageID:        retry.VoyageID(),
		Country:         retry.Country(),
		WebserviceType:  retry.WebserviceType(),
		Environment:     retry.Environment(),
		CarryForward:    eligibility.CarryForward,
		CertificatePath: certificate.Path,
	})
	return retry.ID(), err
}

// loadRetriableParent loads the failed transaction and refuses the retry
// unless it is the latest attempt of its triple with a retriable verdict.
func (h RetryCommandHandler) loadRetriableParent(ctx context.Context,
	transactionID kernel.UUID) (*transaction.Transaction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	parent, err := uow.TransactionRepository().Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if parent.Status() != transaction.Error {
		return nil, errs.NewRetryNotPermittedError(transactionID.String(),
			"only failed transactions can be retried")
	}

	history, err := uow.TransactionRepository().GetAllByTriple(
		ctx, parent.VoyageID(), parent.Country(), parent.WebserviceType(),
	)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 && !history[len(history)-1].IsEqual(parent) {
		return nil, errs.NewRetryNotPermittedError(transactionID.String(),
			"a newer attempt already exists for this declaration")
	}

	action, err := h.policy.Evaluate(parent)
	if err != nil {
		return nil, err
	}
	switch action.Kind {
	case services.ActionRetryAfter:
		// retry allowed
	case services.ActionGiveUp:
		return nil, errs.NewRetryNotPermittedError(transactionID.String(),
			"retry budget exhausted")
	case services.ActionFixAndResubmit:
		return nil, errs.NewRetryNotPermittedError(transactionID.String(),
			"the authority rejected the declaration; correct the data and submit again")
	default:
		return nil, errs.NewRetryNotPermittedError(transactionID.String(),
			"the outcome needs manual review before any retry")
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return parent, nil
}
