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

// SubmitCommandHandler runs the full submission pipeline for one
// declaration: voyage eligibility, certificate check, per-triple mutual
// exclusion, dependency gating, dispatch, and outcome recording.
//
// Rejections before dispatch (ineligible voyage, expired certificate,
// unsatisfied dependency, contested triple) create no transaction; they are
// validation failures, not submission attempts.
type SubmitCommandHandler struct {
	dispatcher   *dispatcher
	resolver     *services.DependencyResolver
	voyages      ports.VoyageProvider
	certificates ports.CertificateProvider
}

// NewSubmitCommandHandler creates a handler for declaration submissions.
func NewSubmitCommandHandler(
	uowFactory UoWFactory,
	clients ports.ClientRegistry,
	resolver *services.DependencyResolver,
	voyages ports.VoyageProvider,
	certificates ports.CertificateProvider,
	inFlight *locks.KeyedMutex,
	callTimeout time.Duration,
) SubmitCommandHandler {
	return SubmitCommandHandler{
		dispatcher:   newDispatcher(uowFactory, clients, inFlight, callTimeout),
		resolver:     resolver,
		voyages:      voyages,
		certificates: certificates,
	}
}

// Handle processes the submission and returns the id of the transaction it
// created. The id is returned even when the attempt itself failed, so the
// caller can inspect the recorded outcome.
func (h SubmitCommandHandler) Handle(ctx context.Context, command SubmitCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	request := command.Request()
	certificate, err := h.prepare(ctx, request.VoyageID())
	if err != nil {
		return kernel.UUID{}, err
	}

	txn, err := transaction.NewTransaction(
		kernel.NewUUID(), request.VoyageID(),
		request.Country(), request.WebserviceType(), request.Environment(),
		request.RequestedBy(), transaction.DefaultMaxRetries, time.Now(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	release, err := h.dispatcher.acquire(txn)
	if err != nil {
		return kernel.UUID{}, err
	}
	defer release()

	eligibility, err := h.resolver.CheckEligible(
		ctx, request.VoyageID(), request.Country(), request.WebserviceType(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}
	if !eligibility.Eligible {
		return kernel.UUID{}, errs.NewDependencyNotSatisfiedError(
			request.WebserviceType().String(), typeNames(eligibility.Missing),
		)
	}

	err = h.dispatcher.dispatch(ctx, txn, ports.SendRequest{
		TransactionID:   txn.ID(),
		VoyageID:        request.VoyageID(),
		Country:         request.Country(),
		WebserviceType:  request.WebserviceType(),
		Environment:     request.Environment(),
		CarryForward:    eligibility.CarryForward,
		CertificatePath: certificate.Path,
	})
	return txn.ID(), err
}

// prepare checks that the voyage exists, carries cargo, and has a usable
// signing certificate. All checks run before any transaction is created.
func (h SubmitCommandHandler) prepare(ctx context.Context, voyageID kernel.UUID) (ports.Certificate, error) {
	voyage, err := h.voyages.GetVoyage(ctx, voyageID)
	if err != nil {
		return ports.Certificate{}, err
	}
	if voyage.ContainerCount == 0 || voyage.BillOfLadingCount == 0 {
		return ports.Certificate{}, errs.NewVoyageNotEligibleError(
			voyageID.String(), "voyage needs both containers and bills of lading",
		)
	}

	certificate, err := h.certificates.GetActiveCertificate(ctx, voyage.CompanyID)
	if err != nil {
		return ports.Certificate{}, err
	}
	if !certificate.ExpiresAt.After(time.Now()) {
		return ports.Certificate{}, errs.NewCertificateExpiredError(
			voyage.CompanyID, certificate.ExpiresAt,
		)
	}

	return certificate, nil
}

func typeNames(types []kernel.WebserviceType) []string {
	names := make([]string, 0, len(types))
	for _, wsType := range types {
		names = append(names, wsType.String())
	}
	return names
}
