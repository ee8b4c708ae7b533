package commands

import (
	"context"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/locks"
)

// SubmitMicDtaCommandHandler runs step two of the Argentine flow. It loads
// the confirmed step-one transaction, verifies it is a successful "Títulos y
// Envíos" for the same voyage, carries its tracks into the MIC/DTA request,
// and dispatches it through the shared pipeline.
type SubmitMicDtaCommandHandler struct {
	uowFactory   UoWFactory
	dispatcher   *dispatcher
	voyages      ports.VoyageProvider
	certificates ports.CertificateProvider
}

// NewSubmitMicDtaCommandHandler creates a handler for MIC/DTA submissions.
func NewSubmitMicDtaCommandHandler(
	uowFactory UoWFactory,
	clients ports.ClientRegistry,
	voyages ports.VoyageProvider,
	certificates ports.CertificateProvider,
	inFlight *locks.KeyedMutex,
	callTimeout time.Duration,
) SubmitMicDtaCommandHandler {
	return SubmitMicDtaCommandHandler{
		uowFactory:   uowFactory,
		dispatcher:   newDispatcher(uowFactory, clients, inFlight, callTimeout),
		voyages:      voyages,
		certificates: certificates,
	}
}

// Handle processes the MIC/DTA submission and returns the id of the
// transaction it created.
func (h SubmitMicDtaCommandHandler) Handle(ctx context.Context, command SubmitMicDtaCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	carryForward, err := h.loadStepOneTracks(ctx, command)
	if err != nil {
		return kernel.UUID{}, err
	}

	voyage, err := h.voyages.GetVoyage(ctx, command.VoyageID())
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

	txn, err := transaction.NewTransaction(
		kernel.NewUUID(), command.VoyageID(),
		kernel.CountryAR, kernel.WebserviceMicDta, command.Environment(),
		command.RequestedBy(), transaction.DefaultMaxRetries, time.Now(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	release, err := h.dispatcher.acquire(txn)
	if err != nil {
		return kernel.UUID{}, err
	}
	defer release()

	err = h.dispatcher.dispatch(ctx, txn, ports.SendRequest{
		TransactionID:   txn.ID(),
		VoyageID:        command.VoyageID(),
		Country:         kernel.CountryAR,
		WebserviceType:  kernel.WebserviceMicDta,
		Environment:     command.Environment(),
		CarryForward:    carryForward,
		CertificatePath: certificate.Path,
	})
	return txn.ID(), err
}

// loadStepOneTracks verifies the confirmed transaction and returns the
// tracks it issued. A successful step one whose tracks were never recorded
// does not satisfy the dependency.
func (h SubmitMicDtaCommandHandler) loadStepOneTracks(ctx context.Context,
	command SubmitMicDtaCommand) ([]track.TrackIdentifier, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stepOne, err := uow.TransactionRepository().Get(ctx, command.StepOneTransactionID())
	if err != nil {
		return nil, err
	}

	micdta := kernel.WebserviceMicDta.String()
	if stepOne.WebserviceType() != kernel.WebserviceTitEnvios ||
		stepOne.Status() != transaction.Success {
		return nil, errs.NewDependencyNotSatisfiedError(micdta,
			[]string{kernel.WebserviceTitEnvios.String()})
	}
	if !stepOne.VoyageID().IsEqual(command.VoyageID()) {
		return nil, errs.NewValueIsInvalidError("stepOneTransactionID")
	}

	tracks, err := uow.TrackRepository().ListByTransactionID(ctx, stepOne.ID())
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, errs.NewDependencyNotSatisfiedError(micdta,
			[]string{kernel.WebserviceTitEnvios.String()})
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return tracks, nil
}
