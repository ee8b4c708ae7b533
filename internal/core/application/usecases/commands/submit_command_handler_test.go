package commands_test

import (
	"testing"
	"time"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/submission"
	"customs/internal/core/domain/model/track"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/services"
	"customs/internal/core/ports"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/locks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type submitFixture struct {
	factory      *MockUoWFactory
	uow          *MockUoW
	txnRepo      *MockTransactionRepository
	statusRepo   *MockStatusRepository
	trackRepo    *MockTrackRepository
	registry     *MockClientRegistry
	client       *MockWebserviceClient
	voyages      *MockVoyageProvider
	certificates *MockCertificateProvider
	inFlight     *locks.KeyedMutex

	handler commands.SubmitCommandHandler
}

func newSubmitFixture(t *testing.T) *submitFixture {
	t.Helper()

	f := &submitFixture{
		factory:      new(MockUoWFactory),
		uow:          new(MockUoW),
		txnRepo:      new(MockTransactionRepository),
		statusRepo:   new(MockStatusRepository),
		trackRepo:    new(MockTrackRepository),
		registry:     new(MockClientRegistry),
		client:       new(MockWebserviceClient),
		voyages:      new(MockVoyageProvider),
		certificates: new(MockCertificateProvider),
		inFlight:     locks.NewKeyedMutex(),
	}

	resolver, err := services.NewDependencyResolver(f.statusRepo, f.trackRepo)
	require.NoError(t, err)

	f.handler = commands.NewSubmitCommandHandler(
		f.factory, f.registry, resolver,
		f.voyages, f.certificates, f.inFlight, time.Second,
	)
	return f
}

// expectEligibleVoyage stubs a loaded voyage with a valid certificate.
func (f *submitFixture) expectEligibleVoyage(voyageID kernel.UUID) {
	f.voyages.On("GetVoyage", mock.Anything, voyageID).
		Return(ports.VoyageSummary{
			ID:                voyageID,
			CompanyID:         "CUIT-30123456789",
			ContainerCount:    12,
			BillOfLadingCount: 3,
		}, nil)
	f.certificates.On("GetActiveCertificate", mock.Anything, "CUIT-30123456789").
		Return(ports.Certificate{
			Path:      "/certs/30123456789.p12",
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil)
}

// expectPersistence stubs the unit of work plumbing shared by every
// dispatch: appending the attempt, completing it, and projecting the status
// row.
func (f *submitFixture) expectPersistence() {
	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", mock.Anything).Return(nil)
	f.uow.On("Commit", mock.Anything).Return(nil)
	f.uow.On("Rollback", mock.Anything).Return(nil)
	f.uow.On("TransactionRepository").Return(f.txnRepo)
	f.uow.On("StatusRepository").Return(f.statusRepo)
	f.uow.On("TrackRepository").Return(f.trackRepo)

	f.txnRepo.On("Add", mock.Anything, mock.AnythingOfType("*transaction.Transaction")).Return(nil)
	f.txnRepo.On("Update", mock.Anything, mock.AnythingOfType("*transaction.Transaction")).Return(nil)
	f.txnRepo.On("GetAllByTriple", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*transaction.Transaction{}, nil)
	f.statusRepo.On("GetByTriple", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("webservice status", "none"))
	f.statusRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*wsstatus.WebserviceStatus")).Return(nil)
}

func newSubmitCommand(t *testing.T, voyageID kernel.UUID) commands.SubmitCommand {
	t.Helper()
	cmd, err := commands.NewSubmitCommand(
		voyageID, kernel.CountryAR, kernel.WebserviceTitEnvios,
		kernel.EnvironmentTesting, submission.PriorityNormal, "operator@forwarder.test",
	)
	require.NoError(t, err)
	return cmd
}

func TestSubmitCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)
	f.expectPersistence()

	issued, err := track.NewTrackIdentifier("16073TRACK001", "TRACK", kernel.NewUUID(), "BL-001")
	require.NoError(t, err)

	f.registry.On("ClientFor", kernel.CountryAR, kernel.WebserviceTitEnvios).Return(f.client, nil)
	f.client.On("Send", mock.Anything, mock.AnythingOfType("ports.SendRequest")).
		Return(ports.SendResult{
			ConfirmationNumber: "16073MANI012345",
			Tracks:             []track.TrackIdentifier{issued},
			RawRequest:         "<soap:Envelope/>",
			RawResponse:        "<soap:Envelope/>",
		}, nil)
	f.trackRepo.On("AddAll", mock.Anything, []track.TrackIdentifier{issued}).Return(nil)

	txnID, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.NoError(t, err)
	require.NoError(t, txnID.Validate())

	f.txnRepo.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(txn *transaction.Transaction) bool {
		return txn.Status() == transaction.Success &&
			txn.ConfirmationNumber() == "16073MANI012345" &&
			txn.ID().IsEqual(txnID)
	}))
	f.trackRepo.AssertCalled(t, "AddAll", mock.Anything, []track.TrackIdentifier{issued})
}

func TestSubmitCommandHandler_Handle_AuthorityRejection(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)
	f.expectPersistence()

	f.registry.On("ClientFor", kernel.CountryAR, kernel.WebserviceTitEnvios).Return(f.client, nil)
	f.client.On("Send", mock.Anything, mock.Anything).
		Return(
			ports.SendResult{RawRequest: "<soap:Envelope/>", RawResponse: "<soap:Fault/>"},
			errs.NewAuthorityRejectedError("1234", "invalid manifest data", "line 7"),
		)

	txnID, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.ErrorIs(t, err, errs.ErrAuthorityRejected)
	require.NoError(t, txnID.Validate(), "the failed attempt is still recorded")

	f.txnRepo.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(txn *transaction.Transaction) bool {
		info := txn.ErrorInfo()
		return txn.Status() == transaction.Error &&
			info != nil &&
			info.Fault == transaction.FaultAuthorityRejected &&
			info.Code == "1234" &&
			txn.ResponsePayload() == "<soap:Fault/>" &&
			!txn.NeedsReview()
	}))
}

func TestSubmitCommandHandler_Handle_NetworkTimeout(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)
	f.expectPersistence()

	f.registry.On("ClientFor", kernel.CountryAR, kernel.WebserviceTitEnvios).Return(f.client, nil)
	f.client.On("Send", mock.Anything, mock.Anything).
		Return(ports.SendResult{}, errs.NewNetworkTimeoutError("wgesregsintia2.afip.gob.ar", nil))

	_, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.ErrorIs(t, err, errs.ErrNetworkTimeout)

	f.txnRepo.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(txn *transaction.Transaction) bool {
		info := txn.ErrorInfo()
		return txn.Status() == transaction.Error &&
			info != nil &&
			info.Fault == transaction.FaultNetworkTimeout
	}))
}

func TestSubmitCommandHandler_Handle_MalformedResponseNeedsReview(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)
	f.expectPersistence()

	f.registry.On("ClientFor", kernel.CountryAR, kernel.WebserviceTitEnvios).Return(f.client, nil)
	f.client.On("Send", mock.Anything, mock.Anything).
		Return(ports.SendResult{}, errs.NewMalformedResponseError("<html>proxy error</html>", nil))

	_, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.ErrorIs(t, err, errs.ErrMalformedResponse)

	// The raw response is preserved for manual interpretation.
	f.txnRepo.AssertCalled(t, "Update", mock.Anything, mock.MatchedBy(func(txn *transaction.Transaction) bool {
		return txn.Status() == transaction.Error &&
			txn.NeedsReview() &&
			txn.ResponsePayload() == "<html>proxy error</html>"
	}))
}

func TestSubmitCommandHandler_Handle_DependencyNotSatisfied(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)
	f.statusRepo.On("GetByTriple", mock.Anything, voyageID, kernel.CountryPY, kernel.WebserviceXFFM).
		Return(nil, errs.NewObjectNotFoundError("webservice status", "xffm"))

	cmd, err := commands.NewSubmitCommand(
		voyageID, kernel.CountryPY, kernel.WebserviceXFBL,
		kernel.EnvironmentTesting, submission.PriorityNormal, "operator@forwarder.test",
	)
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrDependencyNotSatisfied)
	f.txnRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestSubmitCommandHandler_Handle_VoyageWithoutCargo(t *testing.T) {
	// Containers and bills of lading are both required; a voyage missing
	// either is rejected before any transaction exists.
	cases := map[string]ports.VoyageSummary{
		"no_cargo_at_all":      {CompanyID: "CUIT-30123456789"},
		"containers_only":      {CompanyID: "CUIT-30123456789", ContainerCount: 12},
		"bills_of_lading_only": {CompanyID: "CUIT-30123456789", BillOfLadingCount: 3},
	}

	for name, voyage := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			voyageID := kernel.NewUUID()
			f := newSubmitFixture(t)

			voyage.ID = voyageID
			f.voyages.On("GetVoyage", mock.Anything, voyageID).Return(voyage, nil)

			_, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

			require.ErrorIs(t, err, errs.ErrVoyageNotEligible)
			f.txnRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitCommandHandler_Handle_ExpiredCertificate(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.voyages.On("GetVoyage", mock.Anything, voyageID).
		Return(ports.VoyageSummary{
			ID: voyageID, CompanyID: "CUIT-30123456789", ContainerCount: 2, BillOfLadingCount: 1,
		}, nil)
	f.certificates.On("GetActiveCertificate", mock.Anything, "CUIT-30123456789").
		Return(ports.Certificate{
			Path:      "/certs/30123456789.p12",
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil)

	_, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.ErrorIs(t, err, errs.ErrCertificateExpired)
	f.txnRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestSubmitCommandHandler_Handle_ContestedTriple(t *testing.T) {
	ctx := t.Context()
	voyageID := kernel.NewUUID()
	f := newSubmitFixture(t)

	f.expectEligibleVoyage(voyageID)

	key := voyageID.String() + "|AR|titenvios"
	require.True(t, f.inFlight.TryLock(key))
	defer f.inFlight.Unlock(key)

	_, err := f.handler.Handle(ctx, newSubmitCommand(t, voyageID))

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	f.txnRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestNewSubmitCommand_RejectsMicDta(t *testing.T) {
	_, err := commands.NewSubmitCommand(
		kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceMicDta,
		kernel.EnvironmentTesting, submission.PriorityNormal, "operator@forwarder.test",
	)

	require.ErrorIs(t, err, commands.ErrMicDtaNeedsCheckpoint)
}

func TestNewSubmitCommand_RejectsForeignType(t *testing.T) {
	_, err := commands.NewSubmitCommand(
		kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceXFFM,
		kernel.EnvironmentTesting, submission.PriorityNormal, "operator@forwarder.test",
	)

	assert.Error(t, err)
}
