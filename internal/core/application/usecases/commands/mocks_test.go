package commands_test

import (
	"context"
	"time"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTransactionRepository struct{ mock.Mock }

func (m *MockTransactionRepository) Add(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, txn *transaction.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetAllByTriple(ctx context.Context, voyageID kernel.UUID,
	country kernel.Country, wsType kernel.WebserviceType) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, voyageID, country, wsType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetRetryCandidates(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

type MockStatusRepository struct{ mock.Mock }

func (m *MockStatusRepository) Upsert(ctx context.Context, status *wsstatus.WebserviceStatus) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStatusRepository) GetByTriple(ctx context.Context, voyageID kernel.UUID,
	country kernel.Country, wsType kernel.WebserviceType) (*wsstatus.WebserviceStatus, error) {
	args := m.Called(ctx, voyageID, country, wsType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wsstatus.WebserviceStatus), args.Error(1)
}

func (m *MockStatusRepository) GetAllByVoyage(ctx context.Context, voyageID kernel.UUID) ([]*wsstatus.WebserviceStatus, error) {
	args := m.Called(ctx, voyageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wsstatus.WebserviceStatus), args.Error(1)
}

func (m *MockStatusRepository) GetStale(ctx context.Context, cutoff time.Time) ([]*wsstatus.WebserviceStatus, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*wsstatus.WebserviceStatus), args.Error(1)
}

type MockTrackRepository struct{ mock.Mock }

func (m *MockTrackRepository) AddAll(ctx context.Context, tracks []track.TrackIdentifier) error {
	args := m.Called(ctx, tracks)
	return args.Error(0)
}

func (m *MockTrackRepository) ListByTransactionID(ctx context.Context, transactionID kernel.UUID) ([]track.TrackIdentifier, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]track.TrackIdentifier), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) TransactionRepository() ports.TransactionRepository {
	args := m.Called()
	return args.Get(0).(ports.TransactionRepository)
}

func (m *MockUoW) StatusRepository() ports.StatusRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusRepository)
}

func (m *MockUoW) TrackRepository() ports.TrackRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockWebserviceClient struct{ mock.Mock }

func (m *MockWebserviceClient) Send(ctx context.Context, request ports.SendRequest) (ports.SendResult, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(ports.SendResult), args.Error(1)
}

type MockClientRegistry struct{ mock.Mock }

func (m *MockClientRegistry) ClientFor(country kernel.Country, wsType kernel.WebserviceType) (ports.WebserviceClient, error) {
	args := m.Called(country, wsType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.WebserviceClient), args.Error(1)
}

type MockVoyageProvider struct{ mock.Mock }

func (m *MockVoyageProvider) GetVoyage(ctx context.Context, voyageID kernel.UUID) (ports.VoyageSummary, error) {
	args := m.Called(ctx, voyageID)
	return args.Get(0).(ports.VoyageSummary), args.Error(1)
}

type MockCertificateProvider struct{ mock.Mock }

func (m *MockCertificateProvider) GetActiveCertificate(ctx context.Context, companyID string) (ports.Certificate, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(ports.Certificate), args.Error(1)
}
