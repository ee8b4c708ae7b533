package commands_test

import (
	"testing"
	"time"

	"customs/internal/core/application/usecases/commands"
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func staleRow(t *testing.T, status wsstatus.Status) *wsstatus.WebserviceStatus {
	t.Helper()
	row, err := wsstatus.RestoreWebserviceStatus(
		kernel.NewUUID(), kernel.CountryPY, kernel.WebserviceXFFM,
		status, nil, "", 0, 3, "", nil, time.Now().Add(-72*time.Hour), 2,
	)
	require.NoError(t, err)
	return row
}

func TestExpireStaleStatusesCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	factory := new(MockUoWFactory)
	uow := new(MockUoW)
	statusRepo := new(MockStatusRepository)

	factory.On("Create").Return(uow)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("StatusRepository").Return(statusRepo)

	pending := staleRow(t, wsstatus.Pending)
	sent := staleRow(t, wsstatus.Sent)
	rejected := staleRow(t, wsstatus.Rejected)

	statusRepo.On("GetStale", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*wsstatus.WebserviceStatus{pending, sent, rejected}, nil)
	statusRepo.On("Upsert", mock.Anything, mock.AnythingOfType("*wsstatus.WebserviceStatus")).Return(nil)

	cmd, err := commands.NewExpireStaleStatusesCommand(48 * time.Hour)
	require.NoError(t, err)

	handler := commands.NewExpireStaleStatusesCommandHandler(factory)
	expired, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 2, expired)

	assert.Equal(t, wsstatus.Expired, pending.Status())
	assert.Equal(t, wsstatus.Expired, sent.Status())
	// Rejected rows wait for a retry or corrected data and are never
	// abandoned by the sweep.
	assert.Equal(t, wsstatus.Rejected, rejected.Status())
	statusRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestNewExpireStaleStatusesCommand_RejectsNonPositiveWindow(t *testing.T) {
	_, err := commands.NewExpireStaleStatusesCommand(0)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
