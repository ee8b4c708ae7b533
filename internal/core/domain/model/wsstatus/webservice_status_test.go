package wsstatus_test

import (
	"testing"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebserviceStatus(t *testing.T) {
	now := time.Now()

	status, err := wsstatus.NewWebserviceStatus(
		kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceAnticipada, now,
	)

	require.NoError(t, err)
	assert.Equal(t, wsstatus.Pending, status.Status())
	assert.Equal(t, 1, status.Version())
	assert.Nil(t, status.LastSentAt())
	assert.Empty(t, status.ConfirmationNumber())
}

func TestRestoreWebserviceStatus(t *testing.T) {
	t.Run("rejects_zero_version", func(t *testing.T) {
		_, err := wsstatus.RestoreWebserviceStatus(
			kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceAnticipada,
			wsstatus.Approved, nil, "C1", 0, 3, "", nil, time.Now(), 0,
		)
		require.Error(t, err)
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		_, err := wsstatus.RestoreWebserviceStatus(
			kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceAnticipada,
			wsstatus.Status(42), nil, "", 0, 3, "", nil, time.Now(), 1,
		)
		require.Error(t, err)
	})

	t.Run("rejects_type_country_mismatch", func(t *testing.T) {
		_, err := wsstatus.RestoreWebserviceStatus(
			kernel.NewUUID(), kernel.CountryAR, kernel.WebserviceType("bogus"),
			wsstatus.Pending, nil, "", 0, 3, "", nil, time.Now(), 1,
		)
		require.Error(t, err)
	})
}

func TestWebserviceStatus_Expire(t *testing.T) {
	newStatus := func(t *testing.T, s wsstatus.Status) *wsstatus.WebserviceStatus {
		t.Helper()
		row, err := wsstatus.RestoreWebserviceStatus(
			kernel.NewUUID(), kernel.CountryPY, kernel.WebserviceXFFM,
			s, nil, "", 0, 3, "", nil, time.Now().Add(-48*time.Hour), 2,
		)
		require.NoError(t, err)
		return row
	}

	t.Run("expires_stale_pending_track", func(t *testing.T) {
		row := newStatus(t, wsstatus.Pending)
		now := time.Now()

		require.NoError(t, row.Expire(now))

		assert.Equal(t, wsstatus.Expired, row.Status())
		assert.Equal(t, now, row.UpdatedAt())
		assert.Equal(t, 3, row.Version(), "expiry bumps the revision")
	})

	t.Run("expires_stale_sent_track", func(t *testing.T) {
		row := newStatus(t, wsstatus.Sent)
		require.NoError(t, row.Expire(time.Now()))
	})

	t.Run("refuses_approved_track", func(t *testing.T) {
		row := newStatus(t, wsstatus.Approved)
		require.ErrorIs(t, row.Expire(time.Now()), wsstatus.ErrStatusIsTerminal)
		assert.Equal(t, wsstatus.Approved, row.Status())
	})

	t.Run("refuses_already_expired_track", func(t *testing.T) {
		row := newStatus(t, wsstatus.Expired)
		require.ErrorIs(t, row.Expire(time.Now()), wsstatus.ErrStatusIsTerminal)
	})

	t.Run("refuses_rejected_track", func(t *testing.T) {
		// Rejected tracks are waiting for a retry or corrected data, not
		// abandonment.
		row := newStatus(t, wsstatus.Rejected)
		require.Error(t, row.Expire(time.Now()))
	})
}
