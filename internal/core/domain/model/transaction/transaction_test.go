package transaction_test

import (
	"testing"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingTransaction(t *testing.T) *transaction.Transaction {
	t.Helper()

	txn, err := transaction.NewTransaction(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.CountryAR,
		kernel.WebserviceTitEnvios,
		kernel.EnvironmentTesting,
		"operator@example.com",
		3,
		time.Now(),
	)
	require.NoError(t, err)
	return txn
}

func TestNewTransaction(t *testing.T) {
	t.Run("creates_pending_attempt", func(t *testing.T) {
		txn := newPendingTransaction(t)

		assert.Equal(t, transaction.Pending, txn.Status())
		assert.Equal(t, 0, txn.RetryCount())
		assert.Equal(t, 3, txn.MaxRetries())
		assert.Nil(t, txn.ParentID())
		assert.Nil(t, txn.SentAt())
		assert.Nil(t, txn.ErrorInfo())
	})

	t.Run("defaults_max_retries", func(t *testing.T) {
		txn, err := transaction.NewTransaction(
			kernel.NewUUID(), kernel.NewUUID(),
			kernel.CountryPY, kernel.WebserviceXFFM, kernel.EnvironmentProduction,
			"batch", 0, time.Now(),
		)

		require.NoError(t, err)
		assert.Equal(t, transaction.DefaultMaxRetries, txn.MaxRetries())
	})

	t.Run("rejects_type_from_wrong_country", func(t *testing.T) {
		_, err := transaction.NewTransaction(
			kernel.NewUUID(), kernel.NewUUID(),
			kernel.CountryPY, kernel.WebserviceMicDta, kernel.EnvironmentTesting,
			"operator", 3, time.Now(),
		)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_voyage", func(t *testing.T) {
		_, err := transaction.NewTransaction(
			kernel.NewUUID(), kernel.UUID{},
			kernel.CountryAR, kernel.WebserviceAnticipada, kernel.EnvironmentTesting,
			"operator", 3, time.Now(),
		)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var txn transaction.Transaction
		require.ErrorIs(t, txn.Validate(), transaction.ErrTransactionIsNotConstructed)
	})
}

func TestTransaction_Lifecycle(t *testing.T) {
	t.Run("happy_path_records_payloads_and_latency", func(t *testing.T) {
		txn := newPendingTransaction(t)
		sentAt := time.Now()
		respondedAt := sentAt.Add(2 * time.Second)

		require.NoError(t, txn.MarkSent(sentAt))
		assert.Equal(t, transaction.Sent, txn.Status())

		require.NoError(t, txn.MarkSuccess(respondedAt, "AFIP-123", "<request/>", "<response/>"))

		assert.Equal(t, transaction.Success, txn.Status())
		assert.Equal(t, "AFIP-123", txn.ConfirmationNumber())
		assert.Equal(t, "<request/>", txn.RequestPayload())
		assert.Equal(t, "<response/>", txn.ResponsePayload())
		assert.Equal(t, 2*time.Second, txn.Latency())
		assert.False(t, txn.NeedsReview())
	})

	t.Run("failure_preserves_raw_response", func(t *testing.T) {
		txn := newPendingTransaction(t)
		require.NoError(t, txn.MarkSent(time.Now()))

		err := txn.MarkFailed(time.Now(), "<request/>", "<fault/>", transaction.ErrorInfo{
			Code:    "1019",
			Message: "RUC inexistente",
			Fault:   transaction.FaultAuthorityRejected,
		})

		require.NoError(t, err)
		assert.Equal(t, transaction.Error, txn.Status())
		assert.Equal(t, "<fault/>", txn.ResponsePayload())
		assert.Equal(t, "1019", txn.ErrorInfo().Code)
		assert.False(t, txn.NeedsReview())
	})

	t.Run("malformed_response_flags_manual_review", func(t *testing.T) {
		txn := newPendingTransaction(t)
		require.NoError(t, txn.MarkSent(time.Now()))

		err := txn.MarkFailed(time.Now(), "<request/>", "garbage", transaction.ErrorInfo{
			Message: "unparseable response",
			Fault:   transaction.FaultMalformedResponse,
		})

		require.NoError(t, err)
		assert.True(t, txn.NeedsReview())
	})

	t.Run("can_fail_before_send", func(t *testing.T) {
		txn := newPendingTransaction(t)

		err := txn.MarkFailed(time.Now(), "", "", transaction.ErrorInfo{
			Message: "circuit breaker open",
			Fault:   transaction.FaultTransport,
		})

		require.NoError(t, err)
		assert.Equal(t, transaction.Error, txn.Status())
	})

	t.Run("terminal_attempt_refuses_further_transitions", func(t *testing.T) {
		txn := newPendingTransaction(t)
		require.NoError(t, txn.MarkSent(time.Now()))
		require.NoError(t, txn.MarkSuccess(time.Now(), "C1", "<r/>", "<ok/>"))

		require.Error(t, txn.MarkSent(time.Now()))
		require.Error(t, txn.MarkFailed(time.Now(), "", "", transaction.ErrorInfo{
			Fault: transaction.FaultTransport,
		}))
	})

	t.Run("cannot_succeed_without_send", func(t *testing.T) {
		txn := newPendingTransaction(t)
		require.Error(t, txn.MarkSuccess(time.Now(), "C1", "<r/>", "<ok/>"))
	})

	t.Run("failure_requires_fault_classification", func(t *testing.T) {
		txn := newPendingTransaction(t)
		require.NoError(t, txn.MarkSent(time.Now()))

		err := txn.MarkFailed(time.Now(), "", "", transaction.ErrorInfo{})

		require.Error(t, err)
	})
}

func TestNewRetry(t *testing.T) {
	failedTransaction := func(t *testing.T) *transaction.Transaction {
		t.Helper()
		txn := newPendingTransaction(t)
		require.NoError(t, txn.MarkSent(time.Now()))
		require.NoError(t, txn.MarkFailed(time.Now(), "<r/>", "", transaction.ErrorInfo{
			Message: "timeout",
			Fault:   transaction.FaultNetworkTimeout,
		}))
		return txn
	}

	t.Run("creates_linked_pending_attempt", func(t *testing.T) {
		parent := failedTransaction(t)

		retry, err := transaction.NewRetry(kernel.NewUUID(), parent, time.Now())

		require.NoError(t, err)
		assert.Equal(t, transaction.Pending, retry.Status())
		assert.Equal(t, 1, retry.RetryCount())
		assert.Equal(t, parent.MaxRetries(), retry.MaxRetries())
		require.NotNil(t, retry.ParentID())
		assert.True(t, retry.ParentID().IsEqual(parent.ID()))
		assert.True(t, retry.VoyageID().IsEqual(parent.VoyageID()))
		assert.Equal(t, parent.WebserviceType(), retry.WebserviceType())
	})

	t.Run("never_mutates_the_parent", func(t *testing.T) {
		parent := failedTransaction(t)
		parentStatus := parent.Status()
		parentRetryCount := parent.RetryCount()

		_, err := transaction.NewRetry(kernel.NewUUID(), parent, time.Now())

		require.NoError(t, err)
		assert.Equal(t, parentStatus, parent.Status())
		assert.Equal(t, parentRetryCount, parent.RetryCount())
	})

	t.Run("rejects_non_failed_parent", func(t *testing.T) {
		parent := newPendingTransaction(t)

		_, err := transaction.NewRetry(kernel.NewUUID(), parent, time.Now())

		require.ErrorIs(t, err, transaction.ErrParentNotRetriable)
	})

	t.Run("rejects_exhausted_budget", func(t *testing.T) {
		parent := failedTransaction(t)

		// Walk the lineage to the ceiling.
		current := parent
		for i := 0; i < parent.MaxRetries(); i++ {
			retry, err := transaction.NewRetry(kernel.NewUUID(), current, time.Now())
			require.NoError(t, err)
			require.NoError(t, retry.MarkSent(time.Now()))
			require.NoError(t, retry.MarkFailed(time.Now(), "", "", transaction.ErrorInfo{
				Fault: transaction.FaultNetworkTimeout,
			}))
			current = retry
		}

		_, err := transaction.NewRetry(kernel.NewUUID(), current, time.Now())
		require.ErrorIs(t, err, transaction.ErrRetryBudgetExhausted)
	})
}

func TestRestoreTransaction(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		original := newPendingTransaction(t)
		require.NoError(t, original.MarkSent(time.Now()))
		require.NoError(t, original.MarkSuccess(time.Now(), "C1", "<r/>", "<ok/>"))

		restored, err := transaction.RestoreTransaction(
			original.ID(), original.VoyageID(),
			original.Country(), original.WebserviceType(), original.Environment(),
			original.RequestedBy(), original.Status(),
			original.RequestPayload(), original.ResponsePayload(),
			original.ConfirmationNumber(), original.ErrorInfo(), original.NeedsReview(),
			original.RetryCount(), original.MaxRetries(), original.ParentID(),
			original.CreatedAt(), original.SentAt(), original.RespondedAt(),
		)

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(original))
		assert.Equal(t, original.Status(), restored.Status())
		assert.Equal(t, original.ConfirmationNumber(), restored.ConfirmationNumber())
	})

	t.Run("rejects_invalid_status", func(t *testing.T) {
		original := newPendingTransaction(t)

		_, err := transaction.RestoreTransaction(
			original.ID(), original.VoyageID(),
			original.Country(), original.WebserviceType(), original.Environment(),
			original.RequestedBy(), transaction.Status(42),
			"", "", "", nil, false, 0, 3, nil,
			original.CreatedAt(), nil, nil,
		)

		require.Error(t, err)
	})

	t.Run("rejects_retry_count_above_ceiling", func(t *testing.T) {
		original := newPendingTransaction(t)

		_, err := transaction.RestoreTransaction(
			original.ID(), original.VoyageID(),
			original.Country(), original.WebserviceType(), original.Environment(),
			original.RequestedBy(), transaction.Pending,
			"", "", "", nil, false, 5, 3, nil,
			original.CreatedAt(), nil, nil,
		)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestFaultKind(t *testing.T) {
	assert.True(t, transaction.FaultNetworkTimeout.Retriable())
	assert.True(t, transaction.FaultTransport.Retriable())
	assert.False(t, transaction.FaultAuthorityRejected.Retriable())
	assert.False(t, transaction.FaultMalformedResponse.Retriable())

	assert.True(t, transaction.FaultMalformedResponse.NeedsReview())
	assert.True(t, transaction.FaultUnknown.NeedsReview())
	assert.False(t, transaction.FaultNetworkTimeout.NeedsReview())
}
