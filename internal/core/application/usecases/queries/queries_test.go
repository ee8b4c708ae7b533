package queries_test

import (
	"testing"

	"customs/internal/core/application/usecases/queries"
	"customs/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetVoyageStatusesQuery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		voyageID := kernel.NewUUID()

		query, err := queries.NewGetVoyageStatusesQuery(voyageID)

		require.NoError(t, err)
		assert.True(t, query.VoyageID().IsEqual(voyageID))
		assert.NoError(t, query.Validate())
	})

	t.Run("zero_voyage_id", func(t *testing.T) {
		_, err := queries.NewGetVoyageStatusesQuery(kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("zero_value_query_fails_validation", func(t *testing.T) {
		var query queries.GetVoyageStatusesQuery
		require.ErrorIs(t, query.Validate(), queries.ErrGetVoyageStatusesQueryIsNotConstructed)
	})
}

func TestNewGetTransactionQuery(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		transactionID := kernel.NewUUID()

		query, err := queries.NewGetTransactionQuery(transactionID)

		require.NoError(t, err)
		assert.True(t, query.TransactionID().IsEqual(transactionID))
	})

	t.Run("zero_transaction_id", func(t *testing.T) {
		_, err := queries.NewGetTransactionQuery(kernel.UUID{})
		require.Error(t, err)
	})

	t.Run("zero_value_query_fails_validation", func(t *testing.T) {
		var query queries.GetTransactionQuery
		require.ErrorIs(t, query.Validate(), queries.ErrGetTransactionQueryIsNotConstructed)
	})
}
