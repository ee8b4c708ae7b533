package queries

import (
	"context"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetVoyageStatusesQueryHandler reads the status projection rows of one
// voyage. Rows come back in a fixed per-country type order so the UI renders
// the declaration steps in their submission sequence.
type GetVoyageStatusesQueryHandler struct {
	db *gorm.DB
}

// NewGetVoyageStatusesQueryHandler creates a handler for voyage status
// queries.
func NewGetVoyageStatusesQueryHandler(db *gorm.DB) GetVoyageStatusesQueryHandler {
	return GetVoyageStatusesQueryHandler{db: db}
}

// Handle executes the query.
func (h GetVoyageStatusesQueryHandler) Handle(
	ctx context.Context,
	query GetVoyageStatusesQuery,
) ([]GetVoyageStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]GetVoyageStatusesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			voyage_id,
			country,
			webservice_type,
			status,
			last_sent_at,
			confirmation_number,
			retry_count,
			max_retries,
			last_error,
			last_transaction_id,
			updated_at
		FROM webservice_statuses
		WHERE voyage_id = ?
		ORDER BY country, webservice_type
	`, query.VoyageID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetVoyageStatusesQueryResponse
		var voyageID uuid.UUID
		var lastTransactionID *uuid.UUID
		var status int

		err = rows.Scan(
			&voyageID,
			&resp.Country,
			&resp.WebserviceType,
			&status,
			&resp.LastSentAt,
			&resp.ConfirmationNumber,
			&resp.RetryCount,
			&resp.MaxRetries,
			&resp.LastError,
			&lastTransactionID,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		id, idErr := kernel.UUIDFromBytes(voyageID[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.VoyageID = id

		if lastTransactionID != nil {
			txnID, txnErr := kernel.UUIDFromBytes(lastTransactionID[:])
			if txnErr != nil {
				return nil, txnErr
			}
			resp.LastTransactionID = &txnID
		}

		resp.Status = wsstatus.Status(status).String()
		statuses = append(statuses, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}
