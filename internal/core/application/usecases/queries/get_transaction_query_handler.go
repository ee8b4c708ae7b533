package queries

import (
	"context"
	"database/sql"
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTransactionQueryHandler reads one ledger row with its issued tracks.
type GetTransactionQueryHandler struct {
	db *gorm.DB
}

// NewGetTransactionQueryHandler creates a handler for transaction detail
// queries.
func NewGetTransactionQueryHandler(db *gorm.DB) GetTransactionQueryHandler {
	return GetTransactionQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFound error when the
// transaction does not exist.
func (h GetTransactionQueryHandler) Handle(
	ctx context.Context,
	query GetTransactionQuery,
) (GetTransactionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTransactionQueryResponse{}, err
	}

	var resp GetTransactionQueryResponse
	var id, voyageID uuid.UUID
	var parentID *uuid.UUID
	var status int

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			voyage_id,
			country,
			webservice_type,
			environment,
			requested_by,
			status,
			request_payload,
			response_payload,
			confirmation_number,
			error_code,
			error_message,
			error_details,
			needs_review,
			retry_count,
			max_retries,
			parent_id,
			created_at,
			sent_at,
			responded_at
		FROM transactions
		WHERE id = ?
	`, query.TransactionID().Bytes()).Row()

	err := row.Scan(
		&id,
		&voyageID,
		&resp.Country,
		&resp.WebserviceType,
		&resp.Environment,
		&resp.RequestedBy,
		&status,
		&resp.RequestPayload,
		&resp.ResponsePayload,
		&resp.ConfirmationNumber,
		&resp.ErrorCode,
		&resp.ErrorMessage,
		&resp.ErrorDetails,
		&resp.NeedsReview,
		&resp.RetryCount,
		&resp.MaxRetries,
		&parentID,
		&resp.CreatedAt,
		&resp.SentAt,
		&resp.RespondedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetTransactionQueryResponse{}, errs.NewObjectNotFoundError(
			"transaction", query.TransactionID().String(),
		)
	}
	if err != nil {
		return GetTransactionQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetTransactionQueryResponse{}, err
	}
	if resp.VoyageID, err = kernel.UUIDFromBytes(voyageID[:]); err != nil {
		return GetTransactionQueryResponse{}, err
	}
	if parentID != nil {
		parent, idErr := kernel.UUIDFromBytes(parentID[:])
		if idErr != nil {
			return GetTransactionQueryResponse{}, idErr
		}
		resp.ParentID = &parent
	}
	resp.Status = transaction.Status(status).String()

	if resp.Tracks, err = h.loadTracks(ctx, query.TransactionID()); err != nil {
		return GetTransactionQueryResponse{}, err
	}
	return resp, nil
}

func (h GetTransactionQueryHandler) loadTracks(ctx context.Context, transactionID kernel.UUID) ([]TrackResponse, error) {
	tracks := make([]TrackResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			number,
			track_type,
			reference
		FROM tracks
		WHERE transaction_id = ?
		ORDER BY number
	`, transactionID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var trackResp TrackResponse
		if err = rows.Scan(&trackResp.Number, &trackResp.TrackType, &trackResp.Reference); err != nil {
			return nil, err
		}
		tracks = append(tracks, trackResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}
