package queries

import (
	"errors"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/guard"
)

var ErrGetTransactionQueryIsNotConstructed = errors.New(
	"GetTransactionQuery must be created via NewGetTransactionQuery constructor",
)

// GetTransactionQuery retrieves one submission attempt with its payloads,
// error detail, and the identifiers it produced.
type GetTransactionQuery struct {
	transactionID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTransactionQuery creates a query for one transaction.
func NewGetTransactionQuery(transactionID kernel.UUID) (GetTransactionQuery, error) {
	if err := transactionID.Validate(); err != nil {
		return GetTransactionQuery{}, err
	}

	return GetTransactionQuery{
		transactionID: transactionID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetTransactionQuery) Validate() error {
	return q.guard.Validate(ErrGetTransactionQueryIsNotConstructed)
}

// TransactionID returns the attempt being inspected.
func (q GetTransactionQuery) TransactionID() kernel.UUID {
	return q.transactionID
}

// TrackResponse is one authority-issued identifier of the transaction.
type TrackResponse struct {
	Number    string
	TrackType string
	Reference string
}

// GetTransactionQueryResponse is the full detail of one submission attempt.
type GetTransactionQueryResponse struct {
	ID                 kernel.UUID
	VoyageID           kernel.UUID
	Country            string
	WebserviceType     string
	Environment        string
	RequestedBy        string
	Status             string
	RequestPayload     string
	ResponsePayload    string
	ConfirmationNumber string
	ErrorCode          string
	ErrorMessage       string
	ErrorDetails       string
	NeedsReview        bool
	RetryCount         int
	MaxRetries         int
	ParentID           *kernel.UUID
	CreatedAt          time.Time
	SentAt             *time.Time
	RespondedAt        *time.Time
	Tracks             []TrackResponse
}
