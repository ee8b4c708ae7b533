// Package transactionrepo persists the submission ledger. One row is one
// attempt against an authority endpoint; rows are inserted in Pending status
// and completed in place exactly once.
package transactionrepo

import (
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"

	"github.com/google/uuid"
)

// TransactionDTO is the database shape of one submission attempt. The
// composite index supports history lookups and retry scans by
// (voyage, country, type) in creation order.
type TransactionDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	VoyageID           uuid.UUID `gorm:"type:uuid;index:idx_transactions_triple,priority:1"`
	Country            string    `gorm:"index:idx_transactions_triple,priority:2"`
	WebserviceType     string    `gorm:"index:idx_transactions_triple,priority:3"`
	Environment        string
	RequestedBy        string
	Status             int
	RequestPayload     string `gorm:"type:text"`
	ResponsePayload    string `gorm:"type:text"`
	ConfirmationNumber string
	ErrorCode          string
	ErrorMessage       string
	ErrorDetails       string `gorm:"type:text"`
	Fault              int
	NeedsReview        bool
	RetryCount         int
	MaxRetries         int
	ParentID           *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time  `gorm:"index:idx_transactions_triple,priority:4"`
	SentAt             *time.Time
	RespondedAt        *time.Time
}

// TableName overrides GORM's default naming to use "transactions".
func (TransactionDTO) TableName() string {
	return "transactions"
}

func fromDomain(txn *transaction.Transaction) TransactionDTO {
	var parentID *uuid.UUID
	if id := txn.ParentID(); id != nil {
		raw := id.Bytes()
		parentID = &raw
	}

	dto := TransactionDTO{
		ID:                 txn.ID().Bytes(),
		VoyageID:           txn.VoyageID().Bytes(),
		Country:            txn.Country().String(),
		WebserviceType:     txn.WebserviceType().String(),
		Environment:        txn.Environment().String(),
		RequestedBy:        txn.RequestedBy(),
		Status:             int(txn.Status()),
		RequestPayload:     txn.RequestPayload(),
		ResponsePayload:    txn.ResponsePayload(),
		ConfirmationNumber: txn.ConfirmationNumber(),
		Fault:              int(transaction.FaultNone),
		NeedsReview:        txn.NeedsReview(),
		RetryCount:         txn.RetryCount(),
		MaxRetries:         txn.MaxRetries(),
		ParentID:           parentID,
		CreatedAt:          txn.CreatedAt(),
		SentAt:             txn.SentAt(),
		RespondedAt:        txn.RespondedAt(),
	}

	if info := txn.ErrorInfo(); info != nil {
		dto.ErrorCode = info.Code
		dto.ErrorMessage = info.Message
		dto.ErrorDetails = info.Details
		dto.Fault = int(info.Fault)
	}

	return dto
}

func toDomain(dto TransactionDTO) (*transaction.Transaction, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	voyageID, err := kernel.UUIDFromBytes(dto.VoyageID[:])
	if err != nil {
		return nil, err
	}
	country, err := kernel.CountryFromString(dto.Country)
	if err != nil {
		return nil, err
	}
	wsType, err := kernel.WebserviceTypeFromString(dto.WebserviceType)
	if err != nil {
		return nil, err
	}
	environment, err := kernel.EnvironmentFromString(dto.Environment)
	if err != nil {
		return nil, err
	}

	var parentID *kernel.UUID
	if dto.ParentID != nil {
		parent, idErr := kernel.UUIDFromBytes(dto.ParentID[:])
		if idErr != nil {
			return nil, idErr
		}
		parentID = &parent
	}

	var errorInfo *transaction.ErrorInfo
	if fault := transaction.FaultKind(dto.Fault); fault != transaction.FaultNone {
		errorInfo = &transaction.ErrorInfo{
			Code:    dto.ErrorCode,
			Message: dto.ErrorMessage,
			Details: dto.ErrorDetails,
			Fault:   fault,
		}
	}

	return transaction.RestoreTransaction(
		id, voyageID, country, wsType, environment, dto.RequestedBy,
		transaction.Status(dto.Status),
		dto.RequestPayload, dto.ResponsePayload, dto.ConfirmationNumber,
		errorInfo, dto.NeedsReview,
		dto.RetryCount, dto.MaxRetries, parentID,
		dto.CreatedAt, dto.SentAt, dto.RespondedAt,
	)
}
