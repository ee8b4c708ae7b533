// Package statusrepo persists the per-triple status projection. The table
// keys on (voyage, country, webservice type) and carries an optimistic
// version so concurrent recomputes never overwrite each other silently.
package statusrepo

import (
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"

	"github.com/google/uuid"
)

// WebserviceStatusDTO is the database shape of one declaration track.
type WebserviceStatusDTO struct {
	VoyageID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Country            string    `gorm:"primaryKey"`
	WebserviceType     string    `gorm:"primaryKey"`
	Status             int
	LastSentAt         *time.Time
	ConfirmationNumber string
	RetryCount         int
	MaxRetries         int
	LastError          string     `gorm:"type:text"`
	LastTransactionID  *uuid.UUID `gorm:"type:uuid"`
	UpdatedAt          time.Time
	Version            int
}

// TableName overrides GORM's default naming to use "webservice_statuses".
func (WebserviceStatusDTO) TableName() string {
	return "webservice_statuses"
}

func fromDomain(status *wsstatus.WebserviceStatus) WebserviceStatusDTO {
	var lastTransactionID *uuid.UUID
	if id := status.LastTransactionID(); id != nil {
		raw := id.Bytes()
		lastTransactionID = &raw
	}

	return WebserviceStatusDTO{
		VoyageID:           status.VoyageID().Bytes(),
		Country:            status.Country().String(),
		WebserviceType:     status.WebserviceType().String(),
		Status:             int(status.Status()),
		LastSentAt:         status.LastSentAt(),
		ConfirmationNumber: status.ConfirmationNumber(),
		RetryCount:         status.RetryCount(),
		MaxRetries:         status.MaxRetries(),
		LastError:          status.LastError(),
		LastTransactionID:  lastTransactionID,
		UpdatedAt:          status.UpdatedAt(),
		Version:            status.Version(),
	}
}

func toDomain(dto WebserviceStatusDTO) (*wsstatus.WebserviceStatus, error) {
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

	var lastTransactionID *kernel.UUID
	if dto.LastTransactionID != nil {
		id, idErr := kernel.UUIDFromBytes(dto.LastTransactionID[:])
		if idErr != nil {
			return nil, idErr
		}
		lastTransactionID = &id
	}

	return wsstatus.RestoreWebserviceStatus(
		voyageID, country, wsType,
		wsstatus.Status(dto.Status),
		dto.LastSentAt, dto.ConfirmationNumber,
		dto.RetryCount, dto.MaxRetries,
		dto.LastError, lastTransactionID,
		dto.UpdatedAt, dto.Version,
	)
}
