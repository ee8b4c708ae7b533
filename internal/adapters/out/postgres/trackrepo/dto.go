// Package trackrepo persists the track identifiers returned by the
// authorities, keyed by the transaction that produced them.
package trackrepo

import (
	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"

	"github.com/google/uuid"
)

// TrackDTO is the database shape of one track identifier.
type TrackDTO struct {
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number        string    `gorm:"primaryKey"`
	TrackType     string
	Reference     string
}

// TableName overrides GORM's default naming to use "tracks".
func (TrackDTO) TableName() string {
	return "tracks"
}

func fromDomain(identifier track.TrackIdentifier) TrackDTO {
	return TrackDTO{
		TransactionID: identifier.TransactionID().Bytes(),
		Number:        identifier.Number(),
		TrackType:     identifier.Type(),
		Reference:     identifier.Reference(),
	}
}

func toDomain(dto TrackDTO) (track.TrackIdentifier, error) {
	transactionID, err := kernel.UUIDFromBytes(dto.TransactionID[:])
	if err != nil {
		return track.TrackIdentifier{}, err
	}

	return track.NewTrackIdentifier(dto.Number, dto.TrackType, transactionID, dto.Reference)
}
