package trackrepo

import (
	"context"
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
	"customs/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormTrackRepository implements TrackRepository using GORM.
type GormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new GORM track repository.
func NewGormTrackRepository(db *gorm.DB) *GormTrackRepository {
	return &GormTrackRepository{db: db}
}

// AddAll inserts every identifier of one response in a single statement.
func (r *GormTrackRepository) AddAll(ctx context.Context, identifiers []track.TrackIdentifier) error {
	if len(identifiers) == 0 {
		return nil
	}

	dtos := make([]TrackDTO, 0, len(identifiers))
	for _, identifier := range identifiers {
		if err := identifier.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(identifier))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.NewConcurrencyConflictError(dtos[0].TransactionID.String())
		}
		return err
	}

	return nil
}

// ListByTransactionID retrieves the identifiers produced by one transaction.
func (r *GormTrackRepository) ListByTransactionID(ctx context.Context, transactionID kernel.UUID) ([]track.TrackIdentifier, error) {
	if err := transactionID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TrackDTO
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID.Bytes()).
		Order("number").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	identifiers := make([]track.TrackIdentifier, 0, len(dtos))
	for _, dto := range dtos {
		identifier, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		identifiers = append(identifiers, identifier)
	}

	return identifiers, nil
}
