package statusrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// GormStatusRepository implements StatusRepository using GORM.
type GormStatusRepository struct {
	db *gorm.DB
}

// NewGormStatusRepository creates a new GORM status projection repository.
func NewGormStatusRepository(db *gorm.DB) *GormStatusRepository {
	return &GormStatusRepository{db: db}
}

// Upsert writes the projection revision. A version-1 row is inserted; later
// revisions replace the stored row only when its version is exactly one
// below. Losing either race is reported as a concurrency conflict so the
// caller can reload and reproject.
func (r *GormStatusRepository) Upsert(ctx context.Context, status *wsstatus.WebserviceStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	dto := fromDomain(status)
	key := tripleKey(dto)

	if dto.Version == 1 {
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
				return errs.NewConcurrencyConflictError(key)
			}
			return err
		}
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&WebserviceStatusDTO{}).
		Where("voyage_id = ? AND country = ? AND webservice_type = ? AND version = ?",
			dto.VoyageID, dto.Country, dto.WebserviceType, dto.Version-1).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError(key)
	}

	return nil
}

// GetByTriple retrieves the row for one triple.
func (r *GormStatusRepository) GetByTriple(ctx context.Context, voyageID kernel.UUID,
	country kernel.Country, wsType kernel.WebserviceType) (*wsstatus.WebserviceStatus, error) {
	if err := voyageID.Validate(); err != nil {
		return nil, err
	}

	var dto WebserviceStatusDTO
	err := r.db.WithContext(ctx).
		First(&dto, "voyage_id = ? AND country = ? AND webservice_type = ?",
			voyageID.Bytes(), country.String(), wsType.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webservice status",
				fmt.Sprintf("%s|%s|%s", voyageID, country, wsType))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByVoyage retrieves every status row of a voyage.
func (r *GormStatusRepository) GetAllByVoyage(ctx context.Context, voyageID kernel.UUID) ([]*wsstatus.WebserviceStatus, error) {
	if err := voyageID.Validate(); err != nil {
		return nil, err
	}

	var dtos []WebserviceStatusDTO
	err := r.db.WithContext(ctx).
		Where("voyage_id = ?", voyageID.Bytes()).
		Order("country, webservice_type").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetStale retrieves expirable rows not updated since the cutoff. Rejected
// rows stay out: they are operator work items and never expire.
func (r *GormStatusRepository) GetStale(ctx context.Context, cutoff time.Time) ([]*wsstatus.WebserviceStatus, error) {
	var dtos []WebserviceStatusDTO
	err := r.db.WithContext(ctx).
		Where("status NOT IN ? AND updated_at < ?", []int{
			int(wsstatus.Approved), int(wsstatus.Rejected), int(wsstatus.Expired),
		}, cutoff).
		Order("updated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func tripleKey(dto WebserviceStatusDTO) string {
	return fmt.Sprintf("%s|%s|%s", dto.VoyageID, dto.Country, dto.WebserviceType)
}

func toDomainAll(dtos []WebserviceStatusDTO) ([]*wsstatus.WebserviceStatus, error) {
	statuses := make([]*wsstatus.WebserviceStatus, 0, len(dtos))
	for _, dto := range dtos {
		status, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
