package transactionrepo

import (
	"context"
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the postgres error code raised when an insert collides
// with an existing primary key.
const uniqueViolation = "23505"

// GormTransactionRepository implements TransactionRepository using GORM.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GORM ledger repository.
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Add inserts a new attempt. A duplicate id means two submissions raced for
// the same attempt and is reported as a concurrency conflict.
func (r *GormTransactionRepository) Add(ctx context.Context, txn *transaction.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	dto := fromDomain(txn)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.NewConcurrencyConflictError(txn.ID().String())
		}
		return err
	}

	return nil
}

// Update completes an attempt in place. The row must still be open; a
// completed row never changes again.
func (r *GormTransactionRepository) Update(ctx context.Context, txn *transaction.Transaction) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	dto := fromDomain(txn)
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ? AND status IN ?", dto.ID, []int{
			int(transaction.Pending), int(transaction.Sent),
		}).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewValueIsInvalidErrorWithCause("transaction",
			errors.New("row is missing or already completed"))
	}

	return nil
}

// Get retrieves an attempt by id.
func (r *GormTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*transaction.Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByTriple retrieves the attempt history of one triple, oldest first.
func (r *GormTransactionRepository) GetAllByTriple(ctx context.Context, voyageID kernel.UUID,
	country kernel.Country, wsType kernel.WebserviceType) ([]*transaction.Transaction, error) {
	if err := voyageID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("voyage_id = ? AND country = ? AND webservice_type = ?",
			voyageID.Bytes(), country.String(), wsType.String()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetRetryCandidates retrieves failed attempts eligible for automatic
// retry: the latest of their triple, with a retriable fault, without the
// review flag, and with budget left.
func (r *GormTransactionRepository) GetRetryCandidates(ctx context.Context) ([]*transaction.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.*
		FROM transactions t
		WHERE t.status = ?
		  AND t.needs_review = false
		  AND t.fault IN ?
		  AND t.retry_count < t.max_retries
		  AND NOT EXISTS (
			SELECT 1
			FROM transactions newer
			WHERE newer.voyage_id = t.voyage_id
			  AND newer.country = t.country
			  AND newer.webservice_type = t.webservice_type
			  AND newer.created_at > t.created_at
		  )
		ORDER BY t.created_at
	`, int(transaction.Error), []int{
		int(transaction.FaultNetworkTimeout), int(transaction.FaultTransport),
	}).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []TransactionDTO) ([]*transaction.Transaction, error) {
	txns := make([]*transaction.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		txn, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
