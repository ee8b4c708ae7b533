package services

import (
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/transaction"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/pkg/errs"
)

// StatusProjector folds the transaction history of one
// (voyage, country, webservice type) triple into its WebserviceStatus row.
// The projection is a pure function of the history, so recomputing it after
// every ledger append is idempotent.
type StatusProjector struct{}

// NewStatusProjector creates a StatusProjector.
func NewStatusProjector() *StatusProjector {
	return &StatusProjector{}
}

// Project computes the status row for the triple from its transactions,
// ordered oldest first. prior may be nil when the triple has never been
// projected; when present its version seeds the optimistic concurrency
// counter of the new revision.
func (p *StatusProjector) Project(
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	txns []*transaction.Transaction,
	prior *wsstatus.WebserviceStatus,
	now time.Time,
) (*wsstatus.WebserviceStatus, error) {
	version := 1
	if prior != nil {
		if err := prior.Validate(); err != nil {
			return nil, err
		}
		version = prior.Version() + 1
	}

	if len(txns) == 0 {
		return wsstatus.RestoreWebserviceStatus(
			voyageID, country, wsType,
			wsstatus.Pending, nil, "", 0, 0, "", nil, now, version,
		)
	}

	latest := txns[len(txns)-1]
	if err := latest.Validate(); err != nil {
		return nil, err
	}
	if !latest.VoyageID().IsEqual(voyageID) || latest.Country() != country ||
		latest.WebserviceType() != wsType {
		return nil, errs.NewValueIsInvalidError("transactions")
	}

	status, lastError := projectLatest(latest)

	confirmation := latest.ConfirmationNumber()
	if confirmation == "" {
		// A rejected retry must not erase the confirmation of an earlier
		// accepted attempt.
		for i := len(txns) - 1; i >= 0; i-- {
			if txns[i].Status() == transaction.Success {
				confirmation = txns[i].ConfirmationNumber()
				break
			}
		}
	}

	lastTxnID := latest.ID()
	return wsstatus.RestoreWebserviceStatus(
		voyageID, country, wsType,
		status,
		latest.SentAt(),
		confirmation,
		latest.RetryCount(),
		latest.MaxRetries(),
		lastError,
		&lastTxnID,
		now,
		version,
	)
}

// projectLatest maps the latest attempt's ledger status onto the tracker
// status machine.
func projectLatest(latest *transaction.Transaction) (wsstatus.Status, string) {
	switch latest.Status() {
	case transaction.Pending:
		return wsstatus.Validating, ""
	case transaction.Sent:
		return wsstatus.Sent, ""
	case transaction.Success:
		return wsstatus.Approved, ""
	case transaction.Error:
		lastError := ""
		if info := latest.ErrorInfo(); info != nil {
			lastError = info.Message
		}
		return wsstatus.Rejected, lastError
	default:
		return wsstatus.Unknown, ""
	}
}
