// Package wsstatus contains the WebserviceStatus aggregate: the current
// state of one (voyage, country, webservice type) declaration track. It is a
// projection derived from the transaction ledger, never independently
// authored. There is at most one row per triple and it always reflects the
// most recent terminal-or-in-flight transaction for that triple.
package wsstatus

import (
	"errors"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

var (
	// ErrWebserviceStatusIsNotConstructed is returned when a
	// WebserviceStatus was not created through a constructor.
	ErrWebserviceStatusIsNotConstructed = errors.New("WebserviceStatus must be created via NewWebserviceStatus or RestoreWebserviceStatus")

	// ErrStatusIsTerminal is returned when expiring an already terminal
	// track.
	ErrStatusIsTerminal = errors.New("status is terminal and cannot expire")
)

// WebserviceStatus is the single current-state row for a declaration track.
// The version field implements optimistic concurrency on the upsert path; it
// increments on every recompute.
type WebserviceStatus struct {
	voyageID kernel.UUID
	country  kernel.Country
	wsType   kernel.WebserviceType

	status             Status
	lastSentAt         *time.Time
	confirmationNumber string
	retryCount         int
	maxRetries         int
	lastError          string
	lastTransactionID  *kernel.UUID
	updatedAt          time.Time
	version            int

	guard guard.ConstructorGuard
}

// NewWebserviceStatus creates the baseline Pending row for a triple that has
// no transactions yet.
func NewWebserviceStatus(
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	now time.Time,
) (*WebserviceStatus, error) {
	return RestoreWebserviceStatus(
		voyageID, country, wsType,
		Pending, nil, "", 0, 0, "", nil, now, 1,
	)
}

// RestoreWebserviceStatus reconstructs a row from persistence or builds the
// next projection revision. Invariants are re-checked.
func RestoreWebserviceStatus(
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	status Status,
	lastSentAt *time.Time,
	confirmationNumber string,
	retryCount int,
	maxRetries int,
	lastError string,
	lastTransactionID *kernel.UUID,
	updatedAt time.Time,
	version int,
) (*WebserviceStatus, error) {
	if err := voyageID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("voyageID", err)
	}
	if err := country.Validate(); err != nil {
		return nil, err
	}
	if err := wsType.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 1, int(^uint(0)>>1))
	}

	return &WebserviceStatus{
		voyageID:           voyageID,
		country:            country,
		wsType:             wsType,
		status:             status,
		lastSentAt:         lastSentAt,
		confirmationNumber: confirmationNumber,
		retryCount:         retryCount,
		maxRetries:         maxRetries,
		lastError:          lastError,
		lastTransactionID:  lastTransactionID,
		updatedAt:          updatedAt,
		version:            version,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the row was created through a constructor.
func (s *WebserviceStatus) Validate() error {
	if s == nil {
		return ErrWebserviceStatusIsNotConstructed
	}
	return s.guard.Validate(ErrWebserviceStatusIsNotConstructed)
}

// VoyageID returns the voyage of the track.
func (s *WebserviceStatus) VoyageID() kernel.UUID {
	return s.voyageID
}

// Country returns the authority of the track.
func (s *WebserviceStatus) Country() kernel.Country {
	return s.country
}

// WebserviceType returns the message type of the track.
func (s *WebserviceStatus) WebserviceType() kernel.WebserviceType {
	return s.wsType
}

// Status returns the current aggregate state.
func (s *WebserviceStatus) Status() Status {
	return s.status
}

// LastSentAt returns when the latest attempt went out, nil if none did.
func (s *WebserviceStatus) LastSentAt() *time.Time {
	return s.lastSentAt
}

// ConfirmationNumber returns the authority confirmation of the approving
// attempt, empty otherwise.
func (s *WebserviceStatus) ConfirmationNumber() string {
	return s.confirmationNumber
}

// RetryCount returns the retry ordinal of the latest attempt.
func (s *WebserviceStatus) RetryCount() int {
	return s.retryCount
}

// MaxRetries returns the attempt ceiling of the latest attempt's lineage.
func (s *WebserviceStatus) MaxRetries() int {
	return s.maxRetries
}

// LastError returns the latest failure summary, empty when none.
func (s *WebserviceStatus) LastError() string {
	return s.lastError
}

// LastTransactionID returns the transaction the row currently reflects.
func (s *WebserviceStatus) LastTransactionID() *kernel.UUID {
	return s.lastTransactionID
}

// UpdatedAt returns when the row was last recomputed.
func (s *WebserviceStatus) UpdatedAt() time.Time {
	return s.updatedAt
}

// Version returns the optimistic concurrency revision.
func (s *WebserviceStatus) Version() int {
	return s.version
}

// Expire marks a stale, never-completed track Expired. Only legal from
// non-terminal states; an approved or already expired track is left alone.
func (s *WebserviceStatus) Expire(now time.Time) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if !s.status.CanTransitionTo(Expired) {
		return ErrStatusIsTerminal
	}

	s.status = Expired
	s.updatedAt = now
	s.version++
	return nil
}
