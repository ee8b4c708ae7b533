package transaction

import (
	"errors"
	"fmt"
	"time"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

var (
	// ErrTransactionIsNotConstructed is returned when a Transaction was not
	// created through NewTransaction, NewRetry, or RestoreTransaction.
	ErrTransactionIsNotConstructed = errors.New("Transaction must be created via NewTransaction, NewRetry, or RestoreTransaction")

	// ErrParentNotRetriable is returned by NewRetry when the parent attempt
	// is not in the Error state.
	ErrParentNotRetriable = errors.New("only failed transactions can be retried")

	// ErrRetryBudgetExhausted is returned by NewRetry when the parent has
	// already consumed its retry budget.
	ErrRetryBudgetExhausted = errors.New("retry budget exhausted")
)

// DefaultMaxRetries is the attempt ceiling applied when a submission does not
// specify its own.
const DefaultMaxRetries = 3

// Transaction is one concrete submission attempt against an authority
// endpoint. It is created in Pending before dispatch, moves to Sent when the
// request goes out, and completes as Success or Error. Completion is the last
// write this aggregate ever accepts.
//
// Invariants:
//   - identifiers, country, type, and environment are set at construction
//     and never change
//   - the webservice type must belong to the target country's protocol
//   - terminal attempts refuse all further transitions
//   - retry lineage is explicit: a retry carries its parent's id and a retry
//     count of parent+1
type Transaction struct {
	id          kernel.UUID
	voyageID    kernel.UUID
	country     kernel.Country
	wsType      kernel.WebserviceType
	environment kernel.Environment
	requestedBy string

	status             Status
	requestPayload     string
	responsePayload    string
	confirmationNumber string
	errorInfo          *ErrorInfo
	needsReview        bool

	retryCount int
	maxRetries int
	parentID   *kernel.UUID

	createdAt   time.Time
	sentAt      *time.Time
	respondedAt *time.Time

	guard guard.ConstructorGuard
}

// NewTransaction creates the first attempt for a submission in Pending
// status. maxRetries <= 0 falls back to DefaultMaxRetries.
func NewTransaction(
	id kernel.UUID,
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	environment kernel.Environment,
	requestedBy string,
	maxRetries int,
	now time.Time,
) (*Transaction, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	t := &Transaction{
		status:      Pending,
		requestedBy: requestedBy,
		maxRetries:  maxRetries,
		createdAt:   now,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setVoyageID(voyageID),
		t.setTarget(country, wsType),
		t.setEnvironment(environment),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// NewRetry creates a follow-up attempt for a failed parent. The parent must
// be in Error status with remaining retry budget; the new attempt starts in
// Pending with retryCount = parent+1 and records its lineage.
func NewRetry(id kernel.UUID, parent *Transaction, now time.Time) (*Transaction, error) {
	if err := parent.Validate(); err != nil {
		return nil, err
	}
	if parent.status != Error {
		return nil, ErrParentNotRetriable
	}
	if parent.retryCount >= parent.maxRetries {
		return nil, ErrRetryBudgetExhausted
	}
	if err := id.Validate(); err != nil {
		return nil, err
	}

	parentID := parent.id
	return &Transaction{
		id:          id,
		voyageID:    parent.voyageID,
		country:     parent.country,
		wsType:      parent.wsType,
		environment: parent.environment,
		requestedBy: parent.requestedBy,
		status:      Pending,
		retryCount:  parent.retryCount + 1,
		maxRetries:  parent.maxRetries,
		parentID:    &parentID,
		createdAt:   now,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreTransaction reconstructs a Transaction from persistence. All
// invariants are re-checked so a corrupted row cannot produce a usable
// aggregate.
func RestoreTransaction(
	id kernel.UUID,
	voyageID kernel.UUID,
	country kernel.Country,
	wsType kernel.WebserviceType,
	environment kernel.Environment,
	requestedBy string,
	status Status,
	requestPayload string,
	responsePayload string,
	confirmationNumber string,
	errorInfo *ErrorInfo,
	needsReview bool,
	retryCount int,
	maxRetries int,
	parentID *kernel.UUID,
	createdAt time.Time,
	sentAt *time.Time,
	respondedAt *time.Time,
) (*Transaction, error) {
	t := &Transaction{
		requestedBy:        requestedBy,
		requestPayload:     requestPayload,
		responsePayload:    responsePayload,
		confirmationNumber: confirmationNumber,
		errorInfo:          errorInfo,
		needsReview:        needsReview,
		retryCount:         retryCount,
		maxRetries:         maxRetries,
		parentID:           parentID,
		createdAt:          createdAt,
		sentAt:             sentAt,
		respondedAt:        respondedAt,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setVoyageID(voyageID),
		t.setTarget(country, wsType),
		t.setEnvironment(environment),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	t.status = status

	if retryCount < 0 || retryCount > maxRetries {
		return nil, errs.NewValueIsOutOfRangeError("retryCount", retryCount, 0, maxRetries)
	}

	return t, nil
}

// Validate ensures the Transaction was created through a constructor.
func (t *Transaction) Validate() error {
	if t == nil {
		return ErrTransactionIsNotConstructed
	}
	return t.guard.Validate(ErrTransactionIsNotConstructed)
}

// IsEqual compares two transactions by identifier.
func (t *Transaction) IsEqual(other *Transaction) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the transaction's unique identifier.
func (t *Transaction) ID() kernel.UUID {
	return t.id
}

// VoyageID returns the voyage this attempt declares.
func (t *Transaction) VoyageID() kernel.UUID {
	return t.voyageID
}

// Country returns the target customs authority.
func (t *Transaction) Country() kernel.Country {
	return t.country
}

// WebserviceType returns the declared message type.
func (t *Transaction) WebserviceType() kernel.WebserviceType {
	return t.wsType
}

// Environment returns the target environment.
func (t *Transaction) Environment() kernel.Environment {
	return t.environment
}

// RequestedBy returns the identity that initiated the submission.
func (t *Transaction) RequestedBy() string {
	return t.requestedBy
}

// Status returns the current lifecycle state.
func (t *Transaction) Status() Status {
	return t.status
}

// RequestPayload returns the raw request as sent, empty until completion.
func (t *Transaction) RequestPayload() string {
	return t.requestPayload
}

// ResponsePayload returns the raw authority response, empty until completion.
func (t *Transaction) ResponsePayload() string {
	return t.responsePayload
}

// ConfirmationNumber returns the authority-issued confirmation, if any.
func (t *Transaction) ConfirmationNumber() string {
	return t.confirmationNumber
}

// ErrorInfo returns the failure detail, nil for non-failed attempts.
func (t *Transaction) ErrorInfo() *ErrorInfo {
	return t.errorInfo
}

// NeedsReview reports whether the outcome requires a human operator.
func (t *Transaction) NeedsReview() bool {
	return t.needsReview
}

// RetryCount returns how many retries preceded this attempt; 0 for the
// original submission.
func (t *Transaction) RetryCount() int {
	return t.retryCount
}

// MaxRetries returns the attempt ceiling for this submission's lineage.
func (t *Transaction) MaxRetries() int {
	return t.maxRetries
}

// ParentID returns the failed attempt this retry follows, nil for originals.
func (t *Transaction) ParentID() *kernel.UUID {
	return t.parentID
}

// CreatedAt returns when the attempt was recorded.
func (t *Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// SentAt returns when the request went out, nil if it never did.
func (t *Transaction) SentAt() *time.Time {
	return t.sentAt
}

// RespondedAt returns when the outcome was observed, nil while in flight.
func (t *Transaction) RespondedAt() *time.Time {
	return t.respondedAt
}

// Latency returns the wire round-trip of the attempt, zero until both
// timestamps exist.
func (t *Transaction) Latency() time.Duration {
	if t.sentAt == nil || t.respondedAt == nil {
		return 0
	}
	return t.respondedAt.Sub(*t.sentAt)
}

// MarkSent records the transition onto the wire.
func (t *Transaction) MarkSent(at time.Time) error {
	if err := t.Validate(); err != nil {
		return err
	}

	newStatus, err := t.status.Send()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.sentAt = &at
	return nil
}

// MarkSuccess completes the attempt as accepted by the authority, recording
// the exact request and response payloads for the audit trail.
func (t *Transaction) MarkSuccess(at time.Time, confirmationNumber, requestPayload, responsePayload string) error {
	if err := t.Validate(); err != nil {
		return err
	}

	newStatus, err := t.status.Succeed()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.respondedAt = &at
	t.confirmationNumber = confirmationNumber
	t.requestPayload = requestPayload
	t.responsePayload = responsePayload
	return nil
}

// MarkFailed completes the attempt as failed. The raw response, even a
// malformed one, is preserved for later manual interpretation; "we don't
// know what happened" is not an acceptable end state. Fault kinds that need
// review flag the attempt for an operator.
func (t *Transaction) MarkFailed(at time.Time, requestPayload, responsePayload string, info ErrorInfo) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if info.Fault == FaultNone {
		return errs.NewValueIsInvalidErrorWithCause("errorInfo",
			fmt.Errorf("a failed attempt requires a fault classification"))
	}

	newStatus, err := t.status.Fail()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.respondedAt = &at
	t.requestPayload = requestPayload
	t.responsePayload = responsePayload
	t.errorInfo = &info
	t.needsReview = info.Fault.NeedsReview()
	return nil
}

func (t *Transaction) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Transaction) setVoyageID(voyageID kernel.UUID) error {
	if err := voyageID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("voyageID", err)
	}
	t.voyageID = voyageID
	return nil
}

func (t *Transaction) setTarget(country kernel.Country, wsType kernel.WebserviceType) error {
	if err := country.Validate(); err != nil {
		return err
	}
	if err := wsType.Validate(); err != nil {
		return err
	}
	if !wsType.BelongsTo(country) {
		return errs.NewValueIsInvalidErrorWithCause("webserviceType",
			fmt.Errorf("%s does not belong to country %s", wsType, country))
	}
	t.country = country
	t.wsType = wsType
	return nil
}

func (t *Transaction) setEnvironment(environment kernel.Environment) error {
	if err := environment.Validate(); err != nil {
		return err
	}
	t.environment = environment
	return nil
}
