package errs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the submission fault taxonomy. Concrete error structs
// unwrap to these so the orchestrator and the HTTP layer can classify
// outcomes with errors.Is without inspecting messages.
var (
	ErrDependencyNotSatisfied  = errors.New("dependency not satisfied")
	ErrVoyageNotEligible       = errors.New("voyage is not eligible for submission")
	ErrCertificateExpired      = errors.New("certificate is expired")
	ErrCertificateMissing      = errors.New("certificate is missing")
	ErrNetworkTimeout          = errors.New("network timeout")
	ErrTransport               = errors.New("transport failure")
	ErrAuthorityRejected       = errors.New("authority rejected the declaration")
	ErrMalformedResponse       = errors.New("malformed authority response")
	ErrConcurrencyConflict     = errors.New("another submission is already in flight")
	ErrRetryNotPermitted       = errors.New("retry is not permitted")
	ErrSubmissionInconsistency = errors.New("submission outcome could not be recorded")
	ErrNoClientRegistered      = errors.New("no webservice client registered")
)

// DependencyNotSatisfiedError is returned when a declaration is attempted
// before its prerequisite messages reached the approved state. Missing names
// the webservice types still outstanding.
type DependencyNotSatisfiedError struct {
	WebserviceType string
	Missing        []string
}

// NewDependencyNotSatisfiedError creates a DependencyNotSatisfiedError for
// the given dependent type and its unmet prerequisites.
func NewDependencyNotSatisfiedError(webserviceType string, missing []string) *DependencyNotSatisfiedError {
	return &DependencyNotSatisfiedError{WebserviceType: webserviceType, Missing: missing}
}

func (e *DependencyNotSatisfiedError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s requires %s",
		ErrDependencyNotSatisfied, e.WebserviceType, strings.Join(e.Missing, ", ")))
}

func (e *DependencyNotSatisfiedError) Unwrap() error {
	return ErrDependencyNotSatisfied
}

// VoyageNotEligibleError is returned when a voyage lacks the manifest data a
// declaration needs (no containers, no bills of lading).
type VoyageNotEligibleError struct {
	VoyageID string
	Reason   string
}

// NewVoyageNotEligibleError creates a VoyageNotEligibleError.
func NewVoyageNotEligibleError(voyageID, reason string) *VoyageNotEligibleError {
	return &VoyageNotEligibleError{VoyageID: voyageID, Reason: reason}
}

func (e *VoyageNotEligibleError) Error() string {
	return sanitize(fmt.Sprintf("%s: voyage %s: %s", ErrVoyageNotEligible, e.VoyageID, e.Reason))
}

func (e *VoyageNotEligibleError) Unwrap() error {
	return ErrVoyageNotEligible
}

// CertificateExpiredError is returned when the company's signing certificate
// expired before the submission was attempted. Not retriable until the
// certificate is renewed externally.
type CertificateExpiredError struct {
	CompanyID string
	ExpiredAt time.Time
}

// NewCertificateExpiredError creates a CertificateExpiredError.
func NewCertificateExpiredError(companyID string, expiredAt time.Time) *CertificateExpiredError {
	return &CertificateExpiredError{CompanyID: companyID, ExpiredAt: expiredAt}
}

func (e *CertificateExpiredError) Error() string {
	return sanitize(fmt.Sprintf("%s: company %s, expired at %s",
		ErrCertificateExpired, e.CompanyID, e.ExpiredAt.Format(time.RFC3339)))
}

func (e *CertificateExpiredError) Unwrap() error {
	return ErrCertificateExpired
}

// CertificateMissingError is returned when no active certificate exists for
// the company.
type CertificateMissingError struct {
	CompanyID string
	Cause     error
}

// NewCertificateMissingError creates a CertificateMissingError.
func NewCertificateMissingError(companyID string, cause error) *CertificateMissingError {
	return &CertificateMissingError{CompanyID: companyID, Cause: cause}
}

func (e *CertificateMissingError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: company %s (cause: %v)", ErrCertificateMissing, e.CompanyID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: company %s", ErrCertificateMissing, e.CompanyID))
}

func (e *CertificateMissingError) Unwrap() error {
	return ErrCertificateMissing
}

// NetworkTimeoutError is returned when an authority endpoint did not answer
// within the per-call deadline. Auto-retriable.
type NetworkTimeoutError struct {
	Endpoint string
	Cause    error
}

// NewNetworkTimeoutError creates a NetworkTimeoutError.
func NewNetworkTimeoutError(endpoint string, cause error) *NetworkTimeoutError {
	return &NetworkTimeoutError{Endpoint: endpoint, Cause: cause}
}

func (e *NetworkTimeoutError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrNetworkTimeout, e.Endpoint, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrNetworkTimeout, e.Endpoint))
}

func (e *NetworkTimeoutError) Unwrap() error {
	return ErrNetworkTimeout
}

// TransportError is returned for connection-level failures other than a
// timeout (refused connection, TLS failure, open circuit breaker).
// Auto-retriable.
type TransportError struct {
	Endpoint string
	Cause    error
}

// NewTransportError creates a TransportError.
func NewTransportError(endpoint string, cause error) *TransportError {
	return &TransportError{Endpoint: endpoint, Cause: cause}
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %v)", ErrTransport, e.Endpoint, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrTransport, e.Endpoint))
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// AuthorityRejectedError carries a business-rule rejection exactly as the
// authority returned it. Never auto-retried: the submitter must correct the
// source data and submit again.
type AuthorityRejectedError struct {
	Code    string
	Message string
	Details string
}

// NewAuthorityRejectedError creates an AuthorityRejectedError.
func NewAuthorityRejectedError(code, message, details string) *AuthorityRejectedError {
	return &AuthorityRejectedError{Code: code, Message: message, Details: details}
}

func (e *AuthorityRejectedError) Error() string {
	return sanitize(fmt.Sprintf("%s: [%s] %s", ErrAuthorityRejected, e.Code, e.Message))
}

func (e *AuthorityRejectedError) Unwrap() error {
	return ErrAuthorityRejected
}

// MalformedResponseError is returned when the authority's response could not
// be interpreted. The raw response is preserved for manual review.
type MalformedResponseError struct {
	RawResponse string
	Cause       error
}

// NewMalformedResponseError creates a MalformedResponseError.
func NewMalformedResponseError(rawResponse string, cause error) *MalformedResponseError {
	return &MalformedResponseError{RawResponse: rawResponse, Cause: cause}
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s (cause: %v)", ErrMalformedResponse, e.Cause))
	}
	return ErrMalformedResponse.Error()
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// ConcurrencyConflictError is returned when another submission already holds
// the in-flight slot for the same (voyage, country, webservice type) triple.
// The caller should wait and poll rather than retry immediately.
type ConcurrencyConflictError struct {
	Key string
}

// NewConcurrencyConflictError creates a ConcurrencyConflictError for the
// contested triple key.
func NewConcurrencyConflictError(key string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Key: key}
}

func (e *ConcurrencyConflictError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s", ErrConcurrencyConflict, e.Key))
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// RetryNotPermittedError is returned when a retry is requested for a
// transaction the recovery policy refuses to retry.
type RetryNotPermittedError struct {
	TransactionID string
	Reason        string
}

// NewRetryNotPermittedError creates a RetryNotPermittedError.
func NewRetryNotPermittedError(transactionID, reason string) *RetryNotPermittedError {
	return &RetryNotPermittedError{TransactionID: transactionID, Reason: reason}
}

func (e *RetryNotPermittedError) Error() string {
	return sanitize(fmt.Sprintf("%s: transaction %s: %s", ErrRetryNotPermitted, e.TransactionID, e.Reason))
}

func (e *RetryNotPermittedError) Unwrap() error {
	return ErrRetryNotPermitted
}

// SubmissionInconsistencyError is returned when the authority accepted the
// message but the outcome could not be persisted. The caller must not treat
// the submission as failed; the ledger needs reconciliation.
type SubmissionInconsistencyError struct {
	TransactionID string
	Cause         error
}

// NewSubmissionInconsistencyError creates a SubmissionInconsistencyError.
func NewSubmissionInconsistencyError(transactionID string, cause error) *SubmissionInconsistencyError {
	return &SubmissionInconsistencyError{TransactionID: transactionID, Cause: cause}
}

func (e *SubmissionInconsistencyError) Error() string {
	return sanitize(fmt.Sprintf("%s: transaction %s (cause: %v)",
		ErrSubmissionInconsistency, e.TransactionID, e.Cause))
}

func (e *SubmissionInconsistencyError) Unwrap() error {
	return ErrSubmissionInconsistency
}

// NoClientRegisteredError is returned when the client registry has no entry
// for a (country, webservice type) pair. A deployment configuration fault;
// no transaction is created.
type NoClientRegisteredError struct {
	Country        string
	WebserviceType string
}

// NewNoClientRegisteredError creates a NoClientRegisteredError.
func NewNoClientRegisteredError(country, webserviceType string) *NoClientRegisteredError {
	return &NoClientRegisteredError{Country: country, WebserviceType: webserviceType}
}

func (e *NoClientRegisteredError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s/%s", ErrNoClientRegistered, e.Country, e.WebserviceType))
}

func (e *NoClientRegisteredError) Unwrap() error {
	return ErrNoClientRegistered
}
