// Package errs provides standardized error types for the customs submission
// orchestrator. It implements a consistent pattern for error creation,
// formatting, and unwrapping that is used throughout the application.
//
// The package contains two families of errors:
//
// Generic validation errors shared by every layer:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ValueIsOutOfRangeError: for numeric bounds violations
//   - ObjectNotFoundError: for when an object cannot be found
//   - VersionIsInvalidError: for optimistic concurrency version mismatches
//
// Submission fault taxonomy, mirroring the outcomes a declaration attempt
// against a customs authority can have:
//   - DependencyNotSatisfiedError: a prerequisite message has not been approved
//   - VoyageNotEligibleError: the voyage lacks required manifest data
//   - CertificateExpiredError / CertificateMissingError: configuration faults
//   - NetworkTimeoutError / TransportError: auto-retriable network faults
//   - AuthorityRejectedError: business-rule rejection from the authority
//   - MalformedResponseError: unparseable authority response, needs review
//   - ConcurrencyConflictError: another submission in flight for the same
//     (voyage, country, webservice type) triple
//   - RetryNotPermittedError: retry requested for a non-retriable transaction
//   - SubmissionInconsistencyError: the network call succeeded but the ledger
//     write failed, leaving state that requires reconciliation
//   - NoClientRegisteredError: no webservice client for a (country, type) pair
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrAuthorityRejected)
//   - A struct type with fields for error details
//   - Constructor functions, with and without cause where applicable
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel for errors.Is classification
package errs
