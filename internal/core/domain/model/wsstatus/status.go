package wsstatus

import (
	"fmt"

	"customs/internal/pkg/errs"
)

// Status is the current aggregate state of one (voyage, country, webservice
// type) declaration track, as shown to operators and consumed by retry
// eligibility checks.
//
// State transitions:
//
//	Pending ──> Validating ──> Sent ──┬──> Approved
//	   │            ▲                 └──> Rejected ──> Validating
//	   │            │                           (retry re-entry)
//	   └────────────┴───────> Expired
//	        (stale, never completed)
//
// No transition skips Validating. Approved and Rejected are the only
// terminal non-expired states; Expired is terminal and time-based.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending: the declaration track exists but nothing was dispatched yet.
	Pending

	// Validating: a submission attempt is being prepared and checked.
	Validating

	// Sent: the message is on the wire awaiting the authority's verdict.
	Sent

	// Approved: the authority accepted the declaration. Terminal.
	Approved

	// Rejected: the latest attempt failed. Re-enterable via retry.
	Rejected

	// Expired: the track went stale before completing. Terminal.
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Validating: "Validating",
		Sent:       "Sent",
		Approved:   "Approved",
		Rejected:   "Rejected",
		Expired:    "Expired",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:    "Pending",
		Validating: "Validating",
		Sent:       "Sent",
		Approved:   "Approved",
		Rejected:   "Rejected",
		Expired:    "Expired",
	}
}

// allowedTransitions encodes the state machine. Keys are current states,
// values the set of permitted next states.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Validating, Expired},
		Validating: {Sent, Rejected, Expired},
		Sent:       {Approved, Rejected, Expired},
		Rejected:   {Validating},
		Approved:   {},
		Expired:    {},
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Approved || s == Expired
}

// CanTransitionTo reports whether moving from s to next is a legal step of
// the state machine.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
