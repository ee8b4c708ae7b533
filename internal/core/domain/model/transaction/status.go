package transaction

import (
	"fmt"

	"customs/internal/pkg/errs"
)

// Status represents the lifecycle state of a single submission attempt.
//
// State transitions:
//
//	Pending ──> Sent ──┬──> Success
//	   │               └──> Error
//	   └──────────────────> Error
//	         (dispatch failed before the network send)
//
// Success and Error are terminal; a terminal transaction never transitions
// again. Recovery happens through a new Transaction, not by reopening this
// one.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the attempt is recorded but the
	// network call has not started.
	Pending

	// Sent indicates the request went out on the wire and the authority's
	// answer is awaited.
	Sent

	// Success indicates the authority accepted the message. Terminal.
	Success

	// Error indicates the attempt failed: a transport fault, a timeout, a
	// rejection, or an unparseable response. Terminal.
	Error
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown: "Unknown",
		Pending: "Pending",
		Sent:    "Sent",
		Success: "Success",
		Error:   "Error",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending: "Pending",
		Sent:    "Sent",
		Success: "Success",
		Error:   "Error",
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

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Success || s == Error
}

// Send transitions the status to Sent. Only valid from Pending.
func (s Status) Send() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to send from", s.String()),
		)
	}
	return Sent, nil
}

// Succeed transitions the status to Success. Only valid from Sent: a
// transaction that was never dispatched cannot have been accepted.
func (s Status) Succeed() (Status, error) {
	if s != Sent {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to succeed from", s.String()),
		)
	}
	return Success, nil
}

// Fail transitions the status to Error. Valid from Pending (dispatch failed
// before the send) and Sent (the authority answered with a failure, the call
// timed out, or the response was unusable).
func (s Status) Fail() (Status, error) {
	if s != Pending && s != Sent {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to fail from", s.String()),
		)
	}
	return Error, nil
}
