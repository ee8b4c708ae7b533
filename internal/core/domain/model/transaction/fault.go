package transaction

// FaultKind classifies why a submission attempt failed. The retry policy
// decides recovery per kind, and the UI maps kinds to the three user-visible
// buckets: auto-retriable, fix-and-resubmit, and manual review.
type FaultKind int

const (
	// FaultNone means the attempt did not fail.
	FaultNone FaultKind = iota

	// FaultNetworkTimeout: the authority did not answer within the per-call
	// deadline.
	FaultNetworkTimeout

	// FaultTransport: connection-level failure other than a timeout.
	FaultTransport

	// FaultAuthorityRejected: the authority answered with a business-rule
	// rejection. The submitter must correct source data and resubmit.
	FaultAuthorityRejected

	// FaultMalformedResponse: the authority's answer could not be parsed.
	// Intent must not be guessed; an operator has to interpret the raw
	// response.
	FaultMalformedResponse

	// FaultUnknown: an unexpected failure that fits no other kind.
	FaultUnknown
)

func getFaultStrings() map[FaultKind]string {
	return map[FaultKind]string{
		FaultNone:              "None",
		FaultNetworkTimeout:    "NetworkTimeout",
		FaultTransport:         "Transport",
		FaultAuthorityRejected: "AuthorityRejected",
		FaultMalformedResponse: "MalformedResponse",
		FaultUnknown:           "Unknown",
	}
}

// String returns the fault kind name.
func (k FaultKind) String() string {
	if s, ok := getFaultStrings()[k]; ok {
		return s
	}
	return "Unknown"
}

// Retriable reports whether attempts failing with this kind may be retried
// automatically. Only network-level faults qualify: the message itself was
// fine, the wire was not.
func (k FaultKind) Retriable() bool {
	return k == FaultNetworkTimeout || k == FaultTransport
}

// NeedsReview reports whether this kind requires a human operator before any
// further action.
func (k FaultKind) NeedsReview() bool {
	return k == FaultMalformedResponse || k == FaultUnknown
}

// ErrorInfo carries the failure detail of an attempt: the authority's own
// error code and message where one was returned, structured details for
// dispute resolution, and the fault classification.
type ErrorInfo struct {
	Code    string
	Message string
	Details string
	Fault   FaultKind
}
