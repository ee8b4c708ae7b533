package ports

import (
	"context"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
)

// SendRequest carries everything a webservice client needs to execute one
// dispatch: the attempt identity, the target, the identifiers carried
// forward from prerequisite submissions, and the signing certificate.
type SendRequest struct {
	TransactionID   kernel.UUID
	VoyageID        kernel.UUID
	Country         kernel.Country
	WebserviceType  kernel.WebserviceType
	Environment     kernel.Environment
	CarryForward    []track.TrackIdentifier
	CertificatePath string
}

// SendResult is the outcome of a successful dispatch. RawRequest and
// RawResponse are the exact payloads exchanged with the authority and are
// persisted verbatim on the transaction.
type SendResult struct {
	ConfirmationNumber string
	Tracks             []track.TrackIdentifier
	RawRequest         string
	RawResponse        string
}

// WebserviceClient executes one submission against an authority endpoint.
//
// Errors returned by Send classify the failure: network timeouts and
// transport breakdowns are automatically retriable, authority rejections
// need corrected input, and responses that cannot be interpreted need
// operator review. Clients must honor ctx cancellation and deadlines.
type WebserviceClient interface {
	Send(ctx context.Context, request SendRequest) (SendResult, error)
}

// ClientRegistry resolves the client for a (country, type) pair. Country
// identity matters only here and in the dependency tables.
type ClientRegistry interface {
	// ClientFor returns the registered client, or a NoClientRegistered
	// error when the pair has no implementation.
	ClientFor(country kernel.Country, wsType kernel.WebserviceType) (WebserviceClient, error)
}
