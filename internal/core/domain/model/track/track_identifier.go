// Package track contains the TrackIdentifier value object: an identifier
// issued by a customs authority in response to a dependency-generating
// message (Argentina's "Títulos y Envíos" step) and required as input by a
// dependent message (MIC/DTA). Tracks are created only as a side effect of a
// successful transaction, consumed read-only, and never mutated.
package track

import (
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/pkg/errs"
	"customs/internal/pkg/guard"
)

// ErrTrackIdentifierIsNotConstructed is returned when a TrackIdentifier was
// not created through NewTrackIdentifier.
var ErrTrackIdentifierIsNotConstructed = errors.New("TrackIdentifier must be created via NewTrackIdentifier")

// TrackIdentifier is an authority-issued identifier carried forward from a
// prerequisite submission into a dependent one.
type TrackIdentifier struct {
	number        string
	trackType     string
	transactionID kernel.UUID
	reference     string

	guard guard.ConstructorGuard
}

// NewTrackIdentifier creates a TrackIdentifier issued by the transaction
// identified by transactionID. The number is mandatory; trackType and
// reference are recorded as the authority returned them.
func NewTrackIdentifier(number, trackType string, transactionID kernel.UUID, reference string) (TrackIdentifier, error) {
	if number == "" {
		return TrackIdentifier{}, errs.NewValueIsRequiredError("track number")
	}
	if err := transactionID.Validate(); err != nil {
		return TrackIdentifier{}, errs.NewValueIsRequiredErrorWithCause("originating transaction", err)
	}

	return TrackIdentifier{
		number:        number,
		trackType:     trackType,
		transactionID: transactionID,
		reference:     reference,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the TrackIdentifier was created through its constructor.
func (t TrackIdentifier) Validate() error {
	return t.guard.Validate(ErrTrackIdentifierIsNotConstructed)
}

// Number returns the authority-issued track number.
func (t TrackIdentifier) Number() string {
	return t.number
}

// Type returns the track type as reported by the authority.
func (t TrackIdentifier) Type() string {
	return t.trackType
}

// TransactionID returns the successful transaction that issued this track.
func (t TrackIdentifier) TransactionID() kernel.UUID {
	return t.transactionID
}

// Reference returns the shipment reference the track belongs to.
func (t TrackIdentifier) Reference() string {
	return t.reference
}
