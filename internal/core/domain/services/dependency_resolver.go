package services

import (
	"context"
	"errors"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"
	"customs/internal/core/domain/model/wsstatus"
	"customs/internal/pkg/errs"
)

// StatusReader loads the current projection row for one
// (voyage, country, webservice type) triple.
type StatusReader interface {
	GetByTriple(ctx context.Context, voyageID kernel.UUID, country kernel.Country,
		wsType kernel.WebserviceType) (*wsstatus.WebserviceStatus, error)
}

// TrackReader loads the identifiers issued by a successful transaction.
type TrackReader interface {
	ListByTransactionID(ctx context.Context, transactionID kernel.UUID) ([]track.TrackIdentifier, error)
}

// prerequisite is one row of the static ordering table. When requiresTracks
// is set the prerequisite must also have issued at least one TrackIdentifier;
// an approved prerequisite with an empty identifier set does not satisfy the
// dependency.
type prerequisite struct {
	wsType         kernel.WebserviceType
	requiresTracks bool
}

// dependencyTable encodes the required message ordering per webservice type.
// Types absent from the table have no prerequisites.
var dependencyTable = map[kernel.WebserviceType][]prerequisite{
	kernel.WebserviceMicDta: {
		{wsType: kernel.WebserviceTitEnvios, requiresTracks: true},
	},
	kernel.WebserviceXFBL: {
		{wsType: kernel.WebserviceXFFM},
	},
	kernel.WebserviceXFBT: {
		{wsType: kernel.WebserviceXFFM},
	},
	kernel.WebserviceXISP: {
		{wsType: kernel.WebserviceXFFM},
	},
	kernel.WebserviceXRSP: {
		{wsType: kernel.WebserviceXFFM},
	},
	kernel.WebserviceXFCT: {
		{wsType: kernel.WebserviceXFBL},
		{wsType: kernel.WebserviceXFBT},
	},
}

// Eligibility is the outcome of a dependency check. CarryForward holds the
// identifiers a dependent submission must include, collected from every
// track-issuing prerequisite.
type Eligibility struct {
	Eligible     bool
	Missing      []kernel.WebserviceType
	CarryForward []track.TrackIdentifier
}

// DependencyResolver validates that every prerequisite of a webservice type
// has been approved for the voyage before the type may be dispatched.
type DependencyResolver struct {
	statuses StatusReader
	tracks   TrackReader
}

// NewDependencyResolver creates a DependencyResolver.
func NewDependencyResolver(statuses StatusReader, tracks TrackReader) (*DependencyResolver, error) {
	if statuses == nil {
		return nil, errs.NewValueIsRequiredError("statuses")
	}
	if tracks == nil {
		return nil, errs.NewValueIsRequiredError("tracks")
	}
	return &DependencyResolver{statuses: statuses, tracks: tracks}, nil
}

// CheckEligible reports whether wsType may be submitted for the voyage. Every
// prerequisite listed for the type must be Approved, and track-issuing
// prerequisites must have recorded at least one identifier. The returned
// Eligibility lists the missing prerequisites when ineligible.
func (r *DependencyResolver) CheckEligible(ctx context.Context, voyageID kernel.UUID,
	country kernel.Country, wsType kernel.WebserviceType) (Eligibility, error) {
	if !wsType.BelongsTo(country) {
		return Eligibility{}, errs.NewValueIsInvalidError("webserviceType")
	}

	result := Eligibility{Eligible: true}
	for _, prereq := range dependencyTable[wsType] {
		status, err := r.statuses.GetByTriple(ctx, voyageID, country, prereq.wsType)
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) {
				result.Eligible = false
				result.Missing = append(result.Missing, prereq.wsType)
				continue
			}
			return Eligibility{}, err
		}

		if status.Status() != wsstatus.Approved {
			result.Eligible = false
			result.Missing = append(result.Missing, prereq.wsType)
			continue
		}

		if !prereq.requiresTracks {
			continue
		}

		tracks, err := r.loadTracks(ctx, status)
		if err != nil {
			return Eligibility{}, err
		}
		if len(tracks) == 0 {
			result.Eligible = false
			result.Missing = append(result.Missing, prereq.wsType)
			continue
		}
		result.CarryForward = append(result.CarryForward, tracks...)
	}

	if !result.Eligible {
		result.CarryForward = nil
	}
	return result, nil
}

func (r *DependencyResolver) loadTracks(ctx context.Context, status *wsstatus.WebserviceStatus) ([]track.TrackIdentifier, error) {
	lastTxnID := status.LastTransactionID()
	if lastTxnID == nil {
		return nil, nil
	}

	tracks, err := r.tracks.ListByTransactionID(ctx, *lastTxnID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}
	return tracks, nil
}
