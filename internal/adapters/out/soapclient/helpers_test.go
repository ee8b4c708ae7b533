package soapclient_test

import (
	"testing"

	"customs/internal/core/domain/model/kernel"
	"customs/internal/core/domain/model/track"

	"github.com/stretchr/testify/require"
)

func carriedTracks(t *testing.T, numbers ...string) []track.TrackIdentifier {
	t.Helper()

	origin := kernel.NewUUID()
	identifiers := make([]track.TrackIdentifier, 0, len(numbers))
	for _, number := range numbers {
		identifier, err := track.NewTrackIdentifier(number, "envio", origin, "")
		require.NoError(t, err)
		identifiers = append(identifiers, identifier)
	}
	return identifiers
}
