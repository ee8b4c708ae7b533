package kernel

import (
	"fmt"

	"customs/internal/pkg/errs"
)

// WebserviceType is the specific declaration message kind, distinct from the
// transport protocol. Each type belongs to exactly one country's protocol.
type WebserviceType string

// Argentina (AFIP) message types.
const (
	// WebserviceAnticipada is the advance cargo information declaration.
	WebserviceAnticipada WebserviceType = "anticipada"

	// WebserviceTitEnvios registers titles and shipments, phase one of the
	// MIC/DTA flow. A successful registration issues the TRACK identifiers
	// the MIC/DTA message must carry.
	WebserviceTitEnvios WebserviceType = "titenvios"

	// WebserviceMicDta is the manifest-of-cargo declaration, phase two of
	// the MIC/DTA flow.
	WebserviceMicDta WebserviceType = "micdta"

	// WebserviceDesconsolidado is the deconsolidation declaration.
	WebserviceDesconsolidado WebserviceType = "desconsolidado"

	// WebserviceTransbordo is the transshipment declaration.
	WebserviceTransbordo WebserviceType = "transbordo"

	// WebserviceMane is the MANE manifest declaration.
	WebserviceMane WebserviceType = "mane"
)

// Paraguay (DNA/GDSF) fluvial manifest message types.
const (
	// WebserviceXFFM is the fluvial freight manifest, head of the GDSF chain.
	WebserviceXFFM WebserviceType = "xffm"

	// WebserviceXFBL is the bill of lading message; requires an approved XFFM.
	WebserviceXFBL WebserviceType = "xfbl"

	// WebserviceXFBT is the transport equipment message; requires an approved XFFM.
	WebserviceXFBT WebserviceType = "xfbt"

	// WebserviceXISP is the inspection place message; requires an approved XFFM.
	WebserviceXISP WebserviceType = "xisp"

	// WebserviceXRSP is the response/status request message; requires an approved XFFM.
	WebserviceXRSP WebserviceType = "xrsp"

	// WebserviceXFCT closes the manifest; requires approved XFBL and XFBT.
	WebserviceXFCT WebserviceType = "xfct"
)

// webserviceCountries maps every supported message type to its authority.
func webserviceCountries() map[WebserviceType]Country {
	return map[WebserviceType]Country{
		WebserviceAnticipada:     CountryAR,
		WebserviceTitEnvios:      CountryAR,
		WebserviceMicDta:         CountryAR,
		WebserviceDesconsolidado: CountryAR,
		WebserviceTransbordo:     CountryAR,
		WebserviceMane:           CountryAR,
		WebserviceXFFM:           CountryPY,
		WebserviceXFBL:           CountryPY,
		WebserviceXFBT:           CountryPY,
		WebserviceXISP:           CountryPY,
		WebserviceXRSP:           CountryPY,
		WebserviceXFCT:           CountryPY,
	}
}

// WebserviceTypeFromString parses a webservice type name.
func WebserviceTypeFromString(s string) (WebserviceType, error) {
	t := WebserviceType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// WebserviceTypesForCountry returns every message type belonging to country.
func WebserviceTypesForCountry(country Country) []WebserviceType {
	types := make([]WebserviceType, 0)
	for t, c := range webserviceCountries() {
		if c == country {
			types = append(types, t)
		}
	}
	return types
}

// Validate rejects any value outside the closed message type set.
func (t WebserviceType) Validate() error {
	if _, ok := webserviceCountries()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("webserviceType",
			fmt.Errorf("%q is not a supported webservice type", string(t)))
	}
	return nil
}

// Country returns the authority this message type belongs to.
// Only meaningful for valid types; invalid types return the zero Country.
func (t WebserviceType) Country() Country {
	return webserviceCountries()[t]
}

// BelongsTo reports whether the message type is part of country's protocol.
// A titenvios message can never be sent to Paraguay, and an xffm never to
// Argentina.
func (t WebserviceType) BelongsTo(country Country) bool {
	c, ok := webserviceCountries()[t]
	return ok && c == country
}

// String returns the message type name.
func (t WebserviceType) String() string {
	return string(t)
}
