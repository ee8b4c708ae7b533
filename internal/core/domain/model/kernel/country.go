package kernel

import (
	"fmt"

	"customs/internal/pkg/errs"
)

// Country identifies the customs authority a declaration targets.
// Only Argentina (AFIP) and Paraguay (DNA) are supported.
type Country string

const (
	// CountryAR targets Argentina's AFIP webservices.
	CountryAR Country = "AR"

	// CountryPY targets Paraguay's DNA/GDSF webservices.
	CountryPY Country = "PY"
)

// CountryFromString parses a country code, accepting only the supported set.
func CountryFromString(s string) (Country, error) {
	c := Country(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate rejects any value outside the supported country set.
func (c Country) Validate() error {
	switch c {
	case CountryAR, CountryPY:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("country",
			fmt.Errorf("%q is not a supported country code", string(c)))
	}
}

// String returns the two-letter country code.
func (c Country) String() string {
	return string(c)
}
