package kernel

import (
	"fmt"

	"customs/internal/pkg/errs"
)

// Environment selects the authority endpoint a declaration is sent to.
// Testing submissions go to the homologation endpoints and have no legal
// effect; production submissions are real filings.
type Environment string

const (
	// EnvironmentTesting targets the authority's homologation endpoint.
	EnvironmentTesting Environment = "testing"

	// EnvironmentProduction targets the live endpoint.
	EnvironmentProduction Environment = "production"
)

// EnvironmentFromString parses a target environment.
func EnvironmentFromString(s string) (Environment, error) {
	e := Environment(s)
	if err := e.Validate(); err != nil {
		return "", err
	}
	return e, nil
}

// Validate rejects any value outside the supported environment set.
func (e Environment) Validate() error {
	switch e {
	case EnvironmentTesting, EnvironmentProduction:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("environment",
			fmt.Errorf("%q is not a valid environment", string(e)))
	}
}

// String returns the environment name.
func (e Environment) String() string {
	return string(e)
}
