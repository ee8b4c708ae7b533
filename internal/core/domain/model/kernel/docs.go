// Package kernel contains the shared value objects of the customs domain:
// identifiers, country codes, target environments, and the closed set of
// webservice message types. Every value object is immutable and validates
// itself; the zero value of each type is invalid and is rejected by
// Validate().
package kernel
