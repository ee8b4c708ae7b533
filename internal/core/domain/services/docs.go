// Package services contains stateless domain services shared across
// use cases: webservice sequencing rules, retry classification and the
// ledger-to-status projection.
package services
