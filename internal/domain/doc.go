// Package domain contains the value objects for workload identity material:
// trust domains, X.509 credentials (SVIDs), trust bundles, and the selector
// strategy used to pick one credential out of a Workload API update.
//
// Everything in this package is immutable after construction and safe for
// concurrent use. Parsing and validation of raw wire material (PEM, SPIFFE ID
// strings) is delegated to the adapter layer; the domain only models the
// concepts as value objects.
package domain
