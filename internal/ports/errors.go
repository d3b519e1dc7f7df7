package ports

import "errors"

// Infrastructure errors for the adapter layer.
//
// These represent transport and endpoint concerns and are separate from
// domain errors, which represent semantic failures. Adapters return these;
// the domain layer never imports them.

// ErrEndpointUnavailable indicates the Workload API endpoint could not be
// reached or dropped the subscription.
var ErrEndpointUnavailable = errors.New("workload API endpoint unavailable")

// ErrNoInitialUpdate indicates the subscription terminated before the first
// update arrived.
var ErrNoInitialUpdate = errors.New("subscription ended before first update")

// Compile-time check that errors implement the error interface.
var (
	_ error = ErrEndpointUnavailable
	_ error = ErrNoInitialUpdate
)
