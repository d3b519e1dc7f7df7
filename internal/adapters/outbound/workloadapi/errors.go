// errors.go contains sentinel errors and configuration constants for the workloadapi package.
package workloadapi

import (
	"errors"
	"time"
)

// Configuration defaults for the Workload API client.
const (
	// SocketEnvVar is the environment variable holding the default Workload
	// API endpoint address when no override is configured.
	SocketEnvVar = "SPIFFE_ENDPOINT_SOCKET"

	// DefaultFetchTimeout bounds one-shot context fetches.
	DefaultFetchTimeout = 30 * time.Second

	// DefaultRetryInterval is the pause between watch stream reconnects.
	DefaultRetryInterval = 5 * time.Second

	// DefaultContextEndpoint is the HTTP endpoint for one-shot X.509 context fetches.
	DefaultContextEndpoint = "http://unix/svid/x509/context"

	// DefaultWatchEndpoint is the HTTP endpoint for the streaming X.509 context watch.
	DefaultWatchEndpoint = "http://unix/svid/x509/context/watch"

	// MaxErrorBodySize limits how much of an error response body is read (in bytes).
	MaxErrorBodySize = 4096

	// MaxResponseBodySize limits the size of a one-shot response body.
	MaxResponseBodySize = 1 << 20 // 1 MiB
)

// Sentinel errors for inspectable error handling.
// These are compared using errors.Is().
var (
	// ErrInvalidAddress indicates the endpoint address is missing or malformed.
	// Valid addresses are absolute socket paths ("/tmp/agent.sock"), abstract
	// sockets ("@agent"), or either with a unix:// scheme prefix.
	ErrInvalidAddress = errors.New("workloadapi: invalid endpoint address")

	// ErrFetchFailed indicates that fetching the X.509 context failed.
	ErrFetchFailed = errors.New("workloadapi: failed to fetch X.509 context")

	// ErrInvalidResponse indicates the endpoint returned a malformed or incomplete document.
	ErrInvalidResponse = errors.New("workloadapi: invalid response from endpoint")

	// ErrServerError indicates the endpoint returned a non-200 HTTP status.
	ErrServerError = errors.New("workloadapi: endpoint returned error")

	// ErrClientClosed indicates an operation was attempted on a closed client.
	ErrClientClosed = errors.New("workloadapi: client is closed")
)
