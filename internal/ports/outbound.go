package ports

import "context"

// WorkloadAPIClient is the outbound port to the credential issuance endpoint.
//
// Implementations stream X.509 context updates from a Workload API endpoint
// and deliver them to a Watcher. The port deliberately hides the transport;
// the cache layer never sees sockets, HTTP, or wire formats.
type WorkloadAPIClient interface {
	// WatchX509Context subscribes watcher to credential updates and blocks
	// until ctx is canceled or the client is closed. Events are delivered
	// from the calling goroutine: run it in a goroutine the caller owns.
	WatchX509Context(ctx context.Context, watcher Watcher) error

	// FetchX509Context performs a one-shot fetch of the current credential
	// context without subscribing.
	FetchX509Context(ctx context.Context) (*Update, error)

	// Close stops delivery and releases the connection. Idempotent; callers
	// invoke it at most once per logical subscription but concurrent calls
	// are safe.
	Close() error
}
