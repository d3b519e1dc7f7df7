// client.go contains the streaming Workload API client.
package workloadapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sufield/svidsource/internal/ports"
)

// ClientOpts contains optional configuration for the Workload API client.
type ClientOpts struct {
	// FetchTimeout bounds one-shot context fetches (default: DefaultFetchTimeout).
	FetchTimeout time.Duration

	// RetryInterval is the pause between watch reconnects (default: DefaultRetryInterval).
	RetryInterval time.Duration

	// ContextEndpoint overrides the one-shot fetch endpoint (default: DefaultContextEndpoint).
	ContextEndpoint string

	// WatchEndpoint overrides the streaming watch endpoint (default: DefaultWatchEndpoint).
	WatchEndpoint string

	// Logger receives reconnect and delivery diagnostics (default: no-op).
	Logger *zap.Logger
}

// Client streams X.509 contexts from the Workload API over a Unix domain
// socket and implements ports.WorkloadAPIClient.
//
// The watch protocol is a long-lived HTTP GET whose response body is a
// sequence of JSON context documents; each decoded document is delivered to
// the subscribed watcher in order. Dropped streams reconnect with a fixed
// pause until the watch context is canceled or the client is closed.
//
// Thread Safety: Client is safe for concurrent use by multiple goroutines.
type Client struct {
	socketPath      string
	contextEndpoint string
	watchEndpoint   string
	fetchTimeout    time.Duration
	retryInterval   time.Duration
	httpClient      *http.Client
	log             *zap.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

// NewClient creates a Workload API client for the given Unix socket path.
//
// The path must already be resolved and validated; use ResolveSocketPath to
// turn configuration or environment input into a socket path.
func NewClient(socketPath string, opts *ClientOpts) (*Client, error) {
	if socketPath == "" {
		return nil, fmt.Errorf("%w: empty socket path", ErrInvalidAddress)
	}

	if opts == nil {
		opts = &ClientOpts{}
	}
	if opts.FetchTimeout == 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	if opts.ContextEndpoint == "" {
		opts.ContextEndpoint = DefaultContextEndpoint
	}
	if opts.WatchEndpoint == "" {
		opts.WatchEndpoint = DefaultWatchEndpoint
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// No global client timeout: the watch stream stays open indefinitely.
	// One-shot fetches are bounded per request via context.
	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}

	return &Client{
		socketPath:      socketPath,
		contextEndpoint: opts.ContextEndpoint,
		watchEndpoint:   opts.WatchEndpoint,
		fetchTimeout:    opts.FetchTimeout,
		retryInterval:   opts.RetryInterval,
		httpClient:      httpClient,
		log:             log,
		closed:          make(chan struct{}),
	}, nil
}

// WatchX509Context subscribes watcher to streaming context updates.
//
// It blocks the calling goroutine, delivering OnUpdate per decoded document
// and OnError per stream failure, and returns when ctx is canceled or the
// client is closed. Stream failures are not terminal: the client reconnects
// after RetryInterval, so the watcher decides whether an error ends the
// subscription (by canceling ctx or closing the client).
func (c *Client) WatchX509Context(ctx context.Context, watcher ports.Watcher) error {
	if watcher == nil {
		return errors.New("workloadapi: watcher cannot be nil")
	}
	select {
	case <-c.closed:
		return ErrClientClosed
	default:
	}

	// Tie the stream lifetime to both ctx and Close.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.closed:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		err := c.streamOnce(ctx, watcher)
		if err != nil && ctx.Err() == nil {
			watcher.OnError(err)
		}

		select {
		case <-c.closed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryInterval):
			c.log.Debug("reconnecting workload API watch", zap.String("socket", c.socketPath))
		}
	}
}

// streamOnce opens one watch stream and delivers documents until it drops.
// It always returns a non-nil error: a healthy endpoint never ends the stream.
func (c *Client) streamOnce(ctx context.Context, watcher ports.Watcher) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.watchEndpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrEndpointUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		return fmt.Errorf("%w: status %d: %s", ErrServerError, resp.StatusCode, string(body))
	}

	dec := json.NewDecoder(resp.Body)
	for {
		var doc X509ContextResponse
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: watch stream ended", ports.ErrEndpointUnavailable)
			}
			return fmt.Errorf("%w: decode failed: %v", ErrInvalidResponse, err)
		}
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		update, err := doc.ToUpdate()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		watcher.OnUpdate(update)
	}
}

// FetchX509Context performs a one-shot fetch of the current X.509 context.
func (c *Client) FetchX509Context(ctx context.Context) (*ports.Update, error) {
	select {
	case <-c.closed:
		return nil, ErrClientClosed
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contextEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
		return nil, fmt.Errorf("%w: status %d: %s", ErrServerError, resp.StatusCode, string(body))
	}

	var doc X509ContextResponse
	limitedBody := io.LimitReader(resp.Body, MaxResponseBodySize)
	if err := json.NewDecoder(limitedBody).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode failed: %v", ErrInvalidResponse, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	update, err := doc.ToUpdate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return update, nil
}

// Close stops delivery and releases the underlying connections. Safe to call
// multiple times and from any goroutine; only the first call tears down.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.httpClient.CloseIdleConnections()
	})
	return nil
}

// Compile-time interface compliance verification.
var (
	_ ports.WorkloadAPIClient = (*Client)(nil)
)
