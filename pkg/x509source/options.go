package x509source

import (
	"time"

	"go.uber.org/zap"

	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/ports"
)

// WatchErrorPolicy decides what a running source does when the Workload API
// reports an error after the first update has been applied.
type WatchErrorPolicy int

const (
	// KeepLastGood logs the error and keeps serving the last applied
	// snapshot. The subscription keeps retrying. This is the default.
	KeepLastGood WatchErrorPolicy = iota

	// CloseOnError closes the source on the first post-initialization watch
	// error. Accessors return ErrClosed from then on.
	CloseOnError
)

type options struct {
	endpointAddress  string
	selector         domain.Selector
	client           ports.WorkloadAPIClient
	logger           *zap.Logger
	initTimeout      time.Duration
	watchErrorPolicy WatchErrorPolicy
}

// Option configures an X509Source.
type Option func(*options)

// WithEndpointAddress overrides the Workload API endpoint address normally
// resolved from the SPIFFE_ENDPOINT_SOCKET environment variable.
func WithEndpointAddress(addr string) Option {
	return func(o *options) {
		o.endpointAddress = addr
	}
}

// WithSelector overrides the credential selection strategy. The default is
// domain.DefaultSelector, which picks the first (default) candidate.
func WithSelector(s domain.Selector) Option {
	return func(o *options) {
		o.selector = s
	}
}

// WithClient supplies an already-constructed Workload API client instead of
// dialing the resolved endpoint. The source takes ownership and closes the
// client on Close.
func WithClient(c ports.WorkloadAPIClient) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithLogger sets the logger for watch diagnostics. Defaults to a no-op.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// WithInitTimeout bounds the construction-time wait for the first update.
// Zero (the default) means New waits until the first update, a watch
// failure, or ctx cancellation. When the timeout elapses first, New returns
// ErrInitTimeout and no source is created.
func WithInitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.initTimeout = d
	}
}

// WithWatchErrorPolicy sets the post-initialization watch error policy.
func WithWatchErrorPolicy(p WatchErrorPolicy) Option {
	return func(o *options) {
		o.watchErrorPolicy = p
	}
}

func buildOptions(opts []Option) options {
	o := options{
		selector:         domain.DefaultSelector{},
		watchErrorPolicy: KeepLastGood,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
