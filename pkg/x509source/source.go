package x509source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sufield/svidsource/internal/adapters/outbound/workloadapi"
	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/ports"
)

// ErrInitTimeout indicates the first Workload API update did not arrive
// within the configured WithInitTimeout window.
var ErrInitTimeout = errors.New("x509source: timed out waiting for initial update")

// X509Source is a live source of X.509 workload identity credentials.
//
// It owns a single Workload API subscription and a snapshot of the latest
// {credential, bundle set} pair. The snapshot is replaced wholesale on every
// update, under the same lock that guards reads and the closed flag, so:
//
//   - a reader never observes a half-replaced snapshot or fields from two
//     different updates;
//   - a reader that saw update k never later observes an earlier update;
//   - once closed, every accessor returns domain.ErrClosed, forever.
//
// All methods are safe for concurrent use.
type X509Source struct {
	mu      sync.RWMutex
	svid    *domain.Credential
	bundles *domain.BundleSet
	closed  bool

	selector domain.Selector
	client   ports.WorkloadAPIClient
	log      *zap.Logger
	policy   WatchErrorPolicy

	// Single-use initialization gate: closed by the first update or the
	// first pre-init watch error, never re-armed.
	initOnce sync.Once
	initDone chan struct{}
	initErr  error

	closeOnce   sync.Once
	closeErr    error
	cancelWatch context.CancelFunc
}

// New creates an X509Source and blocks until the Workload API delivers the
// first update.
//
// Endpoint resolution: WithEndpointAddress wins, otherwise the
// SPIFFE_ENDPOINT_SOCKET environment variable; a missing or malformed
// address fails synchronously with workloadapi.ErrInvalidAddress. When
// WithClient is given, no resolution happens and the supplied client is
// used as-is.
//
// The wait ends on the first of: the first update (success), a watch
// failure before any update (the failure is returned and no source is
// created), ctx cancellation, or the WithInitTimeout deadline
// (ErrInitTimeout). ctx only bounds this initial wait: after New returns,
// the subscription runs until Close, regardless of ctx.
func New(ctx context.Context, opts ...Option) (*X509Source, error) {
	o := buildOptions(opts)

	client := o.client
	if client == nil {
		socketPath, err := workloadapi.ResolveSocketPath(o.endpointAddress)
		if err != nil {
			return nil, err
		}
		client, err = workloadapi.NewClient(socketPath, &workloadapi.ClientOpts{Logger: o.logger})
		if err != nil {
			return nil, err
		}
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	s := &X509Source{
		selector:    o.selector,
		client:      client,
		log:         o.logger,
		policy:      o.watchErrorPolicy,
		initDone:    make(chan struct{}),
		cancelWatch: cancel,
	}

	go func() {
		err := client.WatchX509Context(watchCtx, &sourceWatcher{s: s})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.Debug("workload API watch ended", zap.Error(err))
		}
		// The subscription can end without ever delivering an event, e.g.
		// when the client is closed externally. Release any pending waiter.
		s.failInit(ports.ErrNoInitialUpdate)
	}()

	var timeoutC <-chan time.Time
	if o.initTimeout > 0 {
		t := time.NewTimer(o.initTimeout)
		defer t.Stop()
		timeoutC = t.C
	}

	select {
	case <-s.initDone:
		if s.initErr != nil {
			_ = s.Close()
			return nil, fmt.Errorf("x509source: initialization failed: %w", s.initErr)
		}
	case <-ctx.Done():
		_ = s.Close()
		return nil, fmt.Errorf("x509source: initialization canceled: %w", ctx.Err())
	case <-timeoutC:
		_ = s.Close()
		return nil, ErrInitTimeout
	}

	return s, nil
}

// GetX509SVID returns the credential from the current snapshot.
// It returns domain.ErrClosed after Close.
func (s *X509Source) GetX509SVID() (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrClosed
	}
	return s.svid, nil
}

// GetBundleForTrustDomain returns the bundle for td from the current
// snapshot. It returns domain.ErrClosed after Close, and
// domain.ErrBundleNotFound when the snapshot has no bundle for td.
func (s *X509Source) GetBundleForTrustDomain(td *domain.TrustDomain) (*domain.Bundle, error) {
	s.mu.RLock()
	bundles := s.bundles
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		return nil, domain.ErrClosed
	}
	return bundles.GetBundleForTrustDomain(td)
}

// Close tears down the Workload API subscription and flips the source into
// its terminal closed state.
//
// Safe under arbitrary concurrent invocation: exactly one caller performs
// the teardown, every other call is a no-op returning the same result. By
// the time any Close call returns, all accessors observe the closed state.
func (s *X509Source) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.svid = nil
		s.bundles = nil
		s.mu.Unlock()

		s.cancelWatch()
		s.closeErr = s.client.Close()
	})
	return s.closeErr
}

// failInit releases a pending New waiter with err. No-op once the gate has
// been released, successfully or not.
func (s *X509Source) failInit(err error) {
	s.initOnce.Do(func() {
		s.initErr = err
		close(s.initDone)
	})
}

// sourceWatcher receives Workload API events on behalf of the source. Kept
// separate so X509Source does not expose OnUpdate/OnError publicly.
type sourceWatcher struct {
	s *X509Source
}

// OnUpdate applies one coherent update: the selector picks the credential,
// then credential and bundle set are swapped in together under the write
// lock. The first applied update releases the construction gate.
func (w *sourceWatcher) OnUpdate(update *ports.Update) {
	s := w.s

	cred, err := s.selector.Select(update.Credentials)
	if err != nil {
		s.log.Warn("discarding workload API update", zap.Error(err))
		// Before the first applied update this fails construction; after,
		// the last good snapshot stays in place.
		s.failInit(err)
		return
	}

	s.mu.Lock()
	if !s.closed {
		s.svid = cred
		s.bundles = update.Bundles
	}
	s.mu.Unlock()

	s.log.Debug("applied workload API update",
		zap.String("spiffe_id", cred.ID()),
		zap.Int("trust_domains", update.Bundles.Len()))

	s.initOnce.Do(func() {
		close(s.initDone)
	})
}

// OnError releases the construction gate when no update has been applied
// yet; construction then fails with this error. After initialization the
// configured WatchErrorPolicy decides between serving the stale snapshot
// and closing the source.
func (w *sourceWatcher) OnError(err error) {
	s := w.s

	released := false
	s.initOnce.Do(func() {
		s.initErr = err
		close(s.initDone)
		released = true
	})
	if released {
		return
	}

	s.log.Warn("workload API watch error", zap.Error(err))
	if s.policy == CloseOnError {
		_ = s.Close()
	}
}

// Compile-time interface compliance verification.
var _ ports.Watcher = (*sourceWatcher)(nil)
