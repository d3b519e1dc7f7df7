// Package helper persists workload X.509 credentials to PEM files.
//
// It is the file-based counterpart of pkg/x509source: instead of serving
// credentials to in-process callers, it subscribes to the Workload API and
// writes the certificate chain, private key, and trust bundle to configured
// paths on every refresh, so sidecar-less processes (proxies, legacy TLS
// stacks) can pick up rotated material from disk.
package helper

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/sufield/svidsource/internal/adapters/outbound/workloadapi"
	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/ports"
)

// Helper watches the Workload API and mirrors credential material to disk.
type Helper struct {
	cfg      Config
	certMode os.FileMode
	keyMode  os.FileMode
	selector domain.Selector
	client   ports.WorkloadAPIClient
	log      *zap.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     bool
	writeErr error
}

// New creates a Helper, resolving the Workload API endpoint from the config
// (or the SPIFFE_ENDPOINT_SOCKET environment variable, when not overridden).
func New(cfg Config, log *zap.Logger) (*Helper, error) {
	socketPath, err := workloadapi.ResolveSocketPath(cfg.EndpointAddress)
	if err != nil {
		return nil, err
	}
	client, err := workloadapi.NewClient(socketPath, &workloadapi.ClientOpts{Logger: log})
	if err != nil {
		return nil, err
	}
	return NewWithClient(cfg, client, log)
}

// NewWithClient creates a Helper over an already-constructed client. The
// helper takes ownership of the client and closes it when Run returns.
func NewWithClient(cfg Config, client ports.WorkloadAPIClient, log *zap.Logger) (*Helper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	certMode, err := cfg.certFileMode()
	if err != nil {
		return nil, err
	}
	keyMode, err := cfg.keyFileMode()
	if err != nil {
		return nil, err
	}

	var selector domain.Selector = domain.DefaultSelector{}
	if cfg.Hint != "" {
		selector = domain.HintSelector{Hint: cfg.Hint}
	}

	return &Helper{
		cfg:      cfg,
		certMode: certMode,
		keyMode:  keyMode,
		selector: selector,
		client:   client,
		log:      log,
	}, nil
}

// Run subscribes and blocks, writing files on every update.
//
// In oneshot mode Run returns after the first write attempt, with its
// result. In daemon mode (the default) it keeps mirroring rotations until
// ctx is canceled, which counts as a clean shutdown; write failures are
// logged and the subscription stays alive, keeping the last good files.
func (h *Helper) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()
	defer cancel()
	defer func() { _ = h.client.Close() }()

	err := h.client.WatchX509Context(runCtx, h)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		// Oneshot completed; report the write result.
		return h.writeErr
	}
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// OnUpdate implements ports.Watcher.
func (h *Helper) OnUpdate(update *ports.Update) {
	cred, err := h.selector.Select(update.Credentials)
	if err != nil {
		h.log.Warn("discarding workload API update", zap.Error(err))
		return
	}

	err = h.writeFiles(cred, update.Bundles)
	if err != nil {
		h.log.Warn("failed to write credential files", zap.Error(err))
	} else {
		h.log.Info("wrote credential files",
			zap.String("spiffe_id", cred.ID()),
			zap.String("cert_file", h.cfg.CertFilePath))
	}

	if h.cfg.Oneshot {
		h.mu.Lock()
		h.done = true
		h.writeErr = err
		cancel := h.cancel
		h.mu.Unlock()
		cancel()
	}
}

// OnError implements ports.Watcher. The subscription retries on its own;
// the last good files stay in place meanwhile.
func (h *Helper) OnError(err error) {
	h.log.Warn("workload API watch error", zap.Error(err))
}

func (h *Helper) writeFiles(cred *domain.Credential, bundles *domain.BundleSet) error {
	certPEM := encodeCertificates(cred.Certificates())
	keyPEM, err := encodePrivateKey(cred)
	if err != nil {
		return err
	}

	var roots []*x509.Certificate
	for _, td := range bundles.TrustDomains() {
		bundle, err := bundles.GetBundleForTrustDomain(td)
		if err != nil {
			return err
		}
		roots = append(roots, bundle.X509Authorities()...)
	}
	bundlePEM := encodeCertificates(roots)

	if err := writeFileAtomic(h.cfg.CertFilePath, certPEM, h.certMode); err != nil {
		return fmt.Errorf("writing certificate file: %w", err)
	}
	if err := writeFileAtomic(h.cfg.KeyFilePath, keyPEM, h.keyMode); err != nil {
		return fmt.Errorf("writing key file: %w", err)
	}
	if err := writeFileAtomic(h.cfg.BundleFilePath, bundlePEM, h.certMode); err != nil {
		return fmt.Errorf("writing bundle file: %w", err)
	}
	return nil
}

func encodeCertificates(certs []*x509.Certificate) []byte {
	var out []byte
	for _, cert := range certs {
		out = append(out, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})...)
	}
	return out
}

func encodePrivateKey(cred *domain.Credential) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(cred.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("marshaling private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// writeFileAtomic writes via a temp file in the target directory and
// renames it into place, so readers never see a partial file.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Compile-time interface compliance verification.
var _ ports.Watcher = (*Helper)(nil)
