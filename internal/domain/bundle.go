package domain

import (
	"crypto/x509"
	"fmt"
)

// Bundle is the set of trusted root certificates for exactly one trust
// domain. Immutable once constructed.
type Bundle struct {
	trustDomain *TrustDomain
	authorities []*x509.Certificate
}

// NewBundle creates a Bundle for the given trust domain. The authorities
// slice is copied; it may be empty but the trust domain is required.
func NewBundle(td *TrustDomain, authorities []*x509.Certificate) (*Bundle, error) {
	if td == nil || td.String() == "" {
		return nil, fmt.Errorf("%w", ErrInvalidTrustDomain)
	}

	roots := make([]*x509.Certificate, len(authorities))
	copy(roots, authorities)

	return &Bundle{
		trustDomain: td,
		authorities: roots,
	}, nil
}

// TrustDomain returns the trust domain this bundle belongs to.
func (b *Bundle) TrustDomain() *TrustDomain {
	return b.trustDomain
}

// X509Authorities returns the root certificates. The returned slice is a
// copy; callers may not mutate the bundle through it.
func (b *Bundle) X509Authorities() []*x509.Certificate {
	roots := make([]*x509.Certificate, len(b.authorities))
	copy(roots, b.authorities)
	return roots
}
