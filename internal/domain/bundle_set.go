package domain

import "fmt"

// BundleSet maps trust domains to their bundles. It is built once from an
// update and never mutated afterwards, so lookups are safe without locking.
type BundleSet struct {
	bundles map[string]*Bundle
}

// NewBundleSet creates a BundleSet from the given bundles, keyed by canonical
// trust domain name. A later bundle for the same trust domain replaces an
// earlier one.
func NewBundleSet(bundles []*Bundle) *BundleSet {
	m := make(map[string]*Bundle, len(bundles))
	for _, b := range bundles {
		m[b.TrustDomain().String()] = b
	}
	return &BundleSet{bundles: m}
}

// GetBundleForTrustDomain returns the bundle for the given trust domain, or
// ErrBundleNotFound when the set has no entry for it.
func (s *BundleSet) GetBundleForTrustDomain(td *TrustDomain) (*Bundle, error) {
	if td == nil || td.String() == "" {
		return nil, fmt.Errorf("%w", ErrInvalidTrustDomain)
	}
	b, ok := s.bundles[td.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBundleNotFound, td.String())
	}
	return b, nil
}

// Len returns the number of trust domains in the set.
func (s *BundleSet) Len() int {
	return len(s.bundles)
}

// TrustDomains returns the trust domains present in the set, in no
// particular order.
func (s *BundleSet) TrustDomains() []*TrustDomain {
	tds := make([]*TrustDomain, 0, len(s.bundles))
	for _, b := range s.bundles {
		tds = append(tds, b.TrustDomain())
	}
	return tds
}
