package domain

// TrustDomain represents the administrative namespace that scopes a set of
// trusted roots (e.g. example.org).
//
// This is a minimal domain type that holds an already-canonical trust domain
// name. Parsing and validation are delegated to the adapter layer, which uses
// the go-spiffe SDK as the authority for DNS-name rules and normalization; the
// domain only models the concept as a value object.
type TrustDomain struct {
	name string
}

// NewTrustDomainFromName creates a TrustDomain from an already-validated,
// canonical name. Name must not be empty.
func NewTrustDomainFromName(name string) *TrustDomain {
	return &TrustDomain{name: name}
}

// String returns the trust domain name.
func (td *TrustDomain) String() string {
	return td.name
}

// Equals checks if two trust domains are equal. Names are expected to be
// canonical (lowercased) already, so comparison is case-sensitive.
func (td *TrustDomain) Equals(other *TrustDomain) bool {
	if other == nil {
		return false
	}
	return td.name == other.name
}
