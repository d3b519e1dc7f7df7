package domain

import (
	"crypto"
	"crypto/x509"
	"fmt"
)

// Credential is an X.509 SVID: an identity certificate chain plus the private
// key it certifies, bound to a single workload identity.
//
// A Credential is immutable once constructed and safe to share across
// goroutines. The issuing layer (Workload API adapter) produces Credentials;
// consumers only ever hold references to the latest one.
type Credential struct {
	id            string
	leaf          *x509.Certificate
	intermediates []*x509.Certificate
	signer        crypto.Signer
	hint          string
}

// NewCredential creates a Credential from parsed certificate material.
//
// id is the workload's SPIFFE ID in string form (already validated by the
// adapter). chain must be leaf-first and non-empty. signer is the private key
// matching the leaf certificate. hint is an optional operator-provided label
// distinguishing multiple identities issued to the same workload.
func NewCredential(id string, chain []*x509.Certificate, signer crypto.Signer, hint string) (*Credential, error) {
	if id == "" {
		return nil, fmt.Errorf("credential id is required")
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("credential certificate chain is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("credential private key is required")
	}

	intermediates := make([]*x509.Certificate, len(chain)-1)
	copy(intermediates, chain[1:])

	return &Credential{
		id:            id,
		leaf:          chain[0],
		intermediates: intermediates,
		signer:        signer,
		hint:          hint,
	}, nil
}

// ID returns the SPIFFE ID of the workload this credential identifies.
func (c *Credential) ID() string {
	return c.id
}

// Leaf returns the identity certificate.
func (c *Credential) Leaf() *x509.Certificate {
	return c.leaf
}

// Certificates returns the full chain, leaf first. The returned slice is a
// copy; callers may not mutate the credential through it.
func (c *Credential) Certificates() []*x509.Certificate {
	chain := make([]*x509.Certificate, 0, 1+len(c.intermediates))
	chain = append(chain, c.leaf)
	chain = append(chain, c.intermediates...)
	return chain
}

// PrivateKey returns the private key matching the leaf certificate.
func (c *Credential) PrivateKey() crypto.Signer {
	return c.signer
}

// Hint returns the operator-provided label for this credential, or "" when
// the issuer did not set one.
func (c *Credential) Hint() string {
	return c.hint
}
