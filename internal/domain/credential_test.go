package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/testhelpers"
)

func TestNewCredentialValidation(t *testing.T) {
	t.Parallel()

	ca := testhelpers.NewCA(t, "example.org")
	chain, key := ca.NewSVID(t, "spiffe://example.org/workload")

	tests := []struct {
		name    string
		run     func() (*domain.Credential, error)
		wantErr string
	}{
		{
			name: "missing id",
			run: func() (*domain.Credential, error) {
				return domain.NewCredential("", chain, key, "")
			},
			wantErr: "id is required",
		},
		{
			name: "missing chain",
			run: func() (*domain.Credential, error) {
				return domain.NewCredential("spiffe://example.org/workload", nil, key, "")
			},
			wantErr: "certificate chain is required",
		},
		{
			name: "missing key",
			run: func() (*domain.Credential, error) {
				return domain.NewCredential("spiffe://example.org/workload", chain, nil, "")
			},
			wantErr: "private key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cred, err := tt.run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, cred)
		})
	}
}

func TestCredentialAccessors(t *testing.T) {
	t.Parallel()

	ca := testhelpers.NewCA(t, "example.org")
	chain, key := ca.NewSVID(t, "spiffe://example.org/workload")
	chain = append(chain, ca.Cert) // leaf + intermediate

	cred, err := domain.NewCredential("spiffe://example.org/workload", chain, key, "internal")
	require.NoError(t, err)

	assert.Equal(t, "spiffe://example.org/workload", cred.ID())
	assert.Equal(t, "internal", cred.Hint())
	assert.Same(t, chain[0], cred.Leaf())
	assert.Same(t, key, cred.PrivateKey())

	got := cred.Certificates()
	require.Len(t, got, 2)
	assert.Same(t, chain[0], got[0])
	assert.Same(t, chain[1], got[1])
}

func TestCredentialChainIsCopied(t *testing.T) {
	t.Parallel()

	ca := testhelpers.NewCA(t, "example.org")
	chain, key := ca.NewSVID(t, "spiffe://example.org/workload")

	cred, err := domain.NewCredential("spiffe://example.org/workload", chain, key, "")
	require.NoError(t, err)

	// Mutating the returned slice must not affect the credential.
	got := cred.Certificates()
	got[0] = nil
	assert.NotNil(t, cred.Certificates()[0])
}
