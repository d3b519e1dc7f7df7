package workloadapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/svidsource/internal/adapters/outbound/workloadapi"
	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/testhelpers"
)

func validResponse(t *testing.T) workloadapi.X509ContextResponse {
	t.Helper()

	ca := testhelpers.NewCA(t, "example.org")
	chain, key := ca.NewSVID(t, "spiffe://example.org/workload")

	return workloadapi.X509ContextResponse{
		SVIDs: []workloadapi.X509SVIDResponse{
			{
				SPIFFEID:    "spiffe://example.org/workload",
				Certificate: testhelpers.CertPEM(t, chain...),
				PrivateKey:  testhelpers.KeyPEM(t, key),
				Hint:        "internal",
			},
		},
		Bundles: map[string]string{
			"example.org": testhelpers.CertPEM(t, ca.Cert),
		},
	}
}

func TestResponseValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*workloadapi.X509ContextResponse)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*workloadapi.X509ContextResponse) {},
		},
		{
			name:    "no svids",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs = nil },
			wantErr: "no SVIDs",
		},
		{
			name:    "empty spiffe id",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].SPIFFEID = "" },
			wantErr: "SPIFFE ID cannot be empty",
		},
		{
			name:    "bad spiffe id prefix",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].SPIFFEID = "http://example.org/w" },
			wantErr: "must start with",
		},
		{
			name:    "missing certificate",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].Certificate = "" },
			wantErr: "certificate cannot be empty",
		},
		{
			name:    "missing key",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].PrivateKey = "" },
			wantErr: "private key cannot be empty",
		},
		{
			name:    "no bundles",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.Bundles = nil },
			wantErr: "no trust bundles",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := validResponse(t)
			tt.mutate(&resp)

			err := resp.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResponseToUpdate(t *testing.T) {
	t.Parallel()

	resp := validResponse(t)

	update, err := resp.ToUpdate()
	require.NoError(t, err)

	require.Len(t, update.Credentials, 1)
	cred := update.Credentials[0]
	assert.Equal(t, "spiffe://example.org/workload", cred.ID())
	assert.Equal(t, "internal", cred.Hint())
	assert.NotNil(t, cred.Leaf())
	assert.NotNil(t, cred.PrivateKey())

	bundle, err := update.Bundles.GetBundleForTrustDomain(domain.NewTrustDomainFromName("example.org"))
	require.NoError(t, err)
	assert.Len(t, bundle.X509Authorities(), 1)
}

func TestResponseToUpdateRejectsMalformedMaterial(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*workloadapi.X509ContextResponse)
		wantErr string
	}{
		{
			name:    "garbage certificate",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].Certificate = "not pem" },
			wantErr: "parsing certificate chain",
		},
		{
			name:    "garbage key",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].PrivateKey = "not pem" },
			wantErr: "parsing private key",
		},
		{
			name:    "invalid spiffe id",
			mutate:  func(r *workloadapi.X509ContextResponse) { r.SVIDs[0].SPIFFEID = "spiffe://" },
			wantErr: "invalid SPIFFE ID",
		},
		{
			name: "invalid trust domain",
			mutate: func(r *workloadapi.X509ContextResponse) {
				r.Bundles["bad domain!"] = r.Bundles["example.org"]
			},
			wantErr: "invalid trust domain",
		},
		{
			name: "garbage bundle roots",
			mutate: func(r *workloadapi.X509ContextResponse) {
				r.Bundles["example.org"] = "not pem"
			},
			wantErr: "parsing roots",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := validResponse(t)
			tt.mutate(&resp)

			update, err := resp.ToUpdate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, update)
		})
	}
}
