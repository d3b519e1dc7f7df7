package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/svidsource/internal/domain"
	"github.com/sufield/svidsource/internal/testhelpers"
)

func makeCredential(t *testing.T, spiffeID, hint string) *domain.Credential {
	t.Helper()

	ca := testhelpers.NewCA(t, "example.org")
	chain, key := ca.NewSVID(t, spiffeID)
	cred, err := domain.NewCredential(spiffeID, chain, key, hint)
	require.NoError(t, err)
	return cred
}

func TestDefaultSelector(t *testing.T) {
	t.Parallel()

	credA := makeCredential(t, "spiffe://example.org/workload-a", "")
	credB := makeCredential(t, "spiffe://example.org/workload-b", "")

	tests := []struct {
		name       string
		candidates []*domain.Credential
		want       *domain.Credential
		wantErr    error
	}{
		{
			name:       "single candidate",
			candidates: []*domain.Credential{credA},
			want:       credA,
		},
		{
			name:       "first of several wins",
			candidates: []*domain.Credential{credA, credB},
			want:       credA,
		},
		{
			name:       "empty candidates",
			candidates: nil,
			wantErr:    domain.ErrNoCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := domain.DefaultSelector{}.Select(tt.candidates)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestHintSelector(t *testing.T) {
	t.Parallel()

	credA := makeCredential(t, "spiffe://example.org/workload-a", "internal")
	credB := makeCredential(t, "spiffe://example.org/workload-b", "external")

	got, err := domain.HintSelector{Hint: "external"}.Select([]*domain.Credential{credA, credB})
	require.NoError(t, err)
	assert.Same(t, credB, got)

	_, err = domain.HintSelector{Hint: "missing"}.Select([]*domain.Credential{credA, credB})
	require.ErrorIs(t, err, domain.ErrNoCandidates)
}

func TestSelectorFunc(t *testing.T) {
	t.Parallel()

	credA := makeCredential(t, "spiffe://example.org/workload-a", "")
	credB := makeCredential(t, "spiffe://example.org/workload-b", "")

	last := domain.SelectorFunc(func(candidates []*domain.Credential) (*domain.Credential, error) {
		return candidates[len(candidates)-1], nil
	})

	got, err := last.Select([]*domain.Credential{credA, credB})
	require.NoError(t, err)
	assert.Same(t, credB, got)
}
