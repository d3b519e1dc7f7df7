package workloadapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/svidsource/internal/adapters/outbound/workloadapi"
)

func TestResolveSocketPath(t *testing.T) {
	tests := []struct {
		name     string
		override string
		env      string
		want     string
		wantErr  bool
	}{
		{
			name:     "override absolute path",
			override: "/tmp/agent.sock",
			want:     "/tmp/agent.sock",
		},
		{
			name:     "override with unix scheme",
			override: "unix:///tmp/agent.sock",
			want:     "/tmp/agent.sock",
		},
		{
			name:     "override abstract socket",
			override: "@spire-agent",
			want:     "@spire-agent",
		},
		{
			name:     "override wins over environment",
			override: "/tmp/override.sock",
			env:      "/tmp/env.sock",
			want:     "/tmp/override.sock",
		},
		{
			name: "environment fallback",
			env:  "unix:///run/agent.sock",
			want: "/run/agent.sock",
		},
		{
			name:    "nothing configured",
			wantErr: true,
		},
		{
			name:     "relative path rejected",
			override: "tmp/agent.sock",
			wantErr:  true,
		},
		{
			name:     "bare scheme rejected",
			override: "unix://",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(workloadapi.SocketEnvVar, tt.env)

			got, err := workloadapi.ResolveSocketPath(tt.override)
			if tt.wantErr {
				require.ErrorIs(t, err, workloadapi.ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
