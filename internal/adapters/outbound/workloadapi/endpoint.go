package workloadapi

import (
	"fmt"
	"os"
	"strings"
)

// ResolveSocketPath resolves the Workload API endpoint address to a Unix
// socket path.
//
// Resolution order:
//  1. override, when non-empty (explicit configuration wins)
//  2. the SPIFFE_ENDPOINT_SOCKET environment variable
//
// Accepted forms, with or without a unix:// scheme prefix:
//   - Absolute filesystem path: "/tmp/spire-agent/public/api.sock"
//   - Linux abstract socket: "@spire-agent"
//
// A missing or malformed address returns ErrInvalidAddress; this is the
// configuration failure surfaced synchronously at source construction.
func ResolveSocketPath(override string) (string, error) {
	addr := override
	if addr == "" {
		addr = os.Getenv(SocketEnvVar)
	}
	if addr == "" {
		return "", fmt.Errorf("%w: no address configured and %s is not set", ErrInvalidAddress, SocketEnvVar)
	}

	// Strip unix:// prefix if present (for config compatibility)
	path := strings.TrimPrefix(addr, "unix://")

	if path == "" || !(strings.HasPrefix(path, "/") || strings.HasPrefix(path, "@")) {
		return "", fmt.Errorf("%w: got %q (must start with '/' or '@')", ErrInvalidAddress, addr)
	}

	return path, nil
}
