// Package svidsource provides live, auto-rotating X.509 workload identity
// credentials fetched from a SPIFFE Workload API endpoint.
//
// Most callers only need Open:
//
//	source, err := svidsource.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer source.Close()
//
//	svid, err := source.GetX509SVID()
//
// Open blocks until the first credential arrives, then keeps the served
// snapshot fresh in the background. See pkg/x509source for the full option
// surface (endpoint override, credential selection, init timeout, watch
// error policy) and pkg/helper for the file-writing sidecar used by
// processes that read TLS material from disk.
package svidsource

import (
	"context"

	"github.com/sufield/svidsource/pkg/x509source"
)

// Open creates a live credential source. The Workload API endpoint is taken
// from the SPIFFE_ENDPOINT_SOCKET environment variable unless overridden
// with x509source.WithEndpointAddress.
func Open(ctx context.Context, opts ...x509source.Option) (*x509source.X509Source, error) {
	return x509source.New(ctx, opts...)
}
