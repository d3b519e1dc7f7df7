// Package x509source maintains a live, auto-refreshing source of X.509
// workload identity credentials fed by the Workload API.
//
// An X509Source subscribes to the Workload API at construction and blocks
// until the first update (or failure) arrives. From then on every update
// atomically replaces the served credential/bundle snapshot: readers never
// observe a credential from one update paired with bundles from another.
// Close tears the subscription down exactly once, no matter how many
// goroutines race on it, and all accessors fail deterministically afterwards.
//
// Typical use:
//
//	source, err := x509source.New(ctx)
//	if err != nil {
//	    return err
//	}
//	defer source.Close()
//
//	svid, err := source.GetX509SVID()
package x509source
