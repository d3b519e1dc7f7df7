// Package workloadapi is the outbound adapter for the Workload API endpoint.
//
// It implements ports.WorkloadAPIClient over HTTP on a Unix domain socket:
// a one-shot fetch of the current X.509 context, and a streaming watch that
// decodes a sequence of JSON context documents and delivers each one to a
// ports.Watcher. Wire material (PEM chains, SPIFFE ID strings) is validated
// and translated into domain types here; nothing above this package sees raw
// bytes.
package workloadapi
