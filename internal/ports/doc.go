// Package ports defines the boundary contracts between the credential cache
// and its collaborators: the push-based Watcher that receives Workload API
// updates, and the WorkloadAPIClient that delivers them.
//
// Adapters (internal/adapters) implement the outbound ports; the source
// (pkg/x509source) consumes them. Neither side depends on the other's
// concrete types.
package ports
