package ports

import "github.com/sufield/svidsource/internal/domain"

// Update is one coherent Workload API refresh: the workload's candidate
// credentials together with the trust bundles that were current at issuance.
//
// An Update is immutable once delivered. Credentials is ordered as issued by
// the Workload API, default identity first. Consumers must treat the two
// fields as an atomic pair; mixing credentials and bundles from different
// updates breaks trust chain coherence.
type Update struct {
	// Credentials are the candidate identities issued to the workload.
	Credentials []*domain.Credential

	// Bundles maps each trust domain to its roots as of this refresh.
	Bundles *domain.BundleSet
}

// Watcher receives asynchronous Workload API events.
//
// OnUpdate may be called any number of times after subscription. OnError
// reports a delivery failure; the client keeps retrying after calling it, so
// a watcher that wants terminal semantics must arrange its own teardown.
// Calls are made from the client's delivery goroutine and are never
// concurrent with each other.
type Watcher interface {
	// OnUpdate delivers a new coherent credential/bundle refresh.
	OnUpdate(update *Update)

	// OnError reports a failure fetching or decoding updates.
	OnError(err error)
}
