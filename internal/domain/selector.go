package domain

import "fmt"

// Selector picks exactly one credential out of the candidates delivered by a
// Workload API update.
//
// Implementations must be pure: no side effects, no retained references to
// the candidate slice. The slice is ordered as delivered by the Workload API
// (default identity first) and must not be mutated.
type Selector interface {
	// Select returns one credential from candidates, or an error when no
	// acceptable credential exists. candidates may be empty.
	Select(candidates []*Credential) (*Credential, error)
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(candidates []*Credential) (*Credential, error)

// Select implements Selector.
func (f SelectorFunc) Select(candidates []*Credential) (*Credential, error) {
	return f(candidates)
}

// DefaultSelector picks the default identity: the first candidate in the
// update. The Workload API orders candidates default-first, so with multiple
// entries the tie-break is delivery order — position zero wins.
type DefaultSelector struct{}

// Select implements Selector.
func (DefaultSelector) Select(candidates []*Credential) (*Credential, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w", ErrNoCandidates)
	}
	return candidates[0], nil
}

// HintSelector picks the first candidate whose hint matches. It falls
// through to ErrNoCandidates when no candidate carries the hint.
type HintSelector struct {
	Hint string
}

// Select implements Selector.
func (s HintSelector) Select(candidates []*Credential) (*Credential, error) {
	for _, c := range candidates {
		if c.Hint() == s.Hint {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: no credential with hint %q", ErrNoCandidates, s.Hint)
}

// Compile-time interface compliance verification.
var (
	_ Selector = DefaultSelector{}
	_ Selector = HintSelector{}
	_ Selector = SelectorFunc(nil)
)
