package acl

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory capability store for development and
// tests. Lookups for unknown accessors or paths return the empty set
// (default deny), never an error.
type MemoryStore struct {
	mu     sync.RWMutex
	grants map[string]map[string]TokenSet // accessor -> path -> tokens
}

// NewMemoryStore creates an empty in-memory capability store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{grants: make(map[string]map[string]TokenSet)}
}

// Capabilities returns the tokens granted to the accessor at the path.
func (s *MemoryStore) Capabilities(_ context.Context, accessor, path string) (TokenSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.grants[accessor][path]
	out := make(TokenSet, len(set))
	for token := range set {
		out[token] = struct{}{}
	}
	return out, nil
}

// SetCapabilities replaces the accessor's token set at the path with the
// given value.
func (s *MemoryStore) SetCapabilities(accessor, path string, tokens TokenSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(accessor, path, tokens)
}

// UpdateCapabilities applies a pure transform to the accessor's current
// token set at the path and stores the result. This is the explicit
// transform-function counterpart to SetCapabilities; which entry point
// applies is always the caller's choice, never inferred from the
// argument's runtime type.
func (s *MemoryStore) UpdateCapabilities(accessor, path string, transform func(TokenSet) TokenSet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.grants[accessor][path]
	copied := make(TokenSet, len(current))
	for token := range current {
		copied[token] = struct{}{}
	}
	s.setLocked(accessor, path, transform(copied))
}

func (s *MemoryStore) setLocked(accessor, path string, tokens TokenSet) {
	paths, ok := s.grants[accessor]
	if !ok {
		paths = make(map[string]TokenSet)
		s.grants[accessor] = paths
	}
	stored := make(TokenSet, len(tokens))
	for token := range tokens {
		stored[token] = struct{}{}
	}
	paths[path] = stored
}
