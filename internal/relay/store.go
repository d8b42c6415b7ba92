package relay

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
)

// stateLength is the number of random bytes in a state token. 32 bytes gives
// 256 bits of entropy, well past the 128-bit floor needed to keep tokens
// unguessable for the lifetime of a flow.
const stateLength = 32

// TransactionStore correlates an OAuth start request with its later callback,
// exactly once. Create issues a fresh state token bound to the caller's
// redirect target; Consume is destructive, so the first caller to present a
// state wins and every later caller misses.
//
// The in-memory [MemoryStore] covers single-instance deployments; an external
// store can be slotted in behind this interface without touching the handlers.
type TransactionStore interface {
	Create(redirectTarget string) (string, error)
	Consume(state string) (string, bool)
}

// MemoryStore is a mutex-guarded map implementation of [TransactionStore].
//
// Entries for abandoned flows are never reclaimed; they persist until process
// restart. Len exists so operators can watch that accepted leak.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]string)}
}

// Create implements [TransactionStore].
func (s *MemoryStore) Create(redirectTarget string) (string, error) {
	state, err := newStateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pending[state] = redirectTarget
	s.mu.Unlock()

	return state, nil
}

// Consume implements [TransactionStore]. The entry is deleted on read whether
// the flow succeeded or failed.
func (s *MemoryStore) Consume(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.pending[state]
	if !ok {
		return "", false
	}
	delete(s.pending, state)
	return target, true
}

// Len returns the number of pending transactions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// newStateToken returns a URL-safe random token.
func newStateToken() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
