// Package locks provides a keyed try-lock used by the orchestrator to
// guarantee at most one in-flight submission per (voyage, country,
// webservice type) triple. Unlike a blocking mutex, acquisition never waits:
// a contested key fails immediately so the caller can surface a concurrency
// conflict instead of queueing a second legal filing behind the first.
package locks

import "sync"

// KeyedMutex is a set of independent logical locks addressed by string key.
// The zero value is not usable; create instances with NewKeyedMutex.
type KeyedMutex struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		held: make(map[string]struct{}),
	}
}

// TryLock attempts to acquire the lock for key without blocking.
// Returns true when the lock was acquired, false when another holder owns it.
func (m *KeyedMutex) TryLock(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.held[key]; taken {
		return false
	}
	m.held[key] = struct{}{}
	return true
}

// Unlock releases the lock for key. Releasing a key that is not held is a
// no-op; the in-flight guard is advisory and must never panic the caller.
func (m *KeyedMutex) Unlock(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.held, key)
}
