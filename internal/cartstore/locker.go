package cartstore

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedLock serializes read-modify-write sequences per cart id without
// blocking operations on other carts.
type KeyedLock struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLock returns an empty lock table.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{entries: map[uuid.UUID]*lockEntry{}}
}

// Lock acquires the mutex for the given cart id and returns its release
// function. Entries are dropped once the last holder releases.
func (k *KeyedLock) Lock(id uuid.UUID) func() {
	k.mu.Lock()
	entry, ok := k.entries[id]
	if !ok {
		entry = &lockEntry{}
		k.entries[id] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.entries, id)
		}
		k.mu.Unlock()
	}
}
