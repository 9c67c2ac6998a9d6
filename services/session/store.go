// Package session persists booking wizard snapshots between requests.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"barberbook/services/wizard"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("booking session not found or expired")

// Store keeps wizard snapshots for a limited time.
type Store interface {
	Save(ctx context.Context, snap wizard.Snapshot) error
	Load(ctx context.Context, id string) (*wizard.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	snap      wizard.Snapshot
	expiresAt time.Time
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, snap wizard.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[snap.ID] = memoryEntry{snap: snap, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*wizard.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	snap := e.snap
	return &snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now, n := s.now(), 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}
