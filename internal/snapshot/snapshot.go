// Package snapshot keeps a best-effort copy of each in-progress
// registration form, keyed by session. Snapshots are written on every wizard
// transition and only read back on an explicit restore.
package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"ticketdesk/internal/models"
)

// ErrNotFound is returned when no snapshot exists for a session
var ErrNotFound = errors.New("snapshot not found")

// KeyPrefix namespaces snapshot keys in the shared store
const KeyPrefix = "formState:"

// Snapshot is a saved registration form and the event it was filled in for
type Snapshot struct {
	EventID string                  `json:"eventId"`
	Form    models.RegistrationForm `json:"form"`
	SavedAt time.Time               `json:"savedAt"`
}

// Store persists registration form snapshots
type Store interface {
	Save(ctx context.Context, sessionID string, snap Snapshot) error
	Load(ctx context.Context, sessionID string) (*Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

// Key returns the store key of a session's snapshot
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}

type memoryEntry struct {
	snap      Snapshot
	expiresAt time.Time
}

// MemoryStore is an in-process Store used when Valkey is not configured
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore; ttl <= 0 keeps snapshots forever
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{snap: snap}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[Key(sessionID)] = entry
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	entry, ok := s.entries[Key(sessionID)]
	s.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && s.now().After(entry.expiresAt)) {
		return nil, ErrNotFound
	}

	snap := entry.snap
	return &snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, Key(sessionID))
	return nil
}
