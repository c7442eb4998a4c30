package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps uploads in process memory. Expired entries are dropped
// lazily on access and on every Save.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	upload  Upload
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]memoryEntry{},
	}
}

func (s *MemoryStore) Save(_ context.Context, id string, up Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[id] = memoryEntry{upload: up, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return Upload{}, ErrNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, id)
		return Upload{}, ErrNotFound
	}
	return e.upload, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len is the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
