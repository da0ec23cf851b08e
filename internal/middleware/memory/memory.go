// Package memory is an in-process cache storage.
package memory

import (
	"sync"
	"time"
)

type entry struct {
	content   []byte
	expiresAt time.Time
}

// Storage is a TTL map cache. Safe for concurrent use.
type Storage struct {
	mu sync.RWMutex
	m  map[string]entry
}

// NewStorage ...
func NewStorage() *Storage {
	return &Storage{
		m: map[string]entry{},
	}
}

// Get returns cached content or nil.
func (s *Storage) Get(key string) []byte {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()

	if !ok {
		return nil
	}

	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.m, key)
		s.mu.Unlock()

		return nil
	}

	return e.content
}

// Set stores content for ttl.
func (s *Storage) Set(key string, content []byte, ttl time.Duration) {
	s.mu.Lock()
	s.m[key] = entry{
		content:   content,
		expiresAt: time.Now().Add(ttl),
	}
	s.mu.Unlock()
}
