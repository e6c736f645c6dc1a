package services

import (
	"sync"
	"time"
)

// CodeEntry is one pending email verification code.
type CodeEntry struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// CodeStore backs the verification flow. The in-memory implementation below
// serves a single instance; behind a load balancer it must be swapped for a
// shared cache, since two requests landing on different instances would not
// see each other's codes.
type CodeStore interface {
	Put(email string, entry CodeEntry)
	Get(email string) (CodeEntry, bool)
	Delete(email string)
	SweepExpired(now time.Time) int
}

type MemoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]CodeEntry
}

func NewMemoryCodeStore() *MemoryCodeStore {
	return &MemoryCodeStore{entries: map[string]CodeEntry{}}
}

func (s *MemoryCodeStore) Put(email string, entry CodeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry
}

func (s *MemoryCodeStore) Get(email string) (CodeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[email]
	return entry, ok
}

func (s *MemoryCodeStore) Delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
}

// SweepExpired deletes every expired entry and returns how many it removed.
func (s *MemoryCodeStore) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for email, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}

// StartSweeper runs SweepExpired on a fixed interval until the returned stop
// function is called.
func (s *MemoryCodeStore) StartSweeper(interval time.Duration) (stop func()) {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.SweepExpired(time.Now())
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
