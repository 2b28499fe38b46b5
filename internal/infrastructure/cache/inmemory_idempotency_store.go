package cache

import (
	"context"
	"sync"
	"time"

	"github.com/winroom/backend/internal/domain/shared"
)

const inMemoryCleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore tracks processed event ids in a map with
// per-entry expiry. State is process-local, so it only guarantees
// once-per-instance delivery; distributed deployments use Redis.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	expiry    map[string]time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its expiry sweep
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiry: make(map[string]time.Time),
		stop:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop()
	return s
}

// MarkProcessed records an event id with a TTL. Returns false when the id
// is already recorded and not yet expired.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expiresAt, ok := s.expiry[eventID]; ok && time.Now().Before(expiresAt) {
		return false, nil
	}
	s.expiry[eventID] = time.Now().Add(ttl)
	return true, nil
}

// IsProcessed reports whether an event id is recorded and unexpired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiresAt, ok := s.expiry[eventID]
	return ok && time.Now().Before(expiresAt), nil
}

// Close stops the expiry sweep. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of tracked ids, expired entries included until
// the next sweep
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expiry)
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(inMemoryCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for eventID, expiresAt := range s.expiry {
		if now.After(expiresAt) {
			delete(s.expiry, eventID)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
