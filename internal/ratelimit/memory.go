package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryBucket struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a process-local CounterStore: a mutex-guarded map of
// expiring buckets. Stale entries are swept lazily on writes so the map
// does not grow with the key space forever.
type MemoryStore struct {
	mutex     sync.Mutex
	buckets   map[string]memoryBucket
	lastSweep time.Time

	now func() time.Time
}

const sweepInterval = time.Minute

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]memoryBucket),
		now:     time.Now,
	}
}

func (s *MemoryStore) Incr(_ context.Context, bucket string, ttl time.Duration) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	entry, ok := s.buckets[bucket]
	if !ok || now.After(entry.expiresAt) {
		entry = memoryBucket{expiresAt: now.Add(ttl)}
	}
	entry.count++
	s.buckets[bucket] = entry

	s.sweep(now)
	return entry.count, nil
}

func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for key, entry := range s.buckets {
		if now.After(entry.expiresAt) {
			delete(s.buckets, key)
		}
	}
}
