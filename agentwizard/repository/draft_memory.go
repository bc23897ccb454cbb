package repository

import (
	"context"
	"sync"
	"time"
)

type memoryDraftEntry struct {
	data      []byte
	expiresAt time.Time
}

// DraftMemoryCache is the in-process IDraftCache used when Valkey is not enabled.
type DraftMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryDraftEntry
	now     func() time.Time
}

func NewDraftMemoryCache() *DraftMemoryCache {
	return &DraftMemoryCache{
		entries: make(map[string]memoryDraftEntry),
		now:     time.Now,
	}
}

// Save stores data under draftID and drops any entry that has expired.
func (s *DraftMemoryCache) Save(ctx context.Context, draftID string, data []byte, ttl time.Duration) error {
	now := s.now()
	entry := memoryDraftEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	s.mu.Lock()
	for id, e := range s.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[draftID] = entry
	s.mu.Unlock()
	return nil
}

func (s *DraftMemoryCache) Get(ctx context.Context, draftID string) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[draftID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		_ = s.Delete(ctx, draftID)
		return nil, nil
	}
	return append([]byte(nil), entry.data...), nil
}

func (s *DraftMemoryCache) Delete(ctx context.Context, draftID string) error {
	s.mu.Lock()
	delete(s.entries, draftID)
	s.mu.Unlock()
	return nil
}
