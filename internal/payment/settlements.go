package payment

import (
	"context"
	"sync"
	"time"

	"github.com/profinder/backend/internal/models"
)

// SettlementStore records consumed proof fingerprints. PutIfAbsent must be
// atomic: under concurrent duplicate submissions exactly one caller wins
// and every other sees the existing record.
type SettlementStore interface {
	// PutIfAbsent inserts the settlement unless one already exists for its
	// fingerprint. Returns true when this call created the record.
	PutIfAbsent(ctx context.Context, settlement models.Settlement) (bool, error)

	// Get returns the settlement for a fingerprint, or nil when absent.
	Get(ctx context.Context, fingerprint string) (*models.Settlement, error)
}

type memoryEntry struct {
	settlement models.Settlement
	expiresAt  time.Time
}

// MemoryStore is the single-instance store: one mutex-guarded map with a
// background eviction ticker. Records live for the dedup window.
type MemoryStore struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]memoryEntry
}

func NewMemoryStore(window time.Duration) *MemoryStore {
	return &MemoryStore{
		window:  window,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) PutIfAbsent(_ context.Context, settlement models.Settlement) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[settlement.ProofFingerprint]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}

	s.entries[settlement.ProofFingerprint] = memoryEntry{
		settlement: settlement,
		expiresAt:  now.Add(s.window),
	}
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*models.Settlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[fingerprint]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	settlement := entry.settlement
	return &settlement, nil
}

// Len reports the number of live records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for _, entry := range s.entries {
		if now.Before(entry.expiresAt) {
			count++
		}
	}
	return count
}

// EvictLoop drops expired records periodically until the context ends.
func (s *MemoryStore) EvictLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for fingerprint, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, fingerprint)
				}
			}
			s.mu.Unlock()
		}
	}
}
