package memory

import (
	"context"
	"sort"
	"sync"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

// ScanHistoryStore is an in-memory implementation of storage.ScanHistoryStore.
type ScanHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.ScanRecord // keyed by mint, insert order
}

// NewScanHistoryStore creates a new in-memory scan history store.
func NewScanHistoryStore() *ScanHistoryStore {
	return &ScanHistoryStore{
		data: make(map[string][]*domain.ScanRecord),
	}
}

// Compile-time interface check.
var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)

// Insert appends one scan record.
func (s *ScanHistoryStore) Insert(_ context.Context, r *domain.ScanRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	s.data[r.Mint] = append(s.data[r.Mint], &recordCopy)
	return nil
}

// GetRecentByMint retrieves the most recent records, newest first.
func (s *ScanHistoryStore) GetRecentByMint(_ context.Context, mint string, limit int) ([]*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[mint]
	result := make([]*domain.ScanRecord, 0, len(records))
	for _, r := range records {
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScannedAt > result[j].ScannedAt
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetByMint retrieves all records for a mint, oldest first.
func (s *ScanHistoryStore) GetByMint(_ context.Context, mint string) ([]*domain.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[mint]
	result := make([]*domain.ScanRecord, 0, len(records))
	for _, r := range records {
		recordCopy := *r
		result = append(result, &recordCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ScannedAt < result[j].ScannedAt
	})
	return result, nil
}
