package memory

import (
	"context"
	"sort"
	"sync"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

// LaunchSignalStore is an in-memory implementation of storage.LaunchSignalStore.
type LaunchSignalStore struct {
	mu   sync.RWMutex
	data map[string]*domain.LaunchSignal // keyed by mint
}

// NewLaunchSignalStore creates a new in-memory launch signal store.
func NewLaunchSignalStore() *LaunchSignalStore {
	return &LaunchSignalStore{
		data: make(map[string]*domain.LaunchSignal),
	}
}

// Compile-time interface check.
var _ storage.LaunchSignalStore = (*LaunchSignalStore)(nil)

// Insert adds a new launch signal. Returns ErrDuplicateKey if the mint exists.
func (s *LaunchSignalStore) Insert(_ context.Context, sig *domain.LaunchSignal) error {
	if sig == nil || sig.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sig.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	sigCopy := *sig
	s.data[sig.Mint] = &sigCopy
	return nil
}

// GetByMint retrieves the signal for a mint. Returns ErrNotFound if absent.
func (s *LaunchSignalStore) GetByMint(_ context.Context, mint string) (*domain.LaunchSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sig, exists := s.data[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	sigCopy := *sig
	return &sigCopy, nil
}

// UpdateOutcome back-fills one horizon's outcome fields, last-write-wins.
func (s *LaunchSignalStore) UpdateOutcome(_ context.Context, mint string, o *storage.Outcome) error {
	if o == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sig, exists := s.data[mint]
	if !exists {
		return storage.ErrNotFound
	}

	mc, price := o.MarketCapUSD, o.PriceUSD
	switch o.Horizon {
	case domain.Horizon1h:
		sig.MarketCap1h, sig.Price1h = &mc, &price
	case domain.Horizon6h:
		sig.MarketCap6h, sig.Price6h = &mc, &price
	case domain.Horizon24h:
		sig.MarketCap24h, sig.Price24h = &mc, &price
	default:
		return storage.ErrInvalidInput
	}
	if o.Rugged != nil {
		v := *o.Rugged
		sig.Rugged = &v
	}
	if o.RugMinutes != nil {
		v := *o.RugMinutes
		sig.RugMinutes = &v
	}
	return nil
}

// PendingOutcomes retrieves signals old enough for a horizon that still
// lack its observation, oldest first.
func (s *LaunchSignalStore) PendingOutcomes(_ context.Context, horizon domain.Horizon, createdBefore int64, limit int) ([]*domain.LaunchSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LaunchSignal
	for _, sig := range s.data {
		if sig.CreatedAt > createdBefore {
			continue
		}
		var observed bool
		switch horizon {
		case domain.Horizon1h:
			observed = sig.MarketCap1h != nil
		case domain.Horizon6h:
			observed = sig.MarketCap6h != nil
		case domain.Horizon24h:
			observed = sig.MarketCap24h != nil
		default:
			return nil, storage.ErrInvalidInput
		}
		if observed {
			continue
		}
		sigCopy := *sig
		result = append(result, &sigCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt < result[j].CreatedAt
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountLabeled reports how many signals have a 24h outcome.
func (s *LaunchSignalStore) CountLabeled(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, sig := range s.data {
		if sig.Labeled() {
			count++
		}
	}
	return count, nil
}

// QuerySimilar retrieves labeled signals matching the similarity query,
// nearest by risk-score distance first.
func (s *LaunchSignalStore) QuerySimilar(_ context.Context, q *storage.SimilarityQuery) ([]*domain.LaunchSignal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LaunchSignal
	for _, sig := range s.data {
		if !sig.Labeled() {
			continue
		}
		if abs(sig.RiskScore-q.RiskScore) > q.RiskBand {
			continue
		}
		if q.Platform != domain.PlatformNone && sig.Platform != q.Platform {
			continue
		}
		if q.MarketCapUSD > 0 {
			if sig.MarketCapUSD < q.MarketCapUSD/3 || sig.MarketCapUSD > q.MarketCapUSD*3 {
				continue
			}
		}
		sigCopy := *sig
		result = append(result, &sigCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		di := abs(result[i].RiskScore - q.RiskScore)
		dj := abs(result[j].RiskScore - q.RiskScore)
		if di != dj {
			return di < dj
		}
		return result[i].Mint < result[j].Mint
	})
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[:q.Limit]
	}
	return result, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
