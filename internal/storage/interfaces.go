package storage

import (
	"context"

	"mintshield/internal/domain"
)

// Outcome carries one horizon's back-fill for a launch signal. Rug fields
// are set independently of the horizon sweep when a rug is first detected.
type Outcome struct {
	Horizon      domain.Horizon
	MarketCapUSD float64
	PriceUSD     float64
	Rugged       *bool
	RugMinutes   *int
}

// SimilarityQuery selects the predictor's cohort of comparable launches.
type SimilarityQuery struct {
	RiskScore int
	RiskBand  int // inclusive ± band around RiskScore

	// Platform narrows to one launch platform; PlatformNone matches any.
	Platform domain.Platform

	// MarketCapUSD, when positive, restricts to launches whose launch
	// market cap is within a 3x band (cap/3 .. cap*3).
	MarketCapUSD float64

	// Limit caps the result at the N nearest records by risk-score distance.
	Limit int
}

// LaunchSignalStore provides access to launch_signals storage: one record
// per distinct mint, created at its first instant scan, outcome-back-filled
// later under last-write-wins semantics.
type LaunchSignalStore interface {
	// Insert adds a new launch signal. Returns ErrDuplicateKey if the mint
	// was already recorded; callers treat that as a no-op.
	Insert(ctx context.Context, s *domain.LaunchSignal) error

	// GetByMint retrieves the signal for a mint. Returns ErrNotFound if absent.
	GetByMint(ctx context.Context, mint string) (*domain.LaunchSignal, error)

	// UpdateOutcome back-fills one horizon's outcome fields for a mint.
	// Returns ErrNotFound if the mint was never recorded.
	UpdateOutcome(ctx context.Context, mint string, o *Outcome) error

	// PendingOutcomes retrieves signals created at or before the cutoff
	// whose given horizon has not been observed yet.
	PendingOutcomes(ctx context.Context, horizon domain.Horizon, createdBefore int64, limit int) ([]*domain.LaunchSignal, error)

	// CountLabeled reports how many signals have a 24h outcome, the bar for
	// the predictor's statistical mode.
	CountLabeled(ctx context.Context) (int, error)

	// QuerySimilar retrieves fully labeled signals matching the similarity
	// query, nearest by risk score first.
	QuerySimilar(ctx context.Context, q *SimilarityQuery) ([]*domain.LaunchSignal, error)
}

// ScanHistoryStore provides access to scan_history storage. The table's
// CRUD surface is owned by external layers; the engine only appends and
// reads back recent lines.
type ScanHistoryStore interface {
	// Insert appends one scan record.
	Insert(ctx context.Context, r *domain.ScanRecord) error

	// GetRecentByMint retrieves the most recent records for a mint, newest
	// first, capped at limit.
	GetRecentByMint(ctx context.Context, mint string, limit int) ([]*domain.ScanRecord, error)

	// GetByMint retrieves all records for a mint, oldest first.
	GetByMint(ctx context.Context, mint string) ([]*domain.ScanRecord, error)
}
