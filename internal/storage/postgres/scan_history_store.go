package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

// ScanHistoryStore implements storage.ScanHistoryStore using PostgreSQL.
type ScanHistoryStore struct {
	pool *Pool
}

// NewScanHistoryStore creates a new ScanHistoryStore.
func NewScanHistoryStore(pool *Pool) *ScanHistoryStore {
	return &ScanHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)

// Insert appends one scan record.
func (s *ScanHistoryStore) Insert(ctx context.Context, r *domain.ScanRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO scan_history (
			mint, mode, overall_score, risk_level, platform,
			market_cap_usd, liquidity_usd, duration_ms, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		r.Mint,
		string(r.Mode),
		r.OverallScore,
		string(r.RiskLevel),
		string(r.Platform),
		r.MarketCapUSD,
		r.LiquidityUSD,
		r.DurationMs,
		r.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("insert scan record: %w", err)
	}
	return nil
}

// GetRecentByMint retrieves the most recent records, newest first.
func (s *ScanHistoryStore) GetRecentByMint(ctx context.Context, mint string, limit int) ([]*domain.ScanRecord, error) {
	query := `
		SELECT mint, mode, overall_score, risk_level, platform,
		       market_cap_usd, liquidity_usd, duration_ms, scanned_at
		FROM scan_history
		WHERE mint = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, mint, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent scans by mint: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByMint retrieves all records for a mint, oldest first.
func (s *ScanHistoryStore) GetByMint(ctx context.Context, mint string) ([]*domain.ScanRecord, error) {
	query := `
		SELECT mint, mode, overall_score, risk_level, platform,
		       market_cap_usd, liquidity_usd, duration_ms, scanned_at
		FROM scan_history
		WHERE mint = $1
		ORDER BY scanned_at ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get scans by mint: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*domain.ScanRecord, error) {
	var result []*domain.ScanRecord
	for rows.Next() {
		var r domain.ScanRecord
		var mode, level, platform string
		if err := rows.Scan(
			&r.Mint, &mode, &r.OverallScore, &level, &platform,
			&r.MarketCapUSD, &r.LiquidityUSD, &r.DurationMs, &r.ScannedAt,
		); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		r.Mode = domain.ScanMode(mode)
		r.RiskLevel = domain.RiskLevel(level)
		r.Platform = domain.Platform(platform)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan records: %w", err)
	}
	return result, nil
}
