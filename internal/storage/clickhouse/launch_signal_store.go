package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

// LaunchSignalStore implements storage.LaunchSignalStore using ClickHouse.
// Rows live in a ReplacingMergeTree keyed by mint; updates are modeled as
// full-row re-inserts with a newer updated_at, and reads use FINAL.
type LaunchSignalStore struct {
	conn *Conn
}

// NewLaunchSignalStore creates a new LaunchSignalStore.
func NewLaunchSignalStore(conn *Conn) *LaunchSignalStore {
	return &LaunchSignalStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LaunchSignalStore = (*LaunchSignalStore)(nil)

const signalColumns = `
	mint, platform, market_cap_usd, liquidity_usd, price_usd, risk_score,
	lp_locked_pct, lp_burned_pct, top10_pct, dev_holding_pct,
	buy_tax_bps, sell_tax_bps, mint_revoked, freeze_revoked,
	curve_progress, has_socials, insider_count, created_at,
	market_cap_1h, price_1h, market_cap_6h, price_6h, market_cap_24h, price_24h,
	rugged, rug_minutes
`

// Insert adds a new launch signal. Returns ErrDuplicateKey if the mint was
// already recorded; the table never enforces uniqueness itself, so the
// check is explicit.
func (s *LaunchSignalStore) Insert(ctx context.Context, sig *domain.LaunchSignal) error {
	if sig == nil || sig.Mint == "" {
		return storage.ErrInvalidInput
	}

	if _, err := s.GetByMint(ctx, sig.Mint); err == nil {
		return storage.ErrDuplicateKey
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	return s.writeRow(ctx, sig)
}

// GetByMint retrieves the signal for a mint. Returns ErrNotFound if absent.
func (s *LaunchSignalStore) GetByMint(ctx context.Context, mint string) (*domain.LaunchSignal, error) {
	query := fmt.Sprintf(`SELECT %s FROM launch_signals FINAL WHERE mint = ?`, signalColumns)

	row := s.conn.QueryRow(ctx, query, mint)
	sig, err := scanSignal(row)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return sig, nil
}

// UpdateOutcome back-fills one horizon's outcome by re-inserting the full
// row with a newer version, last-write-wins.
func (s *LaunchSignalStore) UpdateOutcome(ctx context.Context, mint string, o *storage.Outcome) error {
	if o == nil {
		return storage.ErrInvalidInput
	}

	sig, err := s.GetByMint(ctx, mint)
	if err != nil {
		return err
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

	return s.writeRow(ctx, sig)
}

// PendingOutcomes retrieves signals old enough for a horizon that still
// lack its observation, oldest first.
func (s *LaunchSignalStore) PendingOutcomes(ctx context.Context, horizon domain.Horizon, createdBefore int64, limit int) ([]*domain.LaunchSignal, error) {
	var col string
	switch horizon {
	case domain.Horizon1h:
		col = "market_cap_1h"
	case domain.Horizon6h:
		col = "market_cap_6h"
	case domain.Horizon24h:
		col = "market_cap_24h"
	default:
		return nil, storage.ErrInvalidInput
	}

	query := fmt.Sprintf(`
		SELECT %s FROM launch_signals FINAL
		WHERE created_at <= ? AND %s IS NULL
		ORDER BY created_at ASC
		LIMIT ?
	`, signalColumns, col)

	rows, err := s.conn.Query(ctx, query, createdBefore, uint64(limit))
	if err != nil {
		return nil, fmt.Errorf("query pending outcomes: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// CountLabeled reports how many signals have a 24h outcome.
func (s *LaunchSignalStore) CountLabeled(ctx context.Context) (int, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM launch_signals FINAL WHERE market_cap_24h IS NOT NULL`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count labeled signals: %w", err)
	}
	return int(count), nil
}

// QuerySimilar retrieves labeled signals matching the similarity query,
// nearest by risk-score distance first.
func (s *LaunchSignalStore) QuerySimilar(ctx context.Context, q *storage.SimilarityQuery) ([]*domain.LaunchSignal, error) {
	if q == nil {
		return nil, storage.ErrInvalidInput
	}

	query := fmt.Sprintf(`
		SELECT %s FROM launch_signals FINAL
		WHERE market_cap_24h IS NOT NULL
		  AND abs(risk_score - ?) <= ?
	`, signalColumns)
	args := []any{int32(q.RiskScore), int32(q.RiskBand)}

	if q.Platform != domain.PlatformNone {
		query += " AND platform = ?"
		args = append(args, string(q.Platform))
	}
	if q.MarketCapUSD > 0 {
		query += " AND market_cap_usd >= ? AND market_cap_usd <= ?"
		args = append(args, q.MarketCapUSD/3, q.MarketCapUSD*3)
	}
	query += " ORDER BY abs(risk_score - ?) ASC, mint ASC LIMIT ?"
	args = append(args, int32(q.RiskScore), uint64(q.Limit))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query similar signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// writeRow inserts the full row with a fresh version timestamp.
func (s *LaunchSignalStore) writeRow(ctx context.Context, sig *domain.LaunchSignal) error {
	query := fmt.Sprintf(`INSERT INTO launch_signals (%s, updated_at) VALUES (%s)`,
		signalColumns, placeholders(27))

	var rugged *uint8
	if sig.Rugged != nil {
		v := boolToU8(*sig.Rugged)
		rugged = &v
	}
	var rugMinutes *int32
	if sig.RugMinutes != nil {
		v := int32(*sig.RugMinutes)
		rugMinutes = &v
	}

	err := s.conn.Exec(ctx, query,
		sig.Mint,
		string(sig.Platform),
		sig.MarketCapUSD,
		sig.LiquidityUSD,
		sig.PriceUSD,
		int32(sig.RiskScore),
		sig.LPLockedPct,
		sig.LPBurnedPct,
		sig.Top10Pct,
		sig.DevHoldingPct,
		int32(sig.BuyTaxBps),
		int32(sig.SellTaxBps),
		boolToU8(sig.MintRevoked),
		boolToU8(sig.FreezeRevoked),
		sig.CurveProgress,
		boolToU8(sig.HasSocials),
		int32(sig.InsiderCount),
		sig.CreatedAt,
		sig.MarketCap1h, sig.Price1h,
		sig.MarketCap6h, sig.Price6h,
		sig.MarketCap24h, sig.Price24h,
		rugged,
		rugMinutes,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert launch signal: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (*domain.LaunchSignal, error) {
	var sig domain.LaunchSignal
	var platform string
	var riskScore, buyTax, sellTax, insiders int32
	var mintRevoked, freezeRevoked, hasSocials uint8
	var rugged *uint8
	var rugMinutes *int32

	if err := row.Scan(
		&sig.Mint, &platform, &sig.MarketCapUSD, &sig.LiquidityUSD, &sig.PriceUSD, &riskScore,
		&sig.LPLockedPct, &sig.LPBurnedPct, &sig.Top10Pct, &sig.DevHoldingPct,
		&buyTax, &sellTax, &mintRevoked, &freezeRevoked,
		&sig.CurveProgress, &hasSocials, &insiders, &sig.CreatedAt,
		&sig.MarketCap1h, &sig.Price1h, &sig.MarketCap6h, &sig.Price6h, &sig.MarketCap24h, &sig.Price24h,
		&rugged, &rugMinutes,
	); err != nil {
		return nil, err
	}

	sig.Platform = domain.Platform(platform)
	sig.RiskScore = int(riskScore)
	sig.BuyTaxBps = int(buyTax)
	sig.SellTaxBps = int(sellTax)
	sig.InsiderCount = int(insiders)
	sig.MintRevoked = mintRevoked != 0
	sig.FreezeRevoked = freezeRevoked != 0
	sig.HasSocials = hasSocials != 0
	if rugged != nil {
		v := *rugged != 0
		sig.Rugged = &v
	}
	if rugMinutes != nil {
		v := int(*rugMinutes)
		sig.RugMinutes = &v
	}
	return &sig, nil
}

func scanSignals(rows driver.Rows) ([]*domain.LaunchSignal, error) {
	var result []*domain.LaunchSignal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan launch signal row: %w", err)
		}
		result = append(result, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launch signals: %w", err)
	}
	return result, nil
}

func boolToU8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}

func placeholders(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ", "
		}
		s += "?"
	}
	return s
}
