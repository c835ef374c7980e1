// Package track runs the background jobs around the scan engine: the
// outcome tracker that labels launch signals at fixed delays, and the
// watchlist auto-rescan.
package track

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"mintshield/internal/domain"
	"mintshield/internal/observability"
	"mintshield/internal/providers"
	"mintshield/internal/storage"
)

// MarketSource is the market provider the tracker re-queries for outcomes.
type MarketSource interface {
	TokenMarket(ctx context.Context, mint string, nowUnix int64) (*providers.MarketData, error)
}

// Tracker defaults.
const (
	DefaultSweepSpec   = "@every 1m"
	DefaultBatchSize   = 200
	DefaultRugDropPct  = 90
	defaultSweepBudget = 5 * time.Minute
)

// TrackerConfig tunes the outcome tracker.
type TrackerConfig struct {
	SweepSpec  string  // cron spec for the back-fill sweep
	BatchSize  int     // max signals labeled per horizon per sweep
	RugDropPct float64 // liquidity drop from launch that counts as a rug
}

// Tracker back-fills launch-signal outcomes at +1h/+6h/+24h, building the
// labeled cohort the predictor's statistical mode trains on.
type Tracker struct {
	signals storage.LaunchSignalStore
	market  MarketSource
	cfg     TrackerConfig

	cron *cron.Cron
	log  zerolog.Logger
	now  func() time.Time
}

// NewTracker creates an outcome tracker.
func NewTracker(signals storage.LaunchSignalStore, market MarketSource, cfg TrackerConfig, logger zerolog.Logger) *Tracker {
	if cfg.SweepSpec == "" {
		cfg.SweepSpec = DefaultSweepSpec
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.RugDropPct <= 0 {
		cfg.RugDropPct = DefaultRugDropPct
	}
	return &Tracker{
		signals: signals,
		market:  market,
		cfg:     cfg,
		cron:    cron.New(),
		log:     logger.With().Str("component", "track").Logger(),
		now:     time.Now,
	}
}

// Start schedules the back-fill sweep.
func (t *Tracker) Start() error {
	if _, err := t.cron.AddFunc(t.cfg.SweepSpec, t.runSweep); err != nil {
		return err
	}
	t.cron.Start()
	t.log.Info().Str("spec", t.cfg.SweepSpec).Msg("outcome tracker started")
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (t *Tracker) Stop() {
	<-t.cron.Stop().Done()
}

func (t *Tracker) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSweepBudget)
	defer cancel()
	t.Sweep(ctx)
}

// Sweep back-fills every horizon whose delay has elapsed.
func (t *Tracker) Sweep(ctx context.Context) {
	for _, h := range domain.Horizons {
		t.sweepHorizon(ctx, h)
	}
}

func horizonDelay(h domain.Horizon) time.Duration {
	switch h {
	case domain.Horizon1h:
		return time.Hour
	case domain.Horizon6h:
		return 6 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func (t *Tracker) sweepHorizon(ctx context.Context, h domain.Horizon) {
	cutoff := t.now().Add(-horizonDelay(h)).UnixMilli()
	pending, err := t.signals.PendingOutcomes(ctx, h, cutoff, t.cfg.BatchSize)
	if err != nil {
		t.log.Warn().Err(err).Str("horizon", string(h)).Msg("pending outcome query failed")
		return
	}

	for _, sig := range pending {
		if err := t.backfill(ctx, sig, h); err != nil {
			t.log.Warn().Err(err).Str("mint", sig.Mint).Str("horizon", string(h)).Msg("outcome back-fill failed")
			continue
		}
		observability.RecordOutcomeBackfill(string(h))
		observability.DefaultMetrics.LastSuccessfulOutcome.Set(float64(t.now().Unix()))
	}
}

func (t *Tracker) backfill(ctx context.Context, sig *domain.LaunchSignal, h domain.Horizon) error {
	outcome := &storage.Outcome{Horizon: h}

	market, err := t.market.TokenMarket(ctx, sig.Mint, t.now().Unix())
	if err != nil {
		return err
	}

	var liquidity float64
	if market != nil {
		outcome.MarketCapUSD = market.Market.MarketCapUSD
		outcome.PriceUSD = market.Market.PriceUSD
		liquidity = market.Market.LiquidityUSD
	}
	// A vanished pair reads as zero liquidity: the market-cap columns stay
	// zero and the rug test below fires when launch liquidity existed.

	if t.isRug(sig, liquidity) {
		rugged := true
		minutes := int(t.now().Sub(time.UnixMilli(sig.CreatedAt)).Minutes())
		outcome.Rugged = &rugged
		outcome.RugMinutes = &minutes
		observability.DefaultMetrics.RugsDetected.Inc()
	} else if h == domain.Horizon24h && sig.Rugged == nil {
		// Close the label at the final horizon so the record counts as a
		// clean survivor in the cohort.
		rugged := false
		outcome.Rugged = &rugged
	}

	return t.signals.UpdateOutcome(ctx, sig.Mint, outcome)
}

// isRug reports whether liquidity collapsed relative to launch.
func (t *Tracker) isRug(sig *domain.LaunchSignal, liquidity float64) bool {
	if sig.Rugged != nil && *sig.Rugged {
		return false // already labeled
	}
	if sig.LiquidityUSD <= 0 {
		return false
	}
	dropPct := (sig.LiquidityUSD - liquidity) / sig.LiquidityUSD * 100
	return dropPct > t.cfg.RugDropPct
}
