package track

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"mintshield/internal/domain"
)

// WatchlistSource yields the mints to keep fresh. The watchlist table
// itself is owned by an external surface; the job only reads it.
type WatchlistSource interface {
	Mints(ctx context.Context) ([]string, error)
}

// Rescanner is the scan entry point the watchlist job drives.
type Rescanner interface {
	Scan(ctx context.Context, mint string, mode domain.ScanMode) (*domain.ScanResponse, error)
}

// DefaultRescanSpec is the watchlist rescan schedule.
const DefaultRescanSpec = "@every 5m"

// Watchlist periodically re-runs instant scans over a caller-supplied mint
// list so watched tokens always have a recent score.
type Watchlist struct {
	source  WatchlistSource
	scanner Rescanner
	spec    string

	cron *cron.Cron
	log  zerolog.Logger
}

// NewWatchlist creates the auto-rescan job.
func NewWatchlist(source WatchlistSource, scanner Rescanner, spec string, logger zerolog.Logger) *Watchlist {
	if spec == "" {
		spec = DefaultRescanSpec
	}
	return &Watchlist{
		source:  source,
		scanner: scanner,
		spec:    spec,
		cron:    cron.New(),
		log:     logger.With().Str("component", "watchlist").Logger(),
	}
}

// Start schedules the rescan sweep.
func (w *Watchlist) Start() error {
	if _, err := w.cron.AddFunc(w.spec, w.runSweep); err != nil {
		return err
	}
	w.cron.Start()
	w.log.Info().Str("spec", w.spec).Msg("watchlist rescan started")
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (w *Watchlist) Stop() {
	<-w.cron.Stop().Done()
}

func (w *Watchlist) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSweepBudget)
	defer cancel()
	w.Sweep(ctx)
}

// Sweep rescans every watched mint once.
func (w *Watchlist) Sweep(ctx context.Context) {
	mints, err := w.source.Mints(ctx)
	if err != nil {
		w.log.Warn().Err(err).Msg("watchlist read failed")
		return
	}

	for _, mint := range mints {
		started := time.Now()
		resp, err := w.scanner.Scan(ctx, mint, domain.ModeInstant)
		if err != nil {
			w.log.Warn().Err(err).Str("mint", mint).Msg("watchlist rescan failed")
			continue
		}
		w.log.Debug().
			Str("mint", mint).
			Int("score", resp.OverallScore).
			Dur("took", time.Since(started)).
			Msg("watchlist rescan complete")
	}
}
