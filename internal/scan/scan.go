// Package scan orchestrates the deep and instant pipelines: it fans out to
// the ledger and the external providers, assembles the check battery's
// ScanContext, aggregates the verdicts, and persists scan artifacts.
package scan

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/checks"
	"mintshield/internal/domain"
	"mintshield/internal/observability"
	"mintshield/internal/predict"
	"mintshield/internal/providers"
	"mintshield/internal/score"
	"mintshield/internal/solana"
	"mintshield/internal/storage"
)

// ErrInvalidMint rejects malformed mint addresses before any work begins.
var ErrInvalidMint = errors.New("scan: invalid mint address")

// probeNotional is the raw-unit quantity quoted by the sellability probe.
const probeNotional = 1_000_000

// DefaultGraduationMarketCapUSD approximates the market cap at which a
// bonding-curve token migrates to an open pool.
const DefaultGraduationMarketCapUSD = 69_000

// SecuritySource yields token-security flags, holders and creator info.
type SecuritySource interface {
	TokenSecurity(ctx context.Context, mint string) (*providers.SecurityReport, error)
}

// MarketSource yields pair, liquidity, volume and social-link data.
type MarketSource interface {
	TokenMarket(ctx context.Context, mint string, nowUnix int64) (*providers.MarketData, error)
}

// ForensicsSource yields LP-lock, insider-graph and reputation data.
type ForensicsSource interface {
	TokenForensics(ctx context.Context, mint string) (*providers.ForensicsReport, error)
}

// QuoteSource yields swap routes for the sellability probe.
type QuoteSource interface {
	Quote(ctx context.Context, inputMint, outputMint string, amount uint64) (*providers.SwapQuote, error)
}

// MetadataSource resolves off-chain token metadata by URI.
type MetadataSource interface {
	Fetch(ctx context.Context, uri string) (*providers.OffchainMetadata, error)
}

// Providers bundles the external data sources. Any of them may be nil;
// the pipelines degrade to unknown verdicts for the affected checks.
type Providers struct {
	Security  SecuritySource
	Market    MarketSource
	Forensics ForensicsSource
	Quote     QuoteSource
	Metadata  MetadataSource
}

// Config tunes the orchestrator.
type Config struct {
	InstantTTL             time.Duration
	DeepTTL                time.Duration
	GraduationMarketCapUSD float64
}

// Scanner runs scans. Safe for concurrent use.
type Scanner struct {
	ledger    solana.Client
	battery   *checks.Battery
	providers Providers
	predictor *predict.Predictor

	// Persistence is optional; a nil store skips that artifact.
	signals storage.LaunchSignalStore
	history storage.ScanHistoryStore

	cache      *resultCache
	graduation float64
	log        zerolog.Logger
	now        func() time.Time
}

// New creates a scanner.
func New(ledger solana.Client, battery *checks.Battery, p Providers, predictor *predict.Predictor,
	signals storage.LaunchSignalStore, history storage.ScanHistoryStore, cfg Config, logger zerolog.Logger) *Scanner {

	graduation := cfg.GraduationMarketCapUSD
	if graduation <= 0 {
		graduation = DefaultGraduationMarketCapUSD
	}
	return &Scanner{
		ledger:     ledger,
		battery:    battery,
		providers:  p,
		predictor:  predictor,
		signals:    signals,
		history:    history,
		cache:      newResultCache(cfg.InstantTTL, cfg.DeepTTL, nil),
		graduation: graduation,
		log:        logger.With().Str("component", "scan").Logger(),
		now:        time.Now,
	}
}

// Start launches the scanner's background cache maintenance.
func (s *Scanner) Start() { s.cache.Start() }

// Stop halts background maintenance.
func (s *Scanner) Stop() { s.cache.Stop() }

// Scan runs one scan in the given mode. Duplicate near-simultaneous
// requests for the same mint are served from the result cache.
func (s *Scanner) Scan(ctx context.Context, mint string, mode domain.ScanMode) (*domain.ScanResponse, error) {
	if !solana.ValidAddress(mint) {
		return nil, ErrInvalidMint
	}

	if cached := s.cache.Get(mint, mode); cached != nil {
		observability.RecordCacheHit(string(mode))
		return cached, nil
	}
	observability.RecordCacheMiss(string(mode))

	started := s.now()
	var resp *domain.ScanResponse
	if mode == domain.ModeDeep {
		resp = s.deep(ctx, mint)
	} else {
		resp = s.instant(ctx, mint)
	}

	resp.ScannedAt = started.UnixMilli()
	resp.DurationMs = s.now().Sub(started).Milliseconds()

	s.cache.Put(resp)
	s.persistHistory(ctx, resp)
	observability.RecordScan(string(resp.Mode), "ok", string(resp.RiskLevel), float64(resp.DurationMs)/1000)
	observability.DefaultMetrics.LastSuccessfulScan.Set(float64(s.now().Unix()))

	s.log.Info().
		Str("mint", mint).
		Str("mode", string(mode)).
		Int("score", resp.OverallScore).
		Str("level", string(resp.RiskLevel)).
		Int64("duration_ms", resp.DurationMs).
		Msg("scan complete")
	return resp, nil
}

// finalize aggregates check results into the response envelope.
func (s *Scanner) finalize(sc *checks.ScanContext, results []domain.CheckResult, mode domain.ScanMode) *domain.ScanResponse {
	overall := score.Aggregate(results)
	for _, r := range results {
		if r.Status == domain.StatusUnknown {
			observability.RecordUnknownCheck(string(r.Check))
		}
	}

	resp := &domain.ScanResponse{
		Mint:         sc.Mint,
		Identity:     identity(sc),
		OverallScore: overall,
		RiskLevel:    score.Level(overall),
		Checks:       results,
		Socials:      s.battery.Socials(sc),
		Flags:        providerFlags(sc),
		TrustedBy:    trustSources(sc),
		Platform:     platform(sc),
		Mode:         mode,
	}
	if sc.Market != nil {
		snapshot := sc.Market.Market
		resp.Market = &snapshot
	}
	return resp
}

func (s *Scanner) persistHistory(ctx context.Context, resp *domain.ScanResponse) {
	if s.history == nil {
		return
	}
	record := &domain.ScanRecord{
		Mint:         resp.Mint,
		Mode:         resp.Mode,
		OverallScore: resp.OverallScore,
		RiskLevel:    resp.RiskLevel,
		Platform:     resp.Platform,
		DurationMs:   resp.DurationMs,
		ScannedAt:    resp.ScannedAt,
	}
	if resp.Market != nil {
		record.MarketCapUSD = resp.Market.MarketCapUSD
		record.LiquidityUSD = resp.Market.LiquidityUSD
	}
	if err := s.history.Insert(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("mint", resp.Mint).Msg("scan history insert failed")
	}
}

// identity picks the best-available name/symbol/image across sources.
func identity(sc *checks.ScanContext) domain.TokenIdentity {
	var id domain.TokenIdentity
	if sc.Metadata != nil {
		id.Name = sc.Metadata.Name
		id.Symbol = sc.Metadata.Symbol
	}
	if sc.Offchain != nil {
		if id.Name == "" {
			id.Name = sc.Offchain.Name
		}
		if id.Symbol == "" {
			id.Symbol = sc.Offchain.Symbol
		}
		id.Image = sc.Offchain.Image
		id.Description = sc.Offchain.Description
	}
	if sc.Market != nil {
		if id.Name == "" {
			id.Name = sc.Market.Identity.Name
		}
		if id.Symbol == "" {
			id.Symbol = sc.Market.Identity.Symbol
		}
		if id.Image == "" {
			id.Image = sc.Market.Identity.Image
		}
	}
	return id
}

// providerFlags surfaces the forensics provider's named risk flags.
func providerFlags(sc *checks.ScanContext) []string {
	if sc.Forensics == nil || len(sc.Forensics.Risks) == 0 {
		return nil
	}
	flags := make([]string, 0, len(sc.Forensics.Risks))
	for _, r := range sc.Forensics.Risks {
		flags = append(flags, r.Name)
	}
	return flags
}

func trustSources(sc *checks.ScanContext) []string {
	var out []string
	if sc.Forensics != nil && sc.Forensics.Verified {
		out = append(out, "forensics")
	}
	if sc.Security != nil && sc.Security.TrustedToken {
		out = append(out, "security")
	}
	return out
}

// platform reports where liquidity lives: an unfinished curve means the
// launch platform still owns it, a located pool means an open AMM.
func platform(sc *checks.ScanContext) domain.Platform {
	if sc.Curve != nil && !sc.Curve.Complete {
		return domain.PlatformPump
	}
	if sc.Pool != nil {
		return domain.PlatformRaydium
	}
	if sc.Market != nil && sc.Market.Platform != "" {
		return sc.Market.Platform
	}
	return domain.PlatformNone
}
