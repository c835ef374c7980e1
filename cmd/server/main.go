// Command server runs the scan engine as a long-lived service: launch
// discovery over WebSocket, instant scans on every new token, outcome
// back-fill, watchlist rescans, and an HTTP surface for on-demand scans.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/checks"
	"mintshield/internal/config"
	"mintshield/internal/discovery"
	"mintshield/internal/domain"
	"mintshield/internal/observability"
	"mintshield/internal/predict"
	"mintshield/internal/providers"
	"mintshield/internal/scan"
	"mintshield/internal/solana"
	"mintshield/internal/storage"
	chstore "mintshield/internal/storage/clickhouse"
	"mintshield/internal/storage/memory"
	"mintshield/internal/storage/migrations"
	pgstore "mintshield/internal/storage/postgres"
	"mintshield/internal/track"
)

type stores struct {
	signals storage.LaunchSignalStore
	history storage.ScanHistoryStore
}

func main() {
	useMemory := flag.Bool("use-memory", os.Getenv("USE_MEMORY_STORES") == "true",
		"use in-memory stores instead of Postgres/ClickHouse")
	noDiscovery := flag.Bool("no-discovery", false,
		"disable the WebSocket launch monitor")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)

	if !*useMemory && (cfg.PostgresDSN == "" || cfg.ClickhouseDSN == "") {
		logger.Fatal().Msg("POSTGRES_DSN and CLICKHOUSE_DSN are required unless --use-memory is set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, cfg, *useMemory)
	if err != nil {
		logger.Fatal().Err(err).Msg("create stores")
	}
	defer cleanup()

	rpc := solana.NewHTTPClient(cfg.RPCEndpoint)
	battery := checks.NewBattery(cfg.Weights, logger)
	predictor := predict.New(st.signals, logger)

	market := providers.NewMarketClient(cfg.Providers.MarketURL, logger)
	sources := buildProviders(cfg, market, logger)

	scanner := scan.New(rpc, battery, sources, predictor, st.signals, st.history, scan.Config{
		InstantTTL:             cfg.Scan.InstantTTL,
		DeepTTL:                cfg.Scan.DeepTTL,
		GraduationMarketCapUSD: cfg.Scan.GraduationMarketCapUSD,
	}, logger)
	scanner.Start()
	defer scanner.Stop()

	tracker := track.NewTracker(st.signals, market, track.TrackerConfig{
		SweepSpec:  cfg.Jobs.OutcomeSweepSpec,
		BatchSize:  cfg.Jobs.OutcomeBatchSize,
		RugDropPct: cfg.Jobs.RugDropPct,
	}, logger)
	if err := tracker.Start(); err != nil {
		logger.Fatal().Err(err).Msg("start outcome tracker")
	}
	defer tracker.Stop()

	if mints := watchlistMints(); len(mints) > 0 {
		wl := track.NewWatchlist(staticWatchlist(mints), scanner, cfg.Jobs.WatchlistSpec, logger)
		if err := wl.Start(); err != nil {
			logger.Fatal().Err(err).Msg("start watchlist")
		}
		defer wl.Stop()
		logger.Info().Int("mints", len(mints)).Msg("watchlist enabled")
	}

	if !*noDiscovery {
		monitor, err := discovery.Connect(ctx, cfg.WSEndpoint, rpc, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect launch monitor")
		}
		go monitor.Run(ctx)
		go scanLaunches(ctx, monitor, scanner, logger)
	}

	go serveHTTP(cfg.ListenAddr, scanner, st.history, logger)
	go serveMetrics(cfg.MetricsAddr, logger)

	logger.Info().
		Str("listen", cfg.ListenAddr).
		Str("metrics", cfg.MetricsAddr).
		Bool("memory", *useMemory).
		Msg("server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")
	cancel()

	// A second signal, or a stuck shutdown, forces exit.
	go func() {
		select {
		case <-sigCh:
			os.Exit(1)
		case <-time.After(30 * time.Second):
			os.Exit(1)
		}
	}()
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func createStores(ctx context.Context, cfg *config.Config, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			signals: memory.NewLaunchSignalStore(),
			history: memory.NewScanHistoryStore(),
		}
		return st, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate clickhouse: %w", err)
	}

	st := &stores{
		signals: chstore.NewLaunchSignalStore(chConn),
		history: pgstore.NewScanHistoryStore(pool),
	}
	cleanup := func() {
		_ = chConn.Close()
		pool.Close()
	}
	return st, cleanup, nil
}

// buildProviders wires the external sources, leaving any with an empty
// base URL nil so the affected checks degrade to unknown.
func buildProviders(cfg *config.Config, market *providers.MarketClient, logger zerolog.Logger) scan.Providers {
	p := scan.Providers{
		Metadata: providers.NewMetadataClient(cfg.Providers.IPFSGateway, logger),
	}
	if cfg.Providers.MarketURL != "" {
		p.Market = market
	}
	if cfg.Providers.SecurityURL != "" {
		p.Security = providers.NewSecurityClient(cfg.Providers.SecurityURL, cfg.Providers.SecurityAPIKey, logger)
	}
	if cfg.Providers.ForensicsURL != "" {
		p.Forensics = providers.NewForensicsClient(cfg.Providers.ForensicsURL, logger)
	}
	if cfg.Providers.QuoteURL != "" {
		p.Quote = providers.NewQuoteClient(cfg.Providers.QuoteURL, logger)
	}
	return p
}

// scanLaunches runs an instant scan on every discovered launch.
func scanLaunches(ctx context.Context, m *discovery.Monitor, scanner *scan.Scanner, logger zerolog.Logger) {
	for launch := range m.Launches() {
		resp, err := scanner.Scan(ctx, launch.Mint, domain.ModeInstant)
		if err != nil {
			logger.Warn().Err(err).Str("mint", launch.Mint).Msg("launch scan failed")
			continue
		}
		logger.Info().
			Str("mint", launch.Mint).
			Str("platform", string(launch.Platform)).
			Int("score", resp.OverallScore).
			Str("risk", string(resp.RiskLevel)).
			Msg("launch scanned")
	}
}

func serveHTTP(addr string, scanner *scan.Scanner, history storage.ScanHistoryStore, logger zerolog.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/scan", func(w http.ResponseWriter, r *http.Request) {
		mint := r.URL.Query().Get("mint")
		mode := domain.ScanMode(r.URL.Query().Get("mode"))
		if mode == "" {
			mode = domain.ModeDeep
		}
		if mode != domain.ModeDeep && mode != domain.ModeInstant {
			http.Error(w, "mode must be deep or instant", http.StatusBadRequest)
			return
		}

		resp, err := scanner.Scan(r.Context(), mint, mode)
		if err != nil {
			if errors.Is(err, scan.ErrInvalidMint) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		mint := r.URL.Query().Get("mint")
		if mint == "" {
			http.Error(w, "mint is required", http.StatusBadRequest)
			return
		}
		records, err := history.GetRecentByMint(r.Context(), mint, 20)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, records)
	})

	logger.Info().Str("addr", addr).Msg("http server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("http server")
	}
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())

	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticWatchlist serves the fixed mint list from WATCHLIST_MINTS.
type staticWatchlist []string

func (s staticWatchlist) Mints(context.Context) ([]string, error) {
	return s, nil
}

func watchlistMints() []string {
	raw := os.Getenv("WATCHLIST_MINTS")
	if raw == "" {
		return nil
	}
	var mints []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			mints = append(mints, m)
		}
	}
	return mints
}
