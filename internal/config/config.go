// Package config loads service configuration from the environment, with an
// optional YAML overlay for the tuning knobs that change more often than
// deployments do (check weights, thresholds, job schedules).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mintshield/internal/checks"
)

// ProvidersConfig holds the external data-source endpoints. Empty URL
// disables that provider; the affected checks degrade to unknown.
type ProvidersConfig struct {
	SecurityURL    string `yaml:"security_url"`
	SecurityAPIKey string `yaml:"-"`
	MarketURL      string `yaml:"market_url"`
	ForensicsURL   string `yaml:"forensics_url"`
	QuoteURL       string `yaml:"quote_url"`
	IPFSGateway    string `yaml:"ipfs_gateway"`
}

// ScanConfig tunes the orchestrator.
type ScanConfig struct {
	InstantTTL             time.Duration
	DeepTTL                time.Duration
	GraduationMarketCapUSD float64
}

// JobsConfig tunes the background jobs.
type JobsConfig struct {
	OutcomeSweepSpec string  `yaml:"outcome_sweep_spec"`
	WatchlistSpec    string  `yaml:"watchlist_spec"`
	OutcomeBatchSize int     `yaml:"outcome_batch_size"`
	RugDropPct       float64 `yaml:"rug_drop_pct"`
}

// Config is the full service configuration.
type Config struct {
	RPCEndpoint   string
	WSEndpoint    string
	PostgresDSN   string
	ClickhouseDSN string
	ListenAddr    string
	MetricsAddr   string
	LogLevel      string

	Providers ProvidersConfig
	Scan      ScanConfig
	Jobs      JobsConfig
	Weights   checks.Weights
}

// fileConfig is the YAML overlay shape. Only present keys override.
// Durations are strings ("30s", "2m") since yaml.v3 has no native
// time.Duration decoding.
type fileConfig struct {
	Providers *ProvidersConfig `yaml:"providers"`
	Scan      *scanOverlay     `yaml:"scan"`
	Jobs      *JobsConfig      `yaml:"jobs"`
	Weights   *checks.Weights  `yaml:"weights"`
}

type scanOverlay struct {
	InstantTTL             string  `yaml:"instant_ttl"`
	DeepTTL                string  `yaml:"deep_ttl"`
	GraduationMarketCapUSD float64 `yaml:"graduation_market_cap_usd"`
}

// Load reads configuration from a .env file (when present), the
// environment, and the YAML overlay named by MINTSHIELD_CONFIG.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		RPCEndpoint:   envOr("SOLANA_RPC_ENDPOINT", "https://api.mainnet-beta.solana.com"),
		WSEndpoint:    envOr("SOLANA_WS_ENDPOINT", "wss://api.mainnet-beta.solana.com"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		ClickhouseDSN: os.Getenv("CLICKHOUSE_DSN"),
		ListenAddr:    envOr("LISTEN_ADDR", ":8080"),
		MetricsAddr:   envOr("METRICS_ADDR", ":9090"),
		LogLevel:      envOr("LOG_LEVEL", "info"),

		Providers: ProvidersConfig{
			SecurityURL:    envOr("SECURITY_API_URL", "https://api.gopluslabs.io/api/v1"),
			SecurityAPIKey: os.Getenv("SECURITY_API_KEY"),
			MarketURL:      envOr("MARKET_API_URL", "https://api.dexscreener.com"),
			ForensicsURL:   envOr("FORENSICS_API_URL", "https://api.rugcheck.xyz"),
			QuoteURL:       envOr("QUOTE_API_URL", "https://quote-api.jup.ag/v6"),
			IPFSGateway:    envOr("IPFS_GATEWAY", "https://ipfs.io/ipfs/"),
		},
		Scan: ScanConfig{
			InstantTTL:             envDuration("SCAN_INSTANT_TTL", 30*time.Second),
			DeepTTL:                envDuration("SCAN_DEEP_TTL", 60*time.Second),
			GraduationMarketCapUSD: envFloat("GRADUATION_MARKET_CAP_USD", 69_000),
		},
		Jobs: JobsConfig{
			OutcomeSweepSpec: envOr("OUTCOME_SWEEP_SPEC", "@every 1m"),
			WatchlistSpec:    envOr("WATCHLIST_SPEC", "@every 5m"),
			OutcomeBatchSize: envInt("OUTCOME_BATCH_SIZE", 200),
			RugDropPct:       envFloat("RUG_DROP_PCT", 90),
		},
		Weights: checks.DefaultWeights(),
	}

	if path := os.Getenv("MINTSHIELD_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay fileConfig
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if overlay.Providers != nil {
		applyNonEmpty(&c.Providers.SecurityURL, overlay.Providers.SecurityURL)
		applyNonEmpty(&c.Providers.MarketURL, overlay.Providers.MarketURL)
		applyNonEmpty(&c.Providers.ForensicsURL, overlay.Providers.ForensicsURL)
		applyNonEmpty(&c.Providers.QuoteURL, overlay.Providers.QuoteURL)
		applyNonEmpty(&c.Providers.IPFSGateway, overlay.Providers.IPFSGateway)
	}
	if overlay.Scan != nil {
		if err := applyDuration(&c.Scan.InstantTTL, overlay.Scan.InstantTTL); err != nil {
			return fmt.Errorf("scan.instant_ttl: %w", err)
		}
		if err := applyDuration(&c.Scan.DeepTTL, overlay.Scan.DeepTTL); err != nil {
			return fmt.Errorf("scan.deep_ttl: %w", err)
		}
		if overlay.Scan.GraduationMarketCapUSD > 0 {
			c.Scan.GraduationMarketCapUSD = overlay.Scan.GraduationMarketCapUSD
		}
	}
	if overlay.Jobs != nil {
		applyNonEmpty(&c.Jobs.OutcomeSweepSpec, overlay.Jobs.OutcomeSweepSpec)
		applyNonEmpty(&c.Jobs.WatchlistSpec, overlay.Jobs.WatchlistSpec)
		if overlay.Jobs.OutcomeBatchSize > 0 {
			c.Jobs.OutcomeBatchSize = overlay.Jobs.OutcomeBatchSize
		}
		if overlay.Jobs.RugDropPct > 0 {
			c.Jobs.RugDropPct = overlay.Jobs.RugDropPct
		}
	}
	if overlay.Weights != nil {
		c.Weights = *overlay.Weights
	}
	return nil
}

func applyDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func applyNonEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
