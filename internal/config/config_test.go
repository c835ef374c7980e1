package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mintshield/internal/checks"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MINTSHIELD_CONFIG", "")
	t.Setenv("SOLANA_RPC_ENDPOINT", "")
	t.Setenv("SCAN_INSTANT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCEndpoint)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 30*time.Second, cfg.Scan.InstantTTL)
	assert.Equal(t, 60*time.Second, cfg.Scan.DeepTTL)
	assert.Equal(t, float64(69_000), cfg.Scan.GraduationMarketCapUSD)
	assert.Equal(t, "@every 1m", cfg.Jobs.OutcomeSweepSpec)
	assert.Equal(t, 200, cfg.Jobs.OutcomeBatchSize)
	assert.Equal(t, checks.DefaultWeights(), cfg.Weights)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MINTSHIELD_CONFIG", "")
	t.Setenv("SOLANA_RPC_ENDPOINT", "http://localhost:8899")
	t.Setenv("SCAN_INSTANT_TTL", "45s")
	t.Setenv("GRADUATION_MARKET_CAP_USD", "80000")
	t.Setenv("OUTCOME_BATCH_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.RPCEndpoint)
	assert.Equal(t, 45*time.Second, cfg.Scan.InstantTTL)
	assert.Equal(t, float64(80_000), cfg.Scan.GraduationMarketCapUSD)
	assert.Equal(t, 50, cfg.Jobs.OutcomeBatchSize)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mintshield.yaml")
	body := `
scan:
  deep_ttl: 2m
  graduation_market_cap_usd: 75000
jobs:
  outcome_sweep_spec: "@every 30s"
weights:
  mint_authority: 1.0
  freeze_authority: 0.5
  liquidity: 1.0
  holders: 0.9
  honeypot: 1.0
  dev_wallet: 0.7
  bundle: 0.8
  funding: 0.7
  sniper: 0.6
  transfer_tax: 0.8
  social: 0.3
  rug_pattern: 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	t.Setenv("MINTSHIELD_CONFIG", path)
	t.Setenv("SCAN_INSTANT_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Scan.DeepTTL)
	assert.Equal(t, float64(75_000), cfg.Scan.GraduationMarketCapUSD)
	assert.Equal(t, "@every 30s", cfg.Jobs.OutcomeSweepSpec)
	assert.Equal(t, 0.5, cfg.Weights.FreezeAuthority)
	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Scan.InstantTTL)
}

func TestLoadBadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: [not a map"), 0o600))

	t.Setenv("MINTSHIELD_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}
