// Package checks implements the risk check battery. Every check consumes a
// ScanContext assembled by the orchestrator and returns a normalized
// CheckResult; a check that cannot be evaluated reports StatusUnknown
// instead of failing the scan.
package checks

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/decode"
	"mintshield/internal/domain"
	"mintshield/internal/providers"
	"mintshield/internal/solana"
)

// ScanContext is the per-request view a check runs against. The orchestrator
// fetches ledger accounts and provider payloads once and shares them across
// checks; any field may be nil when its source failed or was skipped.
type ScanContext struct {
	Mint string
	Mode domain.ScanMode
	Now  time.Time

	// Ledger is available to deep-mode checks that trace transactions.
	// Nil in instant mode.
	Ledger solana.Client

	// Ledger-derived account state.
	MintInfo   *decode.MintAccount
	Extensions *decode.MintExtensions
	Metadata   *decode.Metadata
	Curve      *decode.BondingCurve
	Pool       *decode.PoolAccount
	PoolAddr   string
	LPSupply   *solana.TokenAmount
	LPHolders  []solana.TokenAccountBalance
	Holders    []solana.TokenAccountBalance
	Supply     *solana.TokenAmount

	// ExcludedHolders are token-account addresses that do not count as real
	// holders: pool vaults, the bonding curve's account, and similar.
	ExcludedHolders []string

	// Provider payloads.
	Security  *providers.SecurityReport
	Market    *providers.MarketData
	Forensics *providers.ForensicsReport
	Quote     *providers.SwapQuote
	QuoteErr  error
	Offchain  *providers.OffchainMetadata

	earlyOnce sync.Once
	early     *earlyActivity
}

// rawSupply returns the mint's raw-unit supply from the best available source.
func (sc *ScanContext) rawSupply() uint64 {
	if sc.Supply != nil && sc.Supply.Amount > 0 {
		return sc.Supply.Amount
	}
	if sc.MintInfo != nil {
		return sc.MintInfo.Supply
	}
	return 0
}

// Weights holds the aggregation weight of each check, all in [0,1].
type Weights struct {
	MintAuthority   float64 `yaml:"mint_authority"`
	FreezeAuthority float64 `yaml:"freeze_authority"`
	Liquidity       float64 `yaml:"liquidity"`
	Holders         float64 `yaml:"holders"`
	Honeypot        float64 `yaml:"honeypot"`
	DevWallet       float64 `yaml:"dev_wallet"`
	Bundle          float64 `yaml:"bundle"`
	Funding         float64 `yaml:"funding"`
	Sniper          float64 `yaml:"sniper"`
	TransferTax     float64 `yaml:"transfer_tax"`
	Social          float64 `yaml:"social"`
	RugPattern      float64 `yaml:"rug_pattern"`
}

// DefaultWeights returns the production weight set.
func DefaultWeights() Weights {
	return Weights{
		MintAuthority:   1.0,
		FreezeAuthority: 0.8,
		Liquidity:       1.0,
		Holders:         0.9,
		Honeypot:        1.0,
		DevWallet:       0.7,
		Bundle:          0.8,
		Funding:         0.7,
		Sniper:          0.6,
		TransferTax:     0.8,
		Social:          0.3,
		RugPattern:      0.9,
	}
}

// For returns the weight configured for a check kind.
func (w Weights) For(kind domain.CheckKind) float64 {
	switch kind {
	case domain.CheckMintAuthority:
		return w.MintAuthority
	case domain.CheckFreezeAuthority:
		return w.FreezeAuthority
	case domain.CheckLiquidity:
		return w.Liquidity
	case domain.CheckHolders:
		return w.Holders
	case domain.CheckHoneypot:
		return w.Honeypot
	case domain.CheckDevWallet:
		return w.DevWallet
	case domain.CheckBundle:
		return w.Bundle
	case domain.CheckFunding:
		return w.Funding
	case domain.CheckSniper:
		return w.Sniper
	case domain.CheckTransferTax:
		return w.TransferTax
	case domain.CheckSocial:
		return w.Social
	case domain.CheckRugPattern:
		return w.RugPattern
	}
	return 0
}

// Battery evaluates the full check set with a fixed weight configuration.
type Battery struct {
	weights Weights
	log     zerolog.Logger
}

// NewBattery creates a check battery.
func NewBattery(weights Weights, logger zerolog.Logger) *Battery {
	return &Battery{
		weights: weights,
		log:     logger.With().Str("component", "checks").Logger(),
	}
}

// Weights returns the battery's weight configuration.
func (b *Battery) Weights() Weights { return b.weights }

// result builds a resolved CheckResult with the configured weight.
func (b *Battery) result(kind domain.CheckKind, status domain.CheckStatus, score int, msg string) domain.CheckResult {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return domain.CheckResult{
		Check:   kind,
		Status:  status,
		Score:   score,
		Weight:  b.weights.For(kind),
		Message: msg,
	}
}

// unknown builds the unknown verdict each check degrades to on a data gap.
func (b *Battery) unknown(kind domain.CheckKind, msg string) domain.CheckResult {
	return domain.CheckResult{
		Check:   kind,
		Status:  domain.StatusUnknown,
		Score:   50,
		Weight:  b.weights.For(kind),
		Message: msg,
	}
}

// resolver is one step of a provider-fallback chain: it either produces a
// resolved verdict or reports that its source had no data.
type resolver func(sc *ScanContext) (domain.CheckResult, bool)

// resolveChain tries resolvers in order and returns the first hit, falling
// back to the given unknown verdict.
func resolveChain(sc *ScanContext, fallback domain.CheckResult, chain ...resolver) domain.CheckResult {
	for _, r := range chain {
		if res, ok := r(sc); ok {
			return res
		}
	}
	return fallback
}
