package scan

import (
	"context"
	"sync"

	"mintshield/internal/checks"
	"mintshield/internal/domain"
)

// deep runs the full pipeline: complete ledger resolution, every provider,
// and the multi-round-trip tracing checks.
func (s *Scanner) deep(ctx context.Context, mint string) *domain.ScanResponse {
	sc := &checks.ScanContext{
		Mint:   mint,
		Mode:   domain.ModeDeep,
		Now:    s.now(),
		Ledger: s.ledger,
	}

	// Ledger resolution and provider fetches are independent; run both
	// sides at once.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.resolveLedger(ctx, sc)
	}()
	go func() {
		defer wg.Done()
		s.fetchProviders(ctx, sc)
	}()
	wg.Wait()
	s.fetchOffchain(ctx, sc)

	// Wave 1: checks that consume already-fetched state.
	results := []domain.CheckResult{
		s.battery.MintAuthority(sc),
		s.battery.FreezeAuthority(sc),
		s.battery.Liquidity(sc),
		s.battery.Holders(sc),
		s.battery.Honeypot(sc),
		s.battery.TransferTax(sc),
		s.battery.Social(sc),
	}

	// Wave 2: tracing checks issue their own ledger round trips. They
	// share one memoized launch trace, so run them concurrently.
	var (
		devWallet, bundle, funding, sniper domain.CheckResult
		wave2                              sync.WaitGroup
	)
	wave2.Add(4)
	go func() { defer wave2.Done(); devWallet = s.battery.DevWallet(ctx, sc) }()
	go func() { defer wave2.Done(); bundle = s.battery.Bundle(ctx, sc) }()
	go func() { defer wave2.Done(); funding = s.battery.Funding(ctx, sc) }()
	go func() { defer wave2.Done(); sniper = s.battery.Sniper(ctx, sc) }()
	wave2.Wait()

	results = append(results, devWallet, bundle, funding, sniper, s.battery.RugPattern(sc))
	return s.finalize(sc, results, domain.ModeDeep)
}
