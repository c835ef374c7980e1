package scan

import (
	"context"

	"golang.org/x/sync/errgroup"

	"mintshield/internal/checks"
	"mintshield/internal/observability"
	"mintshield/internal/solana"
)

// fetchProviders fans out to all configured external sources concurrently.
// Each goroutine owns one distinct ScanContext field, so no locking is
// needed; a failing source leaves its field nil and is never fatal.
func (s *Scanner) fetchProviders(ctx context.Context, sc *checks.ScanContext) {
	g := new(errgroup.Group)

	if s.providers.Security != nil {
		g.Go(func() error {
			started := s.now()
			report, err := s.providers.Security.TokenSecurity(ctx, sc.Mint)
			observability.RecordProviderCall("security", s.now().Sub(started).Seconds(), err)
			if err != nil {
				s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("security provider failed")
				return nil
			}
			sc.Security = report
			return nil
		})
	}

	if s.providers.Market != nil {
		g.Go(func() error {
			started := s.now()
			market, err := s.providers.Market.TokenMarket(ctx, sc.Mint, sc.Now.Unix())
			observability.RecordProviderCall("market", s.now().Sub(started).Seconds(), err)
			if err != nil {
				s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("market provider failed")
				return nil
			}
			sc.Market = market
			return nil
		})
	}

	if s.providers.Forensics != nil {
		g.Go(func() error {
			started := s.now()
			report, err := s.providers.Forensics.TokenForensics(ctx, sc.Mint)
			observability.RecordProviderCall("forensics", s.now().Sub(started).Seconds(), err)
			if err != nil {
				s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("forensics provider failed")
				return nil
			}
			sc.Forensics = report
			return nil
		})
	}

	if s.providers.Quote != nil {
		g.Go(func() error {
			started := s.now()
			quote, err := s.providers.Quote.Quote(ctx, sc.Mint, solana.WSOLMint, probeNotional)
			observability.RecordProviderCall("quote", s.now().Sub(started).Seconds(), err)
			sc.Quote, sc.QuoteErr = quote, err
			return nil
		})
	}

	// The goroutines never return errors; Wait is just the barrier.
	_ = g.Wait()
}

// fetchOffchain resolves the metadata URI's off-chain content. Runs after
// ledger resolution since the URI comes from the metadata account.
func (s *Scanner) fetchOffchain(ctx context.Context, sc *checks.ScanContext) {
	if s.providers.Metadata == nil || sc.Metadata == nil || sc.Metadata.URI == "" {
		return
	}
	started := s.now()
	offchain, err := s.providers.Metadata.Fetch(ctx, sc.Metadata.URI)
	observability.RecordProviderCall("metadata", s.now().Sub(started).Seconds(), err)
	if err != nil {
		s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("offchain metadata fetch failed")
		return
	}
	sc.Offchain = offchain
}
