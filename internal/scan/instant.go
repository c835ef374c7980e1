package scan

import (
	"context"
	"errors"

	"mintshield/internal/checks"
	"mintshield/internal/domain"
	"mintshield/internal/observability"
	"mintshield/internal/predict"
	"mintshield/internal/storage"
)

// instant runs the fast pipeline: one ledger round trip plus the provider
// wave, every verdict derived from payloads, the tracing checks folded into
// the rug-pattern composite. Also the pipeline that records launch signals
// and runs the outcome predictor.
func (s *Scanner) instant(ctx context.Context, mint string) *domain.ScanResponse {
	sc := &checks.ScanContext{
		Mint: mint,
		Mode: domain.ModeInstant,
		Now:  s.now(),
		// Ledger stays nil: instant checks must not issue extra round trips.
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.resolveMint(ctx, sc)
	}()
	s.fetchProviders(ctx, sc)
	<-done

	results := []domain.CheckResult{
		s.battery.MintAuthority(sc),
		s.battery.FreezeAuthority(sc),
		s.battery.Liquidity(sc),
		s.battery.Holders(sc),
		s.battery.Honeypot(sc),
		s.battery.DevWallet(ctx, sc),
		s.battery.TransferTax(sc),
		s.battery.Social(sc),
		s.battery.RugPattern(sc),
	}

	resp := s.finalize(sc, results, domain.ModeInstant)

	signal := s.buildSignal(sc, resp, results)
	if s.predictor != nil {
		resp.Prediction = s.predictor.Predict(ctx, &predict.Input{
			Signal: signal,
			Market: resp.Market,
		})
	}
	s.recordSignal(ctx, signal)
	return resp
}

// buildSignal assembles the launch-time snapshot that trains the predictor.
func (s *Scanner) buildSignal(sc *checks.ScanContext, resp *domain.ScanResponse, results []domain.CheckResult) *domain.LaunchSignal {
	signal := &domain.LaunchSignal{
		Mint:      sc.Mint,
		Platform:  resp.Platform,
		RiskScore: resp.OverallScore,
		CreatedAt: sc.Now.UnixMilli(),
	}
	if resp.Market != nil {
		signal.MarketCapUSD = resp.Market.MarketCapUSD
		signal.LiquidityUSD = resp.Market.LiquidityUSD
		signal.PriceUSD = resp.Market.PriceUSD
	}

	if sc.Forensics != nil {
		signal.LPLockedPct = sc.Forensics.LPLockedPct
		signal.LPBurnedPct = sc.Forensics.LPBurnedPct
		signal.InsiderCount = sc.Forensics.InsiderNetworks
	} else if sc.Security != nil {
		for _, lp := range sc.Security.LPHolders {
			switch {
			case lp.Burned:
				signal.LPBurnedPct += lp.Pct
			case lp.Locked:
				signal.LPLockedPct += lp.Pct
			}
		}
	}

	if sc.Security != nil {
		signal.DevHoldingPct = sc.Security.CreatorPct
		signal.BuyTaxBps = sc.Security.BuyTaxBps
		signal.SellTaxBps = sc.Security.SellTaxBps
	}

	for _, r := range results {
		switch r.Check {
		case domain.CheckMintAuthority:
			signal.MintRevoked = r.Status == domain.StatusSafe
		case domain.CheckFreezeAuthority:
			signal.FreezeRevoked = r.Status == domain.StatusSafe
		case domain.CheckHolders:
			if pct, ok := r.Detail("top10Pct").(float64); ok {
				signal.Top10Pct = pct
			}
		case domain.CheckDevWallet:
			if pct, ok := r.Detail("devHoldingPct").(float64); ok && pct > signal.DevHoldingPct {
				signal.DevHoldingPct = pct
			}
		}
	}

	switch {
	case sc.Curve != nil:
		signal.CurveProgress = sc.Curve.Progress()
	case signal.MarketCapUSD > 0:
		// No curve account in reach; approximate progress against the
		// configured graduation cap.
		progress := signal.MarketCapUSD / s.graduation
		if progress > 1 {
			progress = 1
		}
		signal.CurveProgress = progress
	}

	links := resp.Socials
	signal.HasSocials = links.Website != "" || links.Twitter != "" || links.Telegram != "" || links.Discord != ""
	return signal
}

// recordSignal inserts the launch signal; a duplicate mint is the normal
// already-observed case and is ignored.
func (s *Scanner) recordSignal(ctx context.Context, signal *domain.LaunchSignal) {
	if s.signals == nil {
		return
	}
	err := s.signals.Insert(ctx, signal)
	switch {
	case err == nil:
		observability.DefaultMetrics.SignalsRecorded.Inc()
	case errors.Is(err, storage.ErrDuplicateKey):
	default:
		s.log.Warn().Err(err).Str("mint", signal.Mint).Msg("launch signal insert failed")
	}
}
