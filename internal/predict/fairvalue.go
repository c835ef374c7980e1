package predict

import "mintshield/internal/domain"

// FairValue estimates a short-horizon market-cap band from the current
// snapshot plus the launch signal's holder picture. It is deliberately
// model-free: a handful of monotone scores composed into one band.
func FairValue(sig *domain.LaunchSignal, m *domain.MarketSnapshot) *domain.FairValueBand {
	if m.MarketCapUSD <= 0 {
		return nil
	}

	liq := liquidityScore(m)
	mom := momentumScore(m)
	stage := holderStage(sig, m)
	tier := concentrationTier(sig)

	// Mid anchors on the current cap, pulled up or down by how well the
	// market depth and flow support it. Thin liquidity or fading flow
	// mean the printed cap overstates what holders could realize.
	factor := (0.75 + float64(liq)/100*0.5) * (0.70 + float64(mom)/100*0.6)
	mid := m.MarketCapUSD * factor

	return &domain.FairValueBand{
		LowUSD:  mid * 0.6,
		MidUSD:  mid,
		HighUSD: mid * 1.8,

		LiquidityScore:    liq,
		MomentumScore:     mom,
		HolderStage:       stage,
		ConcentrationTier: tier,
		Trend:             trend(mom, m),
	}
}

// liquidityScore grades pool depth relative to market cap. Memecoin pools
// below 5% of cap cannot absorb any meaningful exit.
func liquidityScore(m *domain.MarketSnapshot) int {
	if m.MarketCapUSD <= 0 || m.LiquidityUSD <= 0 {
		return 0
	}
	ratio := m.LiquidityUSD / m.MarketCapUSD
	switch {
	case ratio >= 0.50:
		return 100
	case ratio >= 0.25:
		return 80
	case ratio >= 0.10:
		return 60
	case ratio >= 0.05:
		return 40
	default:
		return 20
	}
}

// momentumScore starts neutral at 50 and shifts with buy pressure, volume
// acceleration, and price action. Clamped to [0, 100].
func momentumScore(m *domain.MarketSnapshot) int {
	score := 50

	if total := m.Buys5m + m.Sells5m; total > 0 {
		ratio := float64(m.Buys5m) / float64(total)
		switch {
		case ratio > 0.65:
			score += 15
		case ratio < 0.35:
			score -= 15
		}
	}
	if total := m.Buys1h + m.Sells1h; total > 0 {
		ratio := float64(m.Buys1h) / float64(total)
		switch {
		case ratio > 0.65:
			score += 10
		case ratio < 0.35:
			score -= 10
		}
	}

	// Annualize the 5m window against the trailing hour to spot volume
	// arriving or drying up.
	if m.Volume1hUSD > 0 {
		accel := m.Volume5mUSD * 12 / m.Volume1hUSD
		switch {
		case accel > 1.5:
			score += 15
		case accel < 0.5:
			score -= 10
		}
	}

	switch {
	case m.PriceChange5m > 10:
		score += 10
	case m.PriceChange5m < -10:
		score -= 10
	}
	switch {
	case m.PriceChange1h > 25:
		score += 5
	case m.PriceChange1h < -25:
		score -= 10
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// holderStage classifies launch maturity A (discovery) through D
// (established), keyed off market cap and demoted one stage while the
// top-10 concentration stays launch-like.
func holderStage(sig *domain.LaunchSignal, m *domain.MarketSnapshot) string {
	var stage int
	switch {
	case m.MarketCapUSD < 60_000:
		stage = 0
	case m.MarketCapUSD < 300_000:
		stage = 1
	case m.MarketCapUSD < 1_000_000:
		stage = 2
	default:
		stage = 3
	}
	if sig != nil && sig.Top10Pct > 60 && stage > 0 {
		stage--
	}
	return string(rune('A' + stage))
}

func concentrationTier(sig *domain.LaunchSignal) string {
	if sig == nil {
		return "low"
	}
	switch {
	case sig.Top10Pct < 25:
		return "low"
	case sig.Top10Pct < 40:
		return "elevated"
	case sig.Top10Pct < 60:
		return "high"
	default:
		return "extreme"
	}
}

func trend(momentum int, m *domain.MarketSnapshot) domain.TrendLabel {
	switch {
	case momentum >= 70:
		return domain.TrendTrending
	case momentum >= 55:
		return domain.TrendAccumulating
	case momentum >= 40:
		return domain.TrendConsolidating
	case m.MarketCapUSD >= 1_000_000:
		return domain.TrendMature
	default:
		return domain.TrendDying
	}
}
