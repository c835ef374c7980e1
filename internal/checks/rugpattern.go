package checks

import (
	"fmt"
	"strings"

	"mintshield/internal/domain"
)

// copycatSymbols are established symbols fresh launches impersonate.
var copycatSymbols = map[string]bool{
	"SOL": true, "USDC": true, "USDT": true, "BTC": true, "ETH": true,
	"BONK": true, "WIF": true, "JUP": true, "RAY": true,
}

// suspiciousNameFragments are phrases that correlate with drainer and
// impersonation launches.
var suspiciousNameFragments = []string{
	"airdrop", "claim", "reward", "giveaway", "official", "elonmusk",
	"http://", "https://", ".com", ".io",
}

// RugPattern is the composite check: it accumulates points from external
// reputation flags, insider analysis, identity quality, token age, and
// creator history. A confirmed rug from the forensics provider
// short-circuits to 100. In instant mode it also absorbs the
// provider-reported insider signal that deep mode derives from ledger
// tracing in the bundle, funding and sniper checks.
func (b *Battery) RugPattern(sc *ScanContext) domain.CheckResult {
	if sc.Forensics == nil && sc.Market == nil && sc.Security == nil && sc.Metadata == nil && sc.Offchain == nil {
		return b.unknown(domain.CheckRugPattern, "no reputation data available")
	}

	if sc.Forensics != nil && sc.Forensics.Rugged {
		res := b.result(domain.CheckRugPattern, domain.StatusDanger, 100, "confirmed rug flagged by forensics provider")
		res.SetDetail("rugged", true)
		return res
	}

	points := 0
	var reasons []string
	add := func(p int, reason string) {
		points += p
		reasons = append(reasons, reason)
	}

	if sc.Forensics != nil {
		for _, r := range sc.Forensics.Risks {
			switch strings.ToLower(r.Level) {
			case "danger":
				add(15, "flag: "+r.Name)
			default:
				add(8, "flag: "+r.Name)
			}
		}
		f := sc.Forensics
		if f.InsiderNetworks >= 3 {
			add(20, fmt.Sprintf("%d insider networks", f.InsiderNetworks))
		} else if f.InsiderNetworks >= 1 {
			add(10, fmt.Sprintf("%d insider network", f.InsiderNetworks))
		}
		if f.InsiderHoldingPct > 10 {
			add(10, fmt.Sprintf("insiders hold %.1f%% of supply", f.InsiderHoldingPct))
		}
		if f.CreatorRugCount >= 1 {
			add(20, fmt.Sprintf("creator rugged %d previous tokens", f.CreatorRugCount))
		} else if f.CreatorTokenCount >= 5 {
			add(15, fmt.Sprintf("creator launched %d tokens", f.CreatorTokenCount))
		}
	}

	name, symbol := b.identity(sc)
	if name == "" && symbol == "" {
		add(15, "missing identity metadata")
	} else {
		if copycatSymbols[strings.ToUpper(symbol)] {
			add(15, "copy-cat symbol "+symbol)
		}
		lower := strings.ToLower(name)
		for _, frag := range suspiciousNameFragments {
			if strings.Contains(lower, frag) {
				add(10, "suspicious name pattern")
				break
			}
		}
	}

	if sc.Market != nil && sc.Market.Market.PairAgeSeconds > 0 && sc.Market.Market.PairAgeSeconds < 600 {
		add(10, "token younger than 10 minutes")
	}

	if sc.Mode == domain.ModeInstant && sc.Security != nil {
		// Instant-mode consolidation of the ledger-traced insider checks.
		if sc.Security.CreatorPct > 5 {
			add(10, fmt.Sprintf("creator holds %.1f%% of supply", sc.Security.CreatorPct))
		}
	}

	if points > 100 {
		points = 100
	}

	var res domain.CheckResult
	switch {
	case points >= 60:
		res = b.result(domain.CheckRugPattern, domain.StatusDanger, points, "strong rug pattern signals")
	case points >= 25:
		res = b.result(domain.CheckRugPattern, domain.StatusWarning, points, "some rug pattern signals")
	default:
		res = b.result(domain.CheckRugPattern, domain.StatusSafe, points, "no significant rug pattern")
	}
	res.SetDetail("reasons", reasons)
	return res
}

func (b *Battery) identity(sc *ScanContext) (name, symbol string) {
	if sc.Metadata != nil {
		name, symbol = sc.Metadata.Name, sc.Metadata.Symbol
	}
	if name == "" && sc.Offchain != nil {
		name, symbol = sc.Offchain.Name, sc.Offchain.Symbol
	}
	if name == "" && sc.Market != nil {
		name, symbol = sc.Market.Identity.Name, sc.Market.Identity.Symbol
	}
	return name, symbol
}
