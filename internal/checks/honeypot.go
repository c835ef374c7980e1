package checks

import (
	"errors"
	"fmt"

	"mintshield/internal/domain"
	"mintshield/internal/providers"
)

// Honeypot judges sellability from the pre-fetched swap quote: a token with
// a live pool but no sell route is treated as unsellable.
func (b *Battery) Honeypot(sc *ScanContext) domain.CheckResult {
	if errors.Is(sc.QuoteErr, providers.ErrNoRoute) {
		return b.result(domain.CheckHoneypot, domain.StatusDanger, 100, "no sell route found, token appears unsellable")
	}
	if sc.Quote == nil {
		return b.unknown(domain.CheckHoneypot, "sell probe unavailable")
	}

	impact := sc.Quote.PriceImpactPct
	var res domain.CheckResult
	switch {
	case impact > 50:
		res = b.result(domain.CheckHoneypot, domain.StatusDanger, 80, fmt.Sprintf("sell price impact %.1f%%", impact))
	case impact > 20:
		res = b.result(domain.CheckHoneypot, domain.StatusWarning, 60, fmt.Sprintf("sell price impact %.1f%%", impact))
	default:
		// Sellable; score scales with the residual impact.
		score := int(impact)
		res = b.result(domain.CheckHoneypot, domain.StatusSafe, score, fmt.Sprintf("sellable, price impact %.1f%%", impact))
	}
	res.SetDetail("priceImpactPct", impact)
	res.SetDetail("routeHops", sc.Quote.RouteHops)
	return res
}
