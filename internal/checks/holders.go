package checks

import (
	"fmt"
	"sort"

	"mintshield/internal/domain"
)

// Holders scores supply concentration among the largest real holders,
// excluding burn sinks and protocol-owned accounts and recomputing shares
// against the reduced supply.
func (b *Battery) Holders(sc *ScanContext) domain.CheckResult {
	return resolveChain(sc,
		b.unknown(domain.CheckHolders, "holder data unavailable"),
		b.holdersFromLedger,
		b.holdersFromSecurity,
	)
}

func (b *Battery) holdersFromLedger(sc *ScanContext) (domain.CheckResult, bool) {
	supply := sc.rawSupply()
	if len(sc.Holders) == 0 || supply == 0 {
		return domain.CheckResult{}, false
	}

	excluded := make(map[string]bool, len(sc.ExcludedHolders))
	for _, a := range sc.ExcludedHolders {
		excluded[a] = true
	}

	var real []uint64
	var excludedAmount uint64
	for _, h := range sc.Holders {
		if burnAddresses[h.Address] || excluded[h.Address] {
			excludedAmount += h.Amount
			continue
		}
		real = append(real, h.Amount)
	}
	if excludedAmount >= supply {
		return domain.CheckResult{}, false
	}
	realSupply := supply - excludedAmount
	sort.Slice(real, func(i, j int) bool { return real[i] > real[j] })

	var top1, top10 float64
	if len(real) > 0 {
		top1 = float64(real[0]) / float64(realSupply) * 100
	}
	for i, amt := range real {
		if i >= 10 {
			break
		}
		top10 += float64(amt) / float64(realSupply) * 100
	}
	return b.holderVerdict(top1, top10), true
}

func (b *Battery) holdersFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil || len(sc.Security.TopHolders) == 0 {
		return domain.CheckResult{}, false
	}
	var top1, top10 float64
	n := 0
	for _, h := range sc.Security.TopHolders {
		if h.Tag == "burn" || h.Tag == "pool" || burnAddresses[h.Address] {
			continue
		}
		if n == 0 {
			top1 = h.Pct
		}
		if n < 10 {
			top10 += h.Pct
		}
		n++
	}
	if n == 0 {
		return domain.CheckResult{}, false
	}
	return b.holderVerdict(top1, top10), true
}

func (b *Battery) holderVerdict(top1, top10 float64) domain.CheckResult {
	var res domain.CheckResult
	switch {
	case top1 > 15:
		res = b.result(domain.CheckHolders, domain.StatusDanger, 95, fmt.Sprintf("top holder owns %.1f%% of supply", top1))
	case top10 > 75:
		res = b.result(domain.CheckHolders, domain.StatusDanger, 90, fmt.Sprintf("top 10 holders own %.1f%% of supply", top10))
	case top10 > 50:
		res = b.result(domain.CheckHolders, domain.StatusWarning, 50, fmt.Sprintf("top 10 holders own %.1f%% of supply", top10))
	case top10 > 30:
		res = b.result(domain.CheckHolders, domain.StatusWarning, 25, fmt.Sprintf("top 10 holders own %.1f%% of supply", top10))
	default:
		res = b.result(domain.CheckHolders, domain.StatusSafe, 0, "supply well distributed")
	}
	res.SetDetail("top1Pct", top1)
	res.SetDetail("top10Pct", top10)
	return res
}
