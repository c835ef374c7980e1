package checks

import (
	"fmt"

	"mintshield/internal/domain"
)

// burnAddresses are sinks LP tokens are sent to when liquidity is burned.
var burnAddresses = map[string]bool{
	"11111111111111111111111111111111":            true,
	"1nc1nerator11111111111111111111111111111111": true,
}

// Liquidity scores how easily pooled liquidity can be pulled. A live
// bonding curve is protocol-managed and near-safe; an open pool is judged
// by its LP-mint supply and burn concentration. External lock/burn data can
// only tighten a verdict the ledger already resolved.
func (b *Battery) Liquidity(sc *ScanContext) domain.CheckResult {
	if sc.Curve != nil && !sc.Curve.Complete {
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 10, "liquidity managed by bonding curve")
		res.SetDetail("curveProgress", sc.Curve.Progress())
		return res
	}

	res := resolveChain(sc,
		b.unknown(domain.CheckLiquidity, "no liquidity pool found"),
		b.liquidityFromLedger,
		b.liquidityFromForensics,
		b.liquidityFromSecurity,
	)
	return b.tightenLiquidity(sc, res)
}

func (b *Battery) liquidityFromLedger(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Pool == nil || sc.LPSupply == nil {
		return domain.CheckResult{}, false
	}
	if sc.LPSupply.Amount == 0 {
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 0, "LP supply fully burned")
		res.SetDetail("pool", sc.PoolAddr)
		return res, true
	}

	var burned uint64
	for _, h := range sc.LPHolders {
		if burnAddresses[h.Address] {
			burned += h.Amount
		}
	}
	burnedPct := float64(burned) / float64(sc.LPSupply.Amount) * 100
	if burnedPct > 95 {
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 5, fmt.Sprintf("%.1f%% of LP supply burned", burnedPct))
		res.SetDetail("lpBurnedPct", burnedPct)
		return res, true
	}

	res := b.result(domain.CheckLiquidity, domain.StatusDanger, 90, "LP tokens unlocked, liquidity can be pulled")
	res.SetDetail("lpBurnedPct", burnedPct)
	return res, true
}

func (b *Battery) liquidityFromForensics(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Forensics == nil {
		return domain.CheckResult{}, false
	}
	f := sc.Forensics
	secured := f.LPLockedPct + f.LPBurnedPct
	switch {
	case f.LPBurnedPct > 95:
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 5, fmt.Sprintf("%.1f%% of LP supply burned", f.LPBurnedPct))
		res.SetDetail("lpBurnedPct", f.LPBurnedPct)
		return res, true
	case secured > 95:
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 10, fmt.Sprintf("%.1f%% of LP supply locked or burned", secured))
		res.SetDetail("lpLockedPct", f.LPLockedPct)
		res.SetDetail("lpBurnedPct", f.LPBurnedPct)
		return res, true
	case secured > 0:
		res := b.result(domain.CheckLiquidity, domain.StatusWarning, 60, fmt.Sprintf("only %.1f%% of LP supply secured", secured))
		res.SetDetail("lpLockedPct", f.LPLockedPct)
		res.SetDetail("lpBurnedPct", f.LPBurnedPct)
		return res, true
	}
	return b.result(domain.CheckLiquidity, domain.StatusDanger, 90, "LP tokens unlocked, liquidity can be pulled"), true
}

func (b *Battery) liquidityFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil || len(sc.Security.LPHolders) == 0 {
		return domain.CheckResult{}, false
	}
	var secured float64
	for _, h := range sc.Security.LPHolders {
		if h.Locked || h.Burned {
			secured += h.Pct
		}
	}
	if secured > 95 {
		res := b.result(domain.CheckLiquidity, domain.StatusSafe, 5, fmt.Sprintf("%.1f%% of LP supply locked or burned", secured))
		res.SetDetail("lpSecuredPct", secured)
		return res, true
	}
	res := b.result(domain.CheckLiquidity, domain.StatusDanger, 90, fmt.Sprintf("only %.1f%% of LP supply secured", secured))
	res.SetDetail("lpSecuredPct", secured)
	return res, true
}

// tightenLiquidity lets provider lock/burn data lower an already-resolved
// score, never raise it.
func (b *Battery) tightenLiquidity(sc *ScanContext, res domain.CheckResult) domain.CheckResult {
	if res.Status == domain.StatusUnknown || sc.Forensics == nil {
		return res
	}
	secured := sc.Forensics.LPLockedPct + sc.Forensics.LPBurnedPct
	if secured > 95 && res.Score > 10 {
		tightened := b.result(domain.CheckLiquidity, domain.StatusSafe, 10, fmt.Sprintf("%.1f%% of LP supply locked or burned", secured))
		tightened.Details = res.Details
		tightened.SetDetail("lpLockedPct", sc.Forensics.LPLockedPct)
		tightened.SetDetail("lpBurnedPct", sc.Forensics.LPBurnedPct)
		return tightened
	}
	return res
}
