package checks

import (
	"context"
	"fmt"

	"mintshield/internal/domain"
)

// Bundle detects coordinated multi-wallet buys in the launch slot, the
// signature of a pre-arranged bundled launch.
func (b *Battery) Bundle(ctx context.Context, sc *ScanContext) domain.CheckResult {
	act := sc.earlyTrace(ctx)
	if act == nil {
		return b.unknown(domain.CheckBundle, "launch transactions unavailable")
	}
	supply := sc.rawSupply()

	wallets := 0
	var acquired uint64
	for owner, gained := range act.firstSlotBuyers {
		if owner == act.creator {
			continue
		}
		wallets++
		acquired += gained
	}

	var pct float64
	if supply > 0 {
		pct = float64(acquired) / float64(supply) * 100
	}

	var res domain.CheckResult
	switch {
	case wallets >= 4 || pct > 20:
		res = b.result(domain.CheckBundle, domain.StatusDanger, 90, fmt.Sprintf("%d wallets bought %.1f%% of supply in the launch slot", wallets, pct))
	case wallets >= 2 || pct > 10:
		res = b.result(domain.CheckBundle, domain.StatusWarning, 50, fmt.Sprintf("%d wallets bought %.1f%% of supply in the launch slot", wallets, pct))
	default:
		res = b.result(domain.CheckBundle, domain.StatusSafe, 0, "no bundled launch pattern")
	}
	res.SetDetail("launchSlotWallets", wallets)
	res.SetDetail("launchSlotSupplyPct", pct)
	return res
}
