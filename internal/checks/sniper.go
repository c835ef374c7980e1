package checks

import (
	"context"
	"fmt"
	"time"

	"mintshield/internal/domain"
	"mintshield/internal/solana"
)

const sniperBuyerCap = 10

// Sniper detects bot wallets buying in the launch slot: high trailing
// transaction velocity, freshly created wallets, or coordinated same-slot
// entry.
func (b *Battery) Sniper(ctx context.Context, sc *ScanContext) domain.CheckResult {
	act := sc.earlyTrace(ctx)
	if act == nil {
		return b.unknown(domain.CheckSniper, "launch transactions unavailable")
	}

	coordinated := len(act.firstSlotBuyers) >= 3
	supply := sc.rawSupply()

	bots := 0
	var botHeld uint64
	traced := 0
	for owner, gained := range act.firstSlotBuyers {
		if owner == act.creator {
			continue
		}
		if traced >= sniperBuyerCap {
			break
		}
		traced++
		if coordinated || b.looksLikeBot(ctx, sc, owner) {
			bots++
			botHeld += gained
		}
	}

	var botPct float64
	if supply > 0 {
		botPct = float64(botHeld) / float64(supply) * 100
	}

	var res domain.CheckResult
	switch {
	case bots >= 3 || botPct > 15:
		res = b.result(domain.CheckSniper, domain.StatusDanger, 85, fmt.Sprintf("%d sniper bots hold %.1f%% of supply", bots, botPct))
	case bots >= 1:
		res = b.result(domain.CheckSniper, domain.StatusWarning, 45, fmt.Sprintf("%d sniper bot in the launch slot", bots))
	default:
		res = b.result(domain.CheckSniper, domain.StatusSafe, 0, "no sniper bots detected")
	}
	res.SetDetail("bots", bots)
	res.SetDetail("botSupplyPct", botPct)
	return res
}

// looksLikeBot inspects a wallet's recent history for bot velocity: dense
// trailing-hour activity or a wallet younger than 30 minutes that is
// already busy.
func (b *Battery) looksLikeBot(ctx context.Context, sc *ScanContext, wallet string) bool {
	sigs, err := sc.Ledger.GetSignaturesForAddress(ctx, wallet, &solana.SignaturesOpts{Limit: 50})
	if err != nil || len(sigs) == 0 {
		return false
	}

	hourAgo := sc.Now.Add(-time.Hour).Unix()
	recent := 0
	for _, sig := range sigs {
		if sig.BlockTime != nil && *sig.BlockTime >= hourAgo {
			recent++
		}
	}
	if recent >= 30 {
		return true
	}

	oldest := sigs[len(sigs)-1]
	if oldest.BlockTime != nil {
		age := sc.Now.Unix() - *oldest.BlockTime
		if age < 30*60 && len(sigs) > 5 {
			return true
		}
	}
	return false
}
