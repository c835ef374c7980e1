package checks

import (
	"context"
	"fmt"

	"mintshield/internal/decode"
	"mintshield/internal/domain"
	"mintshield/internal/solana"
)

// DevWallet scores the creator's remaining exposure: how much supply the
// dev still holds and whether they are already selling.
func (b *Battery) DevWallet(ctx context.Context, sc *ScanContext) domain.CheckResult {
	creator := b.resolveCreator(ctx, sc)
	if creator == "" {
		// No resolvable creator; the security provider may still know the
		// creator's share.
		return resolveChain(sc,
			b.unknown(domain.CheckDevWallet, "creator wallet unresolvable"),
			b.devWalletFromSecurity,
		)
	}
	if sc.Ledger == nil {
		return resolveChain(sc,
			b.unknown(domain.CheckDevWallet, "ledger unavailable for dev wallet"),
			b.devWalletFromSecurity,
		)
	}

	pct := b.creatorHoldingPct(ctx, sc, creator)
	sells := b.creatorRecentSells(ctx, sc, creator)

	res := b.devWalletVerdict(pct, sells)
	res.SetDetail("creator", creator)
	return res
}

// resolveCreator prefers the bonding curve's creator field, then the first
// signer of the mint's earliest transaction, then the security provider.
func (b *Battery) resolveCreator(ctx context.Context, sc *ScanContext) string {
	if sc.Curve != nil && sc.Curve.Creator != "" {
		return sc.Curve.Creator
	}
	if sc.Ledger != nil {
		if act := sc.earlyTrace(ctx); act != nil && act.creator != "" {
			return act.creator
		}
	}
	if sc.Security != nil {
		return sc.Security.CreatorAddr
	}
	return ""
}

func (b *Battery) creatorHoldingPct(ctx context.Context, sc *ScanContext, creator string) float64 {
	supply := sc.rawSupply()
	if supply == 0 {
		return 0
	}
	ata := solana.DeriveAssociatedTokenAddress(creator, sc.Mint)
	if ata == "" {
		return 0
	}
	info, err := sc.Ledger.GetAccountInfo(ctx, ata)
	if err != nil || info == nil {
		return 0
	}
	acct, ok := decode.DecodeTokenAccount(info.DataBytes())
	if !ok {
		return 0
	}
	return float64(acct.Amount) / float64(supply) * 100
}

// creatorRecentSells counts recent transactions where the creator's balance
// of the scanned mint decreased.
func (b *Battery) creatorRecentSells(ctx context.Context, sc *ScanContext, creator string) int {
	sigs, err := sc.Ledger.GetSignaturesForAddress(ctx, creator, &solana.SignaturesOpts{Limit: 15})
	if err != nil {
		return 0
	}
	sells := 0
	fetched := 0
	for _, sig := range sigs {
		if fetched >= 5 {
			break
		}
		tx, err := sc.Ledger.GetTransaction(ctx, sig.Signature)
		fetched++
		if err != nil || tx == nil || tx.Failed() || tx.Meta == nil {
			continue
		}
		var pre, post uint64
		for _, tb := range tx.Meta.PreTokenBalances {
			if tb.Mint == sc.Mint && tb.Owner == creator {
				pre += tb.Amount
			}
		}
		for _, tb := range tx.Meta.PostTokenBalances {
			if tb.Mint == sc.Mint && tb.Owner == creator {
				post += tb.Amount
			}
		}
		if post < pre {
			sells++
		}
	}
	return sells
}

func (b *Battery) devWalletFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil || sc.Security.CreatorAddr == "" {
		return domain.CheckResult{}, false
	}
	res := b.devWalletVerdict(sc.Security.CreatorPct, 0)
	res.SetDetail("creator", sc.Security.CreatorAddr)
	return res, true
}

func (b *Battery) devWalletVerdict(pct float64, sells int) domain.CheckResult {
	var res domain.CheckResult
	switch {
	case pct > 5 || sells >= 3:
		res = b.result(domain.CheckDevWallet, domain.StatusDanger, 80, fmt.Sprintf("dev holds %.1f%% of supply, %d recent sells", pct, sells))
	case pct > 1 || sells >= 1:
		res = b.result(domain.CheckDevWallet, domain.StatusWarning, 40, fmt.Sprintf("dev holds %.1f%% of supply, %d recent sells", pct, sells))
	default:
		res = b.result(domain.CheckDevWallet, domain.StatusSafe, 0, "dev wallet exposure minimal")
	}
	res.SetDetail("devHoldingPct", pct)
	res.SetDetail("recentSells", sells)
	return res
}
