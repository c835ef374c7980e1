package checks

import (
	"context"
	"fmt"

	"mintshield/internal/domain"
	"mintshield/internal/solana"
)

const (
	// fundingBuyerCap bounds how many early buyers are traced upstream.
	fundingBuyerCap = 10
	// fundingTxPerBuyer bounds how many of each buyer's transactions are
	// inspected for inbound native transfers.
	fundingTxPerBuyer = 3
)

// Funding detects early buyers funded from a common upstream source. A
// single wallet splitting native funds across several "independent" buyers
// before launch is a strong insider signal.
func (b *Battery) Funding(ctx context.Context, sc *ScanContext) domain.CheckResult {
	act := sc.earlyTrace(ctx)
	if act == nil {
		return b.unknown(domain.CheckFunding, "launch transactions unavailable")
	}
	if len(act.earlyBuyers) == 0 {
		return b.result(domain.CheckFunding, domain.StatusSafe, 0, "no early buyers to cluster")
	}

	buyers := make(map[string]bool, len(act.earlyBuyers))
	for owner := range act.earlyBuyers {
		if owner != act.creator {
			buyers[owner] = true
		}
	}

	// funder address -> distinct buyers it funded
	funded := make(map[string]map[string]bool)
	traced := 0
	for buyer := range buyers {
		if traced >= fundingBuyerCap {
			break
		}
		traced++
		for _, funder := range b.upstreamFunders(ctx, sc, buyer) {
			if buyers[funder] || funder == buyer {
				// Buyer-to-buyer transfers are not upstream funding.
				continue
			}
			if funded[funder] == nil {
				funded[funder] = make(map[string]bool)
			}
			funded[funder][buyer] = true
		}
	}

	clusters := 0
	clustered := make(map[string]bool)
	for _, members := range funded {
		if len(members) < 2 {
			continue
		}
		clusters++
		for m := range members {
			clustered[m] = true
		}
	}

	var res domain.CheckResult
	switch {
	case len(clustered) >= 5 || clusters >= 3:
		res = b.result(domain.CheckFunding, domain.StatusDanger, 90, fmt.Sprintf("%d early buyers share %d funding sources", len(clustered), clusters))
	case clusters >= 1:
		res = b.result(domain.CheckFunding, domain.StatusWarning, 55, fmt.Sprintf("%d early buyers share a funding source", len(clustered)))
	default:
		res = b.result(domain.CheckFunding, domain.StatusSafe, 0, "no common funding source among early buyers")
	}
	res.SetDetail("clusters", clusters)
	res.SetDetail("clusteredWallets", len(clustered))
	return res
}

// upstreamFunders returns fee payers of recent transactions that increased
// the buyer's native balance.
func (b *Battery) upstreamFunders(ctx context.Context, sc *ScanContext, buyer string) []string {
	sigs, err := sc.Ledger.GetSignaturesForAddress(ctx, buyer, &solana.SignaturesOpts{Limit: 10})
	if err != nil {
		return nil
	}
	var funders []string
	fetched := 0
	for _, sig := range sigs {
		if fetched >= fundingTxPerBuyer {
			break
		}
		tx, err := sc.Ledger.GetTransaction(ctx, sig.Signature)
		fetched++
		if err != nil || tx == nil || tx.Failed() || tx.Message == nil || tx.Meta == nil {
			continue
		}
		idx := -1
		for i, key := range tx.Message.AccountKeys {
			if key == buyer {
				idx = i
				break
			}
		}
		if idx < 0 || idx >= len(tx.Meta.PreBalances) || idx >= len(tx.Meta.PostBalances) {
			continue
		}
		if tx.Meta.PostBalances[idx] > tx.Meta.PreBalances[idx] {
			if signer := tx.FirstSigner(); signer != "" && signer != buyer {
				funders = append(funders, signer)
			}
		}
	}
	return funders
}
