package checks

import (
	"context"

	"mintshield/internal/solana"
)

const (
	// earlySlotWindow bounds launch tracing to the first slots after the
	// mint's earliest visible transaction.
	earlySlotWindow = 3
	// earlyTxFetchCap bounds how many early transactions are fetched.
	earlyTxFetchCap = 30
	// earlySignaturePage is the signature page size used to reach the
	// mint's oldest activity.
	earlySignaturePage = 1000
)

// earlyActivity is the shared launch trace consumed by the bundle, funding
// and sniper checks: who bought in the first slots and how much.
type earlyActivity struct {
	firstSlot int64
	creator   string // first signer of the earliest transaction

	// firstSlotBuyers maps buyer owner address to raw tokens gained in the
	// very first slot; earlyBuyers covers the whole early-slot window.
	firstSlotBuyers map[string]uint64
	earlyBuyers     map[string]uint64
}

// earlyTrace fetches and memoizes the launch trace. Returns nil when the
// ledger is unavailable or the mint has no visible history.
func (sc *ScanContext) earlyTrace(ctx context.Context) *earlyActivity {
	sc.earlyOnce.Do(func() {
		sc.early = traceEarlyActivity(ctx, sc)
	})
	return sc.early
}

func traceEarlyActivity(ctx context.Context, sc *ScanContext) *earlyActivity {
	if sc.Ledger == nil {
		return nil
	}

	// Signatures come newest first; page backwards to reach the oldest.
	sigs, err := sc.Ledger.GetSignaturesForAddress(ctx, sc.Mint, &solana.SignaturesOpts{Limit: earlySignaturePage})
	if err != nil || len(sigs) == 0 {
		return nil
	}
	for len(sigs) == earlySignaturePage {
		page, err := sc.Ledger.GetSignaturesForAddress(ctx, sc.Mint, &solana.SignaturesOpts{
			Before: sigs[len(sigs)-1].Signature,
			Limit:  earlySignaturePage,
		})
		if err != nil || len(page) == 0 {
			break
		}
		sigs = page
	}

	firstSlot := sigs[len(sigs)-1].Slot
	act := &earlyActivity{
		firstSlot:       firstSlot,
		firstSlotBuyers: make(map[string]uint64),
		earlyBuyers:     make(map[string]uint64),
	}

	fetched := 0
	for i := len(sigs) - 1; i >= 0 && fetched < earlyTxFetchCap; i-- {
		sig := sigs[i]
		if sig.Slot >= firstSlot+earlySlotWindow {
			break
		}
		tx, err := sc.Ledger.GetTransaction(ctx, sig.Signature)
		fetched++
		if err != nil || tx == nil || tx.Failed() {
			continue
		}
		if act.creator == "" {
			act.creator = tx.FirstSigner()
		}
		for owner, gained := range tokenGains(tx, sc.Mint) {
			act.earlyBuyers[owner] += gained
			if tx.Slot == firstSlot {
				act.firstSlotBuyers[owner] += gained
			}
		}
	}
	return act
}

// tokenGains returns, per owner, the raw tokens of the given mint gained
// by a transaction. Protocol vaults and pool accounts are skipped via
// their owner programs appearing as token-balance owners.
func tokenGains(tx *solana.Transaction, mint string) map[string]uint64 {
	if tx.Meta == nil {
		return nil
	}
	pre := make(map[string]uint64)
	for _, b := range tx.Meta.PreTokenBalances {
		if b.Mint == mint {
			pre[b.Owner] += b.Amount
		}
	}
	gains := make(map[string]uint64)
	post := make(map[string]uint64)
	for _, b := range tx.Meta.PostTokenBalances {
		if b.Mint == mint {
			post[b.Owner] += b.Amount
		}
	}
	for owner, after := range post {
		if after > pre[owner] {
			gains[owner] = after - pre[owner]
		}
	}
	return gains
}
