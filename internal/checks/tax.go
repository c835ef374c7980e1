package checks

import (
	"fmt"

	"mintshield/internal/domain"
)

// TransferTax scores the token's transfer fee. Standard tokens have no fee
// mechanism at all; extended tokens are judged by their current fee basis
// points.
func (b *Battery) TransferTax(sc *ScanContext) domain.CheckResult {
	return resolveChain(sc,
		b.unknown(domain.CheckTransferTax, "fee data unavailable"),
		b.taxFromLedger,
		b.taxFromSecurity,
	)
}

func (b *Battery) taxFromLedger(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Extensions == nil {
		if sc.MintInfo == nil {
			return domain.CheckResult{}, false
		}
		// Standard token account: the fee mechanism does not exist.
		return b.result(domain.CheckTransferTax, domain.StatusSafe, 0, "standard token, no fee mechanism"), true
	}
	if !sc.Extensions.HasTransferFee {
		return b.result(domain.CheckTransferTax, domain.StatusSafe, 0, "no transfer fee extension"), true
	}

	res := b.taxVerdict(sc.Extensions.FeeBasisPoints, true)
	res.SetDetail("feeAuthority", sc.Extensions.FeeAuthority)
	res.SetDetail("maxFee", sc.Extensions.MaxFee)
	return res, true
}

func (b *Battery) taxFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil {
		return domain.CheckResult{}, false
	}
	bps := sc.Security.BuyTaxBps
	if sc.Security.SellTaxBps > bps {
		bps = sc.Security.SellTaxBps
	}
	res := b.taxVerdict(bps, bps > 0)
	res.SetDetail("buyTaxBps", sc.Security.BuyTaxBps)
	res.SetDetail("sellTaxBps", sc.Security.SellTaxBps)
	return res, true
}

// taxVerdict maps fee basis points to a verdict. hasFeeConfig distinguishes
// "fee extension present with 0 bps" from "no fee mechanism".
func (b *Battery) taxVerdict(bps int, hasFeeConfig bool) domain.CheckResult {
	var res domain.CheckResult
	switch {
	case bps >= 2000:
		res = b.result(domain.CheckTransferTax, domain.StatusDanger, 95, fmt.Sprintf("transfer tax %d bps", bps))
	case bps >= 500:
		res = b.result(domain.CheckTransferTax, domain.StatusDanger, 75, fmt.Sprintf("transfer tax %d bps", bps))
	case bps > 100:
		res = b.result(domain.CheckTransferTax, domain.StatusWarning, 45, fmt.Sprintf("transfer tax %d bps", bps))
	case bps > 0:
		res = b.result(domain.CheckTransferTax, domain.StatusSafe, 15, fmt.Sprintf("minor transfer tax %d bps", bps))
	case hasFeeConfig:
		res = b.result(domain.CheckTransferTax, domain.StatusSafe, 5, "fee extension present, currently 0 bps")
	default:
		res = b.result(domain.CheckTransferTax, domain.StatusSafe, 0, "no transfer tax")
	}
	res.SetDetail("feeBps", bps)
	return res
}
