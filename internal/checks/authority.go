package checks

import (
	"strings"

	"mintshield/internal/domain"
)

// MintAuthority flags mints whose supply can still be inflated. Fallback
// order when the ledger read is missing: security-provider mintable flag,
// then forensics risk flags.
func (b *Battery) MintAuthority(sc *ScanContext) domain.CheckResult {
	return resolveChain(sc,
		b.unknown(domain.CheckMintAuthority, "mint account unavailable"),
		b.mintAuthorityFromLedger,
		b.mintAuthorityFromSecurity,
		b.mintAuthorityFromForensics,
	)
}

func (b *Battery) mintAuthorityFromLedger(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.MintInfo == nil {
		return domain.CheckResult{}, false
	}
	if sc.MintInfo.MintRevoked() {
		return b.result(domain.CheckMintAuthority, domain.StatusSafe, 0, "mint authority revoked"), true
	}
	res := b.result(domain.CheckMintAuthority, domain.StatusDanger, 100, "mint authority active, supply can be inflated")
	res.SetDetail("authority", sc.MintInfo.MintAuthority)
	return res, true
}

func (b *Battery) mintAuthorityFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil || sc.Security.Mintable == nil {
		return domain.CheckResult{}, false
	}
	if *sc.Security.Mintable {
		return b.result(domain.CheckMintAuthority, domain.StatusDanger, 100, "provider reports token mintable"), true
	}
	return b.result(domain.CheckMintAuthority, domain.StatusSafe, 0, "provider reports mint authority revoked"), true
}

func (b *Battery) mintAuthorityFromForensics(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Forensics == nil {
		return domain.CheckResult{}, false
	}
	for _, r := range sc.Forensics.Risks {
		if strings.Contains(strings.ToLower(r.Name), "mint authority") {
			return b.result(domain.CheckMintAuthority, domain.StatusDanger, 100, "forensics provider flags active mint authority"), true
		}
	}
	return domain.CheckResult{}, false
}

// FreezeAuthority flags mints whose holder accounts can be frozen.
func (b *Battery) FreezeAuthority(sc *ScanContext) domain.CheckResult {
	return resolveChain(sc,
		b.unknown(domain.CheckFreezeAuthority, "mint account unavailable"),
		b.freezeAuthorityFromLedger,
		b.freezeAuthorityFromSecurity,
		b.freezeAuthorityFromForensics,
	)
}

func (b *Battery) freezeAuthorityFromLedger(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.MintInfo == nil {
		return domain.CheckResult{}, false
	}
	if sc.MintInfo.FreezeRevoked() {
		return b.result(domain.CheckFreezeAuthority, domain.StatusSafe, 0, "freeze authority revoked"), true
	}
	res := b.result(domain.CheckFreezeAuthority, domain.StatusDanger, 80, "freeze authority active, accounts can be frozen")
	res.SetDetail("authority", sc.MintInfo.FreezeAuthority)
	return res, true
}

func (b *Battery) freezeAuthorityFromSecurity(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Security == nil || sc.Security.Freezable == nil {
		return domain.CheckResult{}, false
	}
	if *sc.Security.Freezable {
		return b.result(domain.CheckFreezeAuthority, domain.StatusDanger, 80, "provider reports token freezable"), true
	}
	return b.result(domain.CheckFreezeAuthority, domain.StatusSafe, 0, "provider reports freeze authority revoked"), true
}

func (b *Battery) freezeAuthorityFromForensics(sc *ScanContext) (domain.CheckResult, bool) {
	if sc.Forensics == nil {
		return domain.CheckResult{}, false
	}
	for _, r := range sc.Forensics.Risks {
		if strings.Contains(strings.ToLower(r.Name), "freeze authority") {
			return b.result(domain.CheckFreezeAuthority, domain.StatusDanger, 80, "forensics provider flags active freeze authority"), true
		}
	}
	return domain.CheckResult{}, false
}
