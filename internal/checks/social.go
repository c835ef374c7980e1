package checks

import (
	"fmt"

	"mintshield/internal/domain"
)

// Social counts distinct social-presence signals from off-chain metadata
// and provider payloads. An anonymous token with no web presence is far
// more likely to be abandoned or rugged.
func (b *Battery) Social(sc *ScanContext) domain.CheckResult {
	links := b.collectSocials(sc)
	if sc.Offchain == nil && sc.Market == nil && sc.Forensics == nil && sc.Security == nil {
		return b.unknown(domain.CheckSocial, "no metadata or provider data for socials")
	}

	signals := 0
	for _, v := range []string{links.Website, links.Twitter, links.Telegram, links.Discord} {
		if v != "" {
			signals++
		}
	}
	verified := links.Verified

	var res domain.CheckResult
	switch {
	case signals >= 3 || verified:
		res = b.result(domain.CheckSocial, domain.StatusSafe, 0, fmt.Sprintf("%d social signals present", signals))
	case signals == 2:
		res = b.result(domain.CheckSocial, domain.StatusSafe, 15, "2 social signals present")
	case signals == 1:
		res = b.result(domain.CheckSocial, domain.StatusWarning, 45, "only 1 social signal present")
	default:
		res = b.result(domain.CheckSocial, domain.StatusDanger, 70, "no social presence")
	}
	res.SetDetail("signals", signals)
	res.SetDetail("verified", verified)
	return res
}

// Socials exposes the merged social links for response assembly.
func (b *Battery) Socials(sc *ScanContext) domain.SocialLinks {
	return b.collectSocials(sc)
}

// collectSocials merges socials from every available source; earlier
// sources win per field.
func (b *Battery) collectSocials(sc *ScanContext) domain.SocialLinks {
	var out domain.SocialLinks
	merge := func(l domain.SocialLinks) {
		if out.Website == "" {
			out.Website = l.Website
		}
		if out.Twitter == "" {
			out.Twitter = l.Twitter
		}
		if out.Telegram == "" {
			out.Telegram = l.Telegram
		}
		if out.Discord == "" {
			out.Discord = l.Discord
		}
		out.Verified = out.Verified || l.Verified
	}
	if sc.Offchain != nil {
		merge(sc.Offchain.Socials)
	}
	if sc.Market != nil {
		merge(sc.Market.Socials)
	}
	if sc.Forensics != nil && sc.Forensics.Verified {
		out.Verified = true
	}
	if sc.Security != nil && sc.Security.TrustedToken {
		out.Verified = true
	}
	return out
}
