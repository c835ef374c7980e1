// Package score turns a battery of check results into one 0..100 risk
// score and a coarse risk level.
package score

import (
	"math"

	"mintshield/internal/domain"
)

// neutralScore is returned when every check is unknown: partial information
// is still actionable, so the scan answers "moderate" rather than failing.
const neutralScore = 50

// Aggregate computes the weighted mean over all resolved checks and applies
// the deterministic override floors. Unknown checks are excluded; if every
// check is unknown the result is the neutral score.
func Aggregate(checks []domain.CheckResult) int {
	var sum, weight float64
	for _, c := range checks {
		if c.Status == domain.StatusUnknown {
			continue
		}
		sum += float64(c.Score) * c.Weight
		weight += c.Weight
	}

	overall := neutralScore
	if weight > 0 {
		overall = int(math.Round(sum / weight))
	}
	return applyFloors(checks, overall)
}

// applyFloors enforces the override rules. Floors only ever raise the
// score; the confirmed-rug override pins it to 100.
func applyFloors(checks []domain.CheckResult, overall int) int {
	for _, c := range checks {
		switch c.Check {
		case domain.CheckRugPattern:
			if c.Score == 100 && c.Status != domain.StatusUnknown {
				return 100
			}
		case domain.CheckHoneypot:
			if c.Score >= 90 && c.Status != domain.StatusUnknown && overall < 90 {
				overall = 90
			}
		case domain.CheckMintAuthority:
			if c.Score >= 90 && c.Status != domain.StatusUnknown && overall < 75 {
				overall = 75
			}
		}
	}
	if overall < 0 {
		return 0
	}
	if overall > 100 {
		return 100
	}
	return overall
}

// Level maps an overall score to its risk band.
func Level(overall int) domain.RiskLevel {
	switch {
	case overall <= 25:
		return domain.RiskLow
	case overall <= 50:
		return domain.RiskModerate
	case overall <= 75:
		return domain.RiskHigh
	default:
		return domain.RiskCritical
	}
}
