package predict

import "mintshield/internal/domain"

// horizonBand is a bear/base/bull multiple triple for one horizon.
type horizonBand struct {
	bear, base, bull float64
}

// riskBucket holds the prior multiple bands and rug probability for one
// risk-score band. Values come from observed launch behavior: low-risk
// launches keep more upside and almost never rug inside a day, while
// critical-risk launches bleed out fast.
type riskBucket struct {
	h1, h6, h24 horizonBand
	rugProb     float64
}

var riskBuckets = []struct {
	maxScore int
	riskBucket
}{
	{25, riskBucket{
		h1:      horizonBand{0.7, 1.4, 3.0},
		h6:      horizonBand{0.5, 1.8, 6.0},
		h24:     horizonBand{0.4, 2.2, 10.0},
		rugProb: 0.05,
	}},
	{50, riskBucket{
		h1:      horizonBand{0.5, 1.1, 2.5},
		h6:      horizonBand{0.4, 1.2, 4.0},
		h24:     horizonBand{0.3, 1.3, 6.0},
		rugProb: 0.20,
	}},
	{75, riskBucket{
		h1:      horizonBand{0.3, 0.8, 2.0},
		h6:      horizonBand{0.2, 0.7, 3.0},
		h24:     horizonBand{0.1, 0.5, 2.0},
		rugProb: 0.45,
	}},
	{100, riskBucket{
		h1:      horizonBand{0.1, 0.5, 1.5},
		h6:      horizonBand{0.05, 0.3, 1.0},
		h24:     horizonBand{0.02, 0.15, 0.8},
		rugProb: 0.70,
	}},
}

// heuristic predicts from risk-bucketed priors adjusted by the strongest
// launch-time signals. Used whenever the historical cohort is too thin.
func heuristic(sig *domain.LaunchSignal) *domain.Prediction {
	bucket := riskBuckets[len(riskBuckets)-1].riskBucket
	for _, b := range riskBuckets {
		if sig.RiskScore <= b.maxScore {
			bucket = b.riskBucket
			break
		}
	}

	adj := adjustment(sig)
	pred := &domain.Prediction{
		Mode: domain.PredictionHeuristic,
		Horizons: []domain.HorizonEstimate{
			heuristicEstimate(domain.Horizon1h, bucket.h1, adj),
			heuristicEstimate(domain.Horizon6h, bucket.h6, adj),
			heuristicEstimate(domain.Horizon24h, bucket.h24, adj),
		},
		RugProbability: rugProbability(sig, bucket.rugProb),
	}
	return pred
}

func heuristicEstimate(h domain.Horizon, band horizonBand, adj float64) domain.HorizonEstimate {
	return domain.HorizonEstimate{
		Horizon: h,
		P25:     band.bear * adj,
		Median:  band.base * adj,
		P75:     band.bull * adj,
	}
}

// adjustment scales the prior bands by launch quality. Each factor is a
// small multiplicative nudge so one signal never dominates the bucket.
func adjustment(sig *domain.LaunchSignal) float64 {
	adj := 1.0

	secured := sig.LPLockedPct + sig.LPBurnedPct
	switch {
	case secured >= 95:
		adj *= 1.15
	case secured < 50:
		adj *= 0.85
	}

	if sig.DevHoldingPct > 5 {
		adj *= 0.8
	}
	if sig.CurveProgress >= 0.7 {
		// Near graduation, a migration pump is the common path.
		adj *= 1.1
	}
	if sig.HasSocials {
		adj *= 1.1
	} else {
		adj *= 0.9
	}
	return adj
}

// rugProbability nudges the bucket prior by the signals most predictive of
// a pull, clamped to [0, 0.95].
func rugProbability(sig *domain.LaunchSignal, base float64) float64 {
	p := base
	if sig.LPLockedPct+sig.LPBurnedPct < 50 {
		p += 0.10
	}
	if sig.DevHoldingPct > 5 {
		p += 0.10
	}
	if !sig.MintRevoked {
		p += 0.10
	}
	if sig.InsiderCount >= 3 {
		p += 0.05
	}
	if p > 0.95 {
		p = 0.95
	}
	if p < 0 {
		p = 0
	}
	return p
}
