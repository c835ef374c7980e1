package predict

import (
	"sort"

	"mintshield/internal/domain"
)

// fromCohort builds a statistical prediction from the similar-launch cohort.
// Every record carries a 24h outcome; 1h and 6h columns may still be sparse
// for recent records, so each horizon uses its own observed subset.
func fromCohort(cohort []*domain.LaunchSignal) *domain.Prediction {
	pred := &domain.Prediction{
		Mode:       domain.PredictionStatistical,
		CohortSize: len(cohort),
	}

	for _, h := range domain.Horizons {
		multiples := horizonMultiples(cohort, h)
		if len(multiples) == 0 {
			continue
		}
		sort.Float64s(multiples)

		est := domain.HorizonEstimate{
			Horizon: h,
			Median:  percentile(multiples, 0.50),
			P25:     percentile(multiples, 0.25),
			P75:     percentile(multiples, 0.75),
		}
		n := float64(len(multiples))
		for _, m := range multiples {
			if m >= 2 {
				est.Share2x++
			}
			if m >= 10 {
				est.Share10x++
			}
			if m <= 0.5 {
				est.ShareHalf++
			}
		}
		est.Share2x /= n
		est.Share10x /= n
		est.ShareHalf /= n

		pred.Horizons = append(pred.Horizons, est)
	}

	rugged, rugMinutesSum, rugMinutesN := 0, 0, 0
	for _, s := range cohort {
		if s.Rugged != nil && *s.Rugged {
			rugged++
			if s.RugMinutes != nil {
				rugMinutesSum += *s.RugMinutes
				rugMinutesN++
			}
		}
	}
	if len(cohort) > 0 {
		pred.RugProbability = float64(rugged) / float64(len(cohort))
	}
	if rugMinutesN > 0 {
		mean := float64(rugMinutesSum) / float64(rugMinutesN)
		pred.MeanRugMinutes = &mean
	}

	return pred
}

// horizonMultiples collects outcome/launch market-cap ratios for the cohort
// records whose outcome at this horizon has been observed.
func horizonMultiples(cohort []*domain.LaunchSignal, h domain.Horizon) []float64 {
	out := make([]float64, 0, len(cohort))
	for _, s := range cohort {
		if s.MarketCapUSD <= 0 {
			continue
		}
		var mcap *float64
		switch h {
		case domain.Horizon1h:
			mcap = s.MarketCap1h
		case domain.Horizon6h:
			mcap = s.MarketCap6h
		case domain.Horizon24h:
			mcap = s.MarketCap24h
		}
		if mcap == nil {
			continue
		}
		out = append(out, *mcap/s.MarketCapUSD)
	}
	return out
}

// percentile interpolates linearly between the two nearest ranks of an
// ascending-sorted slice. p is in [0, 1].
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
