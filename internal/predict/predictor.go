// Package predict estimates plausible market-cap trajectories and rug
// probability for a fresh launch. A statistical model fit from the
// historical cohort is preferred once enough labeled outcomes exist;
// otherwise a heuristic model takes over.
package predict

import (
	"context"

	"github.com/rs/zerolog"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

const (
	// minLabeledCohort is the labeled-record floor below which the
	// statistical model is never attempted.
	minLabeledCohort = 100
	// minSimilarMatches is the similar-launch floor below which the
	// statistical model falls back to the heuristic.
	minSimilarMatches = 20

	defaultRiskBand    = 15
	defaultCohortLimit = 500
)

// Input is the launch-time signal vector plus the current market snapshot
// used by the fair-value estimator.
type Input struct {
	Signal *domain.LaunchSignal
	Market *domain.MarketSnapshot
}

// Predictor produces outcome predictions from the launch-signal cohort.
type Predictor struct {
	signals storage.LaunchSignalStore
	log     zerolog.Logger
}

// New creates a predictor over the given cohort store.
func New(signals storage.LaunchSignalStore, logger zerolog.Logger) *Predictor {
	return &Predictor{
		signals: signals,
		log:     logger.With().Str("component", "predict").Logger(),
	}
}

// Predict estimates outcomes for one launch. It never fails: any cohort
// access problem degrades to the heuristic model.
func (p *Predictor) Predict(ctx context.Context, in *Input) *domain.Prediction {
	sig := in.Signal

	pred := p.statistical(ctx, sig)
	if pred == nil {
		pred = heuristic(sig)
	}

	if in.Market != nil {
		pred.FairValue = FairValue(sig, in.Market)
	}
	return pred
}

// statistical returns nil when the cohort is too small, selecting the
// heuristic model instead.
func (p *Predictor) statistical(ctx context.Context, sig *domain.LaunchSignal) *domain.Prediction {
	if p.signals == nil {
		return nil
	}

	labeled, err := p.signals.CountLabeled(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("cohort count failed, using heuristic model")
		return nil
	}
	if labeled < minLabeledCohort {
		return nil
	}

	cohort, err := p.signals.QuerySimilar(ctx, &storage.SimilarityQuery{
		RiskScore:    sig.RiskScore,
		RiskBand:     defaultRiskBand,
		Platform:     sig.Platform,
		MarketCapUSD: sig.MarketCapUSD,
		Limit:        defaultCohortLimit,
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("cohort query failed, using heuristic model")
		return nil
	}
	if len(cohort) < minSimilarMatches {
		return nil
	}

	return fromCohort(cohort)
}
