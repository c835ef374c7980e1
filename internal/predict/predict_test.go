package predict

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"mintshield/internal/domain"
	"mintshield/internal/storage"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	if got := percentile(sorted, 0.50); got != 2.5 {
		t.Fatalf("p50 = %v, want 2.5", got)
	}
	if got := percentile(sorted, 0.25); got != 1.75 {
		t.Fatalf("p25 = %v, want 1.75", got)
	}
	if got := percentile(sorted, 0); got != 1 {
		t.Fatalf("p0 = %v, want 1", got)
	}
	if got := percentile(sorted, 1); got != 4 {
		t.Fatalf("p100 = %v, want 4", got)
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Fatalf("empty = %v, want 0", got)
	}
	if got := percentile([]float64{7}, 0.9); got != 7 {
		t.Fatalf("single = %v, want 7", got)
	}
}

func labeledSignal(mint string, launchMcap, mcap24h float64, rugged bool, rugMinutes int) *domain.LaunchSignal {
	s := &domain.LaunchSignal{
		Mint:         mint,
		Platform:     domain.PlatformPump,
		MarketCapUSD: launchMcap,
		RiskScore:    40,
	}
	s.MarketCap24h = &mcap24h
	s.Rugged = &rugged
	if rugged {
		s.RugMinutes = &rugMinutes
	}
	return s
}

func TestFromCohort(t *testing.T) {
	// 24h multiples: 0.2 (rugged), 1.0, 3.0, 12.0.
	cohort := []*domain.LaunchSignal{
		labeledSignal("m1", 10_000, 2_000, true, 90),
		labeledSignal("m2", 10_000, 10_000, false, 0),
		labeledSignal("m3", 10_000, 30_000, false, 0),
		labeledSignal("m4", 10_000, 120_000, true, 30),
	}

	pred := fromCohort(cohort)
	if pred.Mode != domain.PredictionStatistical {
		t.Fatalf("mode = %s", pred.Mode)
	}
	if pred.CohortSize != 4 {
		t.Fatalf("cohort size = %d", pred.CohortSize)
	}
	if len(pred.Horizons) != 1 || pred.Horizons[0].Horizon != domain.Horizon24h {
		t.Fatalf("horizons = %+v, want only 24h", pred.Horizons)
	}

	h24 := pred.Horizons[0]
	if h24.Median != 2.0 {
		t.Errorf("median = %v, want 2.0", h24.Median)
	}
	if h24.Share2x != 0.5 {
		t.Errorf("share2x = %v, want 0.5", h24.Share2x)
	}
	if h24.Share10x != 0.25 {
		t.Errorf("share10x = %v, want 0.25", h24.Share10x)
	}
	if h24.ShareHalf != 0.25 {
		t.Errorf("shareHalf = %v, want 0.25", h24.ShareHalf)
	}

	if pred.RugProbability != 0.5 {
		t.Errorf("rug probability = %v, want 0.5", pred.RugProbability)
	}
	if pred.MeanRugMinutes == nil || *pred.MeanRugMinutes != 60 {
		t.Errorf("mean rug minutes = %v, want 60", pred.MeanRugMinutes)
	}
}

func TestFromCohortSparseHorizons(t *testing.T) {
	mc1h := 15_000.0
	s := labeledSignal("m1", 10_000, 20_000, false, 0)
	s.MarketCap1h = &mc1h

	pred := fromCohort([]*domain.LaunchSignal{s})
	if len(pred.Horizons) != 2 {
		t.Fatalf("horizons = %+v, want 1h and 24h", pred.Horizons)
	}
	if pred.Horizons[0].Horizon != domain.Horizon1h || pred.Horizons[0].Median != 1.5 {
		t.Errorf("1h = %+v", pred.Horizons[0])
	}
	if pred.Horizons[1].Horizon != domain.Horizon24h || pred.Horizons[1].Median != 2.0 {
		t.Errorf("24h = %+v", pred.Horizons[1])
	}
}

func TestHeuristicBands(t *testing.T) {
	for _, risk := range []int{10, 40, 65, 95} {
		sig := &domain.LaunchSignal{RiskScore: risk, MintRevoked: true, LPBurnedPct: 100, HasSocials: true}
		pred := heuristic(sig)

		if pred.Mode != domain.PredictionHeuristic {
			t.Fatalf("mode = %s", pred.Mode)
		}
		if len(pred.Horizons) != 3 {
			t.Fatalf("risk %d: %d horizons", risk, len(pred.Horizons))
		}
		for _, h := range pred.Horizons {
			if !(h.P25 <= h.Median && h.Median <= h.P75) {
				t.Errorf("risk %d horizon %s: band out of order %+v", risk, h.Horizon, h)
			}
			if h.P25 <= 0 {
				t.Errorf("risk %d horizon %s: nonpositive bear %v", risk, h.Horizon, h.P25)
			}
		}
		if pred.RugProbability < 0 || pred.RugProbability > 0.95 {
			t.Errorf("risk %d: rug probability %v out of range", risk, pred.RugProbability)
		}
	}
}

func TestHeuristicRiskOrdering(t *testing.T) {
	clean := heuristic(&domain.LaunchSignal{RiskScore: 10, MintRevoked: true, LPBurnedPct: 100, HasSocials: true})
	dirty := heuristic(&domain.LaunchSignal{RiskScore: 95, DevHoldingPct: 12})

	if clean.Horizons[2].Median <= dirty.Horizons[2].Median {
		t.Errorf("clean 24h median %v should exceed dirty %v",
			clean.Horizons[2].Median, dirty.Horizons[2].Median)
	}
	if clean.RugProbability >= dirty.RugProbability {
		t.Errorf("clean rug probability %v should be below dirty %v",
			clean.RugProbability, dirty.RugProbability)
	}
}

// fakeSignalStore implements only the cohort reads the predictor uses.
type fakeSignalStore struct {
	labeled int
	cohort  []*domain.LaunchSignal
}

func (f *fakeSignalStore) Insert(context.Context, *domain.LaunchSignal) error {
	return nil
}

func (f *fakeSignalStore) GetByMint(context.Context, string) (*domain.LaunchSignal, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeSignalStore) UpdateOutcome(context.Context, string, *storage.Outcome) error {
	return nil
}

func (f *fakeSignalStore) PendingOutcomes(context.Context, domain.Horizon, int64, int) ([]*domain.LaunchSignal, error) {
	return nil, nil
}

func (f *fakeSignalStore) CountLabeled(context.Context) (int, error) {
	return f.labeled, nil
}

func (f *fakeSignalStore) QuerySimilar(context.Context, *storage.SimilarityQuery) ([]*domain.LaunchSignal, error) {
	return f.cohort, nil
}

var _ storage.LaunchSignalStore = (*fakeSignalStore)(nil)

func TestPredictModeSelection(t *testing.T) {
	sig := &domain.LaunchSignal{Mint: "mint", RiskScore: 40, MarketCapUSD: 50_000, Platform: domain.PlatformPump}
	cohort := make([]*domain.LaunchSignal, 0, 30)
	for i := 0; i < 30; i++ {
		cohort = append(cohort, labeledSignal("m", 10_000, 20_000, false, 0))
	}

	cases := []struct {
		name    string
		store   *fakeSignalStore
		mode    domain.PredictionMode
		cohortN int
	}{
		{"too few labeled", &fakeSignalStore{labeled: 99, cohort: cohort}, domain.PredictionHeuristic, 0},
		{"too few similar", &fakeSignalStore{labeled: 150, cohort: cohort[:5]}, domain.PredictionHeuristic, 0},
		{"statistical", &fakeSignalStore{labeled: 150, cohort: cohort}, domain.PredictionStatistical, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(tc.store, zerolog.Nop())
			pred := p.Predict(context.Background(), &Input{Signal: sig})
			if pred.Mode != tc.mode {
				t.Fatalf("mode = %s, want %s", pred.Mode, tc.mode)
			}
			if pred.CohortSize != tc.cohortN {
				t.Fatalf("cohort size = %d, want %d", pred.CohortSize, tc.cohortN)
			}
		})
	}
}

func TestPredictAttachesFairValue(t *testing.T) {
	p := New(&fakeSignalStore{}, zerolog.Nop())
	pred := p.Predict(context.Background(), &Input{
		Signal: &domain.LaunchSignal{RiskScore: 40},
		Market: &domain.MarketSnapshot{MarketCapUSD: 100_000, LiquidityUSD: 30_000},
	})
	if pred.FairValue == nil {
		t.Fatal("fair value missing")
	}
}

func TestFairValueScores(t *testing.T) {
	sig := &domain.LaunchSignal{Top10Pct: 45}
	m := &domain.MarketSnapshot{
		MarketCapUSD:  200_000,
		LiquidityUSD:  60_000, // 30% of cap
		Buys5m:        20,
		Sells5m:       5, // 80% buys: +15
		Buys1h:        50,
		Sells1h:       50,
		Volume5mUSD:   10_000,
		Volume1hUSD:   60_000, // accel 2.0: +15
		PriceChange5m: 15,     // +10
	}

	band := FairValue(sig, m)
	if band == nil {
		t.Fatal("nil band")
	}
	if band.LiquidityScore != 80 {
		t.Errorf("liquidity score = %d, want 80", band.LiquidityScore)
	}
	if band.MomentumScore != 90 {
		t.Errorf("momentum score = %d, want 90", band.MomentumScore)
	}
	if band.HolderStage != "B" {
		t.Errorf("holder stage = %s, want B", band.HolderStage)
	}
	if band.ConcentrationTier != "high" {
		t.Errorf("concentration tier = %s, want high", band.ConcentrationTier)
	}
	if band.Trend != domain.TrendTrending {
		t.Errorf("trend = %s, want trending", band.Trend)
	}
	if !(band.LowUSD < band.MidUSD && band.MidUSD < band.HighUSD) {
		t.Errorf("band out of order: %+v", band)
	}

	wantMid := 200_000 * (0.75 + 0.8*0.5) * (0.70 + 0.9*0.6)
	if math.Abs(band.MidUSD-wantMid) > 1e-6 {
		t.Errorf("mid = %v, want %v", band.MidUSD, wantMid)
	}
}

func TestFairValueDegenerate(t *testing.T) {
	if band := FairValue(nil, &domain.MarketSnapshot{}); band != nil {
		t.Fatalf("zero-cap snapshot should yield nil, got %+v", band)
	}

	// Dead flow on a small cap reads as dying.
	band := FairValue(nil, &domain.MarketSnapshot{
		MarketCapUSD:  20_000,
		Buys5m:        1,
		Sells5m:       9,
		Buys1h:        5,
		Sells1h:       40,
		Volume5mUSD:   10,
		Volume1hUSD:   5_000,
		PriceChange5m: -30,
		PriceChange1h: -60,
	})
	if band.Trend != domain.TrendDying {
		t.Errorf("trend = %s, want dying", band.Trend)
	}
	if band.LiquidityScore != 0 {
		t.Errorf("liquidity score = %d, want 0", band.LiquidityScore)
	}
}
