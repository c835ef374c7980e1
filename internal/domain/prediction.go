package domain

// PredictionMode records which model produced a prediction.
type PredictionMode string

const (
	PredictionStatistical PredictionMode = "statistical"
	PredictionHeuristic   PredictionMode = "heuristic"
)

// Horizon labels the fixed outcome observation delays.
type Horizon string

const (
	Horizon1h  Horizon = "1h"
	Horizon6h  Horizon = "6h"
	Horizon24h Horizon = "24h"
)

// Horizons lists the supported horizons in ascending order.
var Horizons = []Horizon{Horizon1h, Horizon6h, Horizon24h}

// HorizonEstimate describes the expected multiple of launch market cap at
// one horizon. Multiples: 1.0 = unchanged, 2.0 = doubled.
type HorizonEstimate struct {
	Horizon Horizon `json:"horizon"`
	Median  float64 `json:"median"`
	P25     float64 `json:"p25"`
	P75     float64 `json:"p75"`
	// Cohort shares; zero in heuristic mode unless derived from buckets.
	Share2x    float64 `json:"share2x"`    // reached >=2x
	Share10x   float64 `json:"share10x"`   // reached >=10x
	ShareHalf  float64 `json:"shareHalf"`  // fell to <=0.5x
}

// TrendLabel classifies short-horizon market behavior.
type TrendLabel string

const (
	TrendAccumulating  TrendLabel = "accumulating"
	TrendTrending      TrendLabel = "trending"
	TrendConsolidating TrendLabel = "consolidating"
	TrendMature        TrendLabel = "mature"
	TrendDying         TrendLabel = "dying"
)

// FairValueBand is the short-horizon market-cap estimate from the
// momentum/fair-value estimator.
type FairValueBand struct {
	LowUSD  float64 `json:"lowUsd"`
	MidUSD  float64 `json:"midUsd"`
	HighUSD float64 `json:"highUsd"`

	LiquidityScore    int        `json:"liquidityScore"`    // 0..100
	MomentumScore     int        `json:"momentumScore"`     // 0..100
	HolderStage       string     `json:"holderStage"`       // A..D
	ConcentrationTier string     `json:"concentrationTier"` // low|elevated|high|extreme
	Trend             TrendLabel `json:"trend"`
}

// Prediction is the outcome predictor's full output for one launch.
type Prediction struct {
	Mode       PredictionMode    `json:"mode"`
	CohortSize int               `json:"cohortSize"` // similar matches used (statistical mode)
	Horizons   []HorizonEstimate `json:"horizons"`

	RugProbability float64  `json:"rugProbability"` // 0..1
	MeanRugMinutes *float64 `json:"meanRugMinutes,omitempty"`

	FairValue *FairValueBand `json:"fairValue,omitempty"`
}
