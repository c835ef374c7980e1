package domain

// LaunchSignal is the launch-time snapshot recorded once per distinct mint
// at its first instant scan. Outcome fields are back-filled later by the
// outcome tracker. Corresponds to the launch_signals table.
type LaunchSignal struct {
	Mint     string   `json:"mint"` // PRIMARY KEY
	Platform Platform `json:"platform"`

	// Launch-time snapshot
	MarketCapUSD  float64 `json:"marketCapUsd"`
	LiquidityUSD  float64 `json:"liquidityUsd"`
	PriceUSD      float64 `json:"priceUsd"`
	RiskScore     int     `json:"riskScore"`
	LPLockedPct   float64 `json:"lpLockedPct"`
	LPBurnedPct   float64 `json:"lpBurnedPct"`
	Top10Pct      float64 `json:"top10Pct"`
	DevHoldingPct float64 `json:"devHoldingPct"`
	BuyTaxBps     int     `json:"buyTaxBps"`
	SellTaxBps    int     `json:"sellTaxBps"`
	MintRevoked   bool    `json:"mintRevoked"`
	FreezeRevoked bool    `json:"freezeRevoked"`
	CurveProgress float64 `json:"curveProgress"` // 0..1, bonding-curve completion
	HasSocials    bool    `json:"hasSocials"`
	InsiderCount  int     `json:"insiderCount"`

	CreatedAt int64 `json:"createdAt"` // Unix ms

	// Outcome fields, filled at fixed delays after creation. Nil = not yet observed.
	MarketCap1h  *float64 `json:"marketCap1h,omitempty"`
	Price1h      *float64 `json:"price1h,omitempty"`
	MarketCap6h  *float64 `json:"marketCap6h,omitempty"`
	Price6h      *float64 `json:"price6h,omitempty"`
	MarketCap24h *float64 `json:"marketCap24h,omitempty"`
	Price24h     *float64 `json:"price24h,omitempty"`
	Rugged       *bool    `json:"rugged,omitempty"`
	RugMinutes   *int     `json:"rugMinutes,omitempty"` // minutes from launch to rug detection
}

// Labeled reports whether the 24h outcome has been observed, which is the
// bar for a record to count toward the predictor's training cohort.
func (s *LaunchSignal) Labeled() bool {
	return s.MarketCap24h != nil
}

// ScanRecord is one persisted scan result line. Corresponds to the
// scan_history table; the table's CRUD surface is owned by external layers.
type ScanRecord struct {
	Mint         string    `json:"mint"`
	Mode         ScanMode  `json:"mode"`
	OverallScore int       `json:"overallScore"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Platform     Platform  `json:"platform"`
	MarketCapUSD float64   `json:"marketCapUsd"`
	LiquidityUSD float64   `json:"liquidityUsd"`
	DurationMs   int64     `json:"durationMs"`
	ScannedAt    int64     `json:"scannedAt"` // Unix ms
}
