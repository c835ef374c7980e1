package domain

// Platform identifies where the token's liquidity currently lives.
type Platform string

const (
	PlatformPump    Platform = "pump.fun"
	PlatformRaydium Platform = "raydium"
	PlatformMeteora Platform = "meteora"
	PlatformNone    Platform = "unknown"
)

// ScanMode selects which pipeline produced a response.
type ScanMode string

const (
	ModeInstant ScanMode = "instant"
	ModeDeep    ScanMode = "deep"
)

// RiskLevel is the coarse band derived from the overall score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// TokenIdentity is the best-available name/symbol/image for a mint.
type TokenIdentity struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// MarketSnapshot is the market state at scan time, from the pair provider.
type MarketSnapshot struct {
	PriceUSD       float64 `json:"priceUsd"`
	MarketCapUSD   float64 `json:"marketCapUsd"`
	LiquidityUSD   float64 `json:"liquidityUsd"`
	Volume24hUSD   float64 `json:"volume24hUsd"`
	Buys24h        int     `json:"buys24h"`
	Sells24h       int     `json:"sells24h"`
	Buys5m         int     `json:"buys5m"`
	Sells5m        int     `json:"sells5m"`
	Buys1h         int     `json:"buys1h"`
	Sells1h        int     `json:"sells1h"`
	Volume5mUSD    float64 `json:"volume5mUsd"`
	Volume1hUSD    float64 `json:"volume1hUsd"`
	PriceChange5m  float64 `json:"priceChange5m"`
	PriceChange1h  float64 `json:"priceChange1h"`
	PriceChange24h float64 `json:"priceChange24h"`
	PairCreatedAt  int64   `json:"pairCreatedAt"` // Unix seconds, zero when unknown
	PairAgeSeconds int64   `json:"pairAgeSeconds"`
}

// SocialLinks holds social presence discovered from metadata or providers.
type SocialLinks struct {
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Discord  string `json:"discord,omitempty"`
	Verified bool   `json:"verified"` // provider-verified identity
}

// ScanResponse is the full output of one scan, consumed by external surfaces.
type ScanResponse struct {
	Mint         string        `json:"mint"`
	Identity     TokenIdentity `json:"identity"`
	OverallScore int           `json:"overallScore"` // 0..100
	RiskLevel    RiskLevel     `json:"riskLevel"`
	Checks       []CheckResult `json:"checks"`

	Market    *MarketSnapshot `json:"market,omitempty"`
	Socials   SocialLinks     `json:"socials"`
	Flags     []string        `json:"flags,omitempty"`     // provider risk flags
	TrustedBy []string        `json:"trustedBy,omitempty"` // provider trust lists

	Platform Platform `json:"platform"`
	Mode     ScanMode `json:"mode"`

	Prediction *Prediction `json:"prediction,omitempty"` // instant mode only

	ScannedAt  int64 `json:"scannedAt"`  // Unix ms
	DurationMs int64 `json:"durationMs"` // wall time of the scan
}
