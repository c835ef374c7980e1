package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"mintshield/internal/domain"
)

// MarketClient calls the DEX aggregator for pair-level market data.
type MarketClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewMarketClient creates the market-data provider client.
func NewMarketClient(baseURL string, logger zerolog.Logger) *MarketClient {
	return &MarketClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		breaker: newBreaker("market"),
		log:     logger.With().Str("provider", "market").Logger(),
	}
}

type txnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

type pairPayload struct {
	ChainID   string `json:"chainId"`
	DexID     string `json:"dexId"`
	PairAddr  string `json:"pairAddress"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd string `json:"priceUsd"`
	Txns     struct {
		M5  txnCount `json:"m5"`
		H1  txnCount `json:"h1"`
		H24 txnCount `json:"h24"`
	} `json:"txns"`
	Volume struct {
		M5  float64 `json:"m5"`
		H1  float64 `json:"h1"`
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		M5  float64 `json:"m5"`
		H1  float64 `json:"h1"`
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Liquidity struct {
		Usd float64 `json:"usd"`
	} `json:"liquidity"`
	FDV           float64 `json:"fdv"`
	MarketCap     float64 `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"` // Unix milliseconds
	Info          *struct {
		Websites []struct {
			URL string `json:"url"`
		} `json:"websites"`
		Socials []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"socials"`
	} `json:"info"`
}

type pairsResponse struct {
	Pairs []pairPayload `json:"pairs"`
}

// MarketData is the normalized market view of a mint, built from the
// deepest pair the aggregator knows about.
type MarketData struct {
	Identity domain.TokenIdentity
	Market   domain.MarketSnapshot
	Socials  domain.SocialLinks
	Platform domain.Platform
	PairAddr string
}

// TokenMarket fetches pairs for a mint and normalizes the deepest one.
// Returns (nil, nil) when the aggregator has no pair for the mint yet.
func (c *MarketClient) TokenMarket(ctx context.Context, mint string, nowUnix int64) (*MarketData, error) {
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, mint)

	var raw pairsResponse
	if err := getJSON(ctx, c.client, c.breaker, url, nil, &raw); err != nil {
		c.log.Debug().Err(err).Str("mint", mint).Msg("market fetch failed")
		return nil, err
	}
	if len(raw.Pairs) == 0 {
		return nil, nil
	}

	best := raw.Pairs[0]
	for _, p := range raw.Pairs[1:] {
		if p.Liquidity.Usd > best.Liquidity.Usd {
			best = p
		}
	}

	price, _ := strconv.ParseFloat(best.PriceUsd, 64)
	mcap := best.MarketCap
	if mcap == 0 {
		mcap = best.FDV
	}

	data := &MarketData{
		Identity: domain.TokenIdentity{
			Name:   best.BaseToken.Name,
			Symbol: best.BaseToken.Symbol,
		},
		Market: domain.MarketSnapshot{
			PriceUSD:       price,
			MarketCapUSD:   mcap,
			LiquidityUSD:   best.Liquidity.Usd,
			Volume5mUSD:    best.Volume.M5,
			Volume1hUSD:    best.Volume.H1,
			Volume24hUSD:   best.Volume.H24,
			Buys5m:         best.Txns.M5.Buys,
			Sells5m:        best.Txns.M5.Sells,
			Buys1h:         best.Txns.H1.Buys,
			Sells1h:        best.Txns.H1.Sells,
			Buys24h:        best.Txns.H24.Buys,
			Sells24h:       best.Txns.H24.Sells,
			PriceChange5m:  best.PriceChange.M5,
			PriceChange1h:  best.PriceChange.H1,
			PriceChange24h: best.PriceChange.H24,
			PairCreatedAt:  best.PairCreatedAt / 1000,
		},
		Platform: platformForDex(best.DexID),
		PairAddr: best.PairAddr,
	}
	if data.Market.PairCreatedAt > 0 && nowUnix > data.Market.PairCreatedAt {
		data.Market.PairAgeSeconds = nowUnix - data.Market.PairCreatedAt
	}

	if best.Info != nil {
		if len(best.Info.Websites) > 0 {
			data.Socials.Website = best.Info.Websites[0].URL
		}
		for _, s := range best.Info.Socials {
			switch strings.ToLower(s.Type) {
			case "twitter":
				data.Socials.Twitter = s.URL
			case "telegram":
				data.Socials.Telegram = s.URL
			case "discord":
				data.Socials.Discord = s.URL
			}
		}
	}

	return data, nil
}

func platformForDex(dexID string) domain.Platform {
	switch strings.ToLower(dexID) {
	case "pumpfun", "pumpswap":
		return domain.PlatformPump
	case "raydium":
		return domain.PlatformRaydium
	case "meteora":
		return domain.PlatformMeteora
	default:
		return domain.PlatformNone
	}
}
