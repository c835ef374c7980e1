package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ErrNoRoute means the swap aggregator found no route between the pair.
// For a freshly launched token with a live pool this usually signals a
// honeypot or a blocked sell path.
var ErrNoRoute = errors.New("providers: no swap route")

// SwapQuote is the aggregator's answer for a simulated swap.
type SwapQuote struct {
	InAmount       uint64
	OutAmount      uint64
	PriceImpactPct float64
	RouteHops      int
}

// QuoteClient calls the swap aggregator's quote endpoint.
type QuoteClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewQuoteClient creates the swap-quote provider client.
func NewQuoteClient(baseURL string, logger zerolog.Logger) *QuoteClient {
	return &QuoteClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		breaker: newBreaker("quote"),
		log:     logger.With().Str("provider", "quote").Logger(),
	}
}

type rawQuoteResponse struct {
	InAmount       string `json:"inAmount"`
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
	RoutePlan      []struct {
		SwapInfo struct {
			AmmKey string `json:"ammKey"`
		} `json:"swapInfo"`
	} `json:"routePlan"`
	ErrorCode string `json:"errorCode"`
	Error     string `json:"error"`
}

// Quote asks for a quote swapping amount of inputMint into outputMint.
// A missing route maps to ErrNoRoute so callers can distinguish "sell is
// blocked" from transport failures.
func (c *QuoteClient) Quote(ctx context.Context, inputMint, outputMint string, amount uint64) (*SwapQuote, error) {
	url := fmt.Sprintf("%s/quote?inputMint=%s&outputMint=%s&amount=%d&slippageBps=500",
		c.baseURL, inputMint, outputMint, amount)

	var raw rawQuoteResponse
	if err := getJSON(ctx, c.client, c.breaker, url, nil, &raw); err != nil {
		c.log.Debug().Err(err).Str("input", inputMint).Str("output", outputMint).Msg("quote fetch failed")
		return nil, err
	}

	if raw.ErrorCode != "" || raw.Error != "" {
		if raw.ErrorCode == "COULD_NOT_FIND_ANY_ROUTE" || raw.ErrorCode == "NO_ROUTES_FOUND" {
			return nil, ErrNoRoute
		}
		return nil, fmt.Errorf("providers: quote error %s: %s", raw.ErrorCode, raw.Error)
	}
	if raw.OutAmount == "" {
		return nil, ErrNoRoute
	}

	in, _ := strconv.ParseUint(raw.InAmount, 10, 64)
	out, err := strconv.ParseUint(raw.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("providers: bad outAmount %q: %w", raw.OutAmount, err)
	}
	impact, _ := strconv.ParseFloat(raw.PriceImpactPct, 64)

	return &SwapQuote{
		InAmount:       in,
		OutAmount:      out,
		PriceImpactPct: impact * 100,
		RouteHops:      len(raw.RoutePlan),
	}, nil
}
