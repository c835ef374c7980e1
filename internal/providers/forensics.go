package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// ForensicsReport is the on-chain forensics provider's verdict on a mint:
// rug flags, LP lock state, insider networks, creator history.
type ForensicsReport struct {
	Rugged            bool
	Risks             []ForensicsRisk
	LPLockedPct       float64 // 0..100
	LPBurnedPct       float64 // 0..100
	InsiderNetworks   int     // distinct insider clusters detected
	InsiderHoldingPct float64 // supply held by insider clusters, 0..100
	CreatorTokenCount int     // other tokens launched by the same creator
	CreatorRugCount   int     // of those, how many rugged
	Verified          bool    // community-verified listing
}

// ForensicsRisk is a single named risk raised by the provider.
type ForensicsRisk struct {
	Name        string  `json:"name"`
	Level       string  `json:"level"` // "warn" or "danger"
	Description string  `json:"description"`
	Score       int     `json:"score"`
	Value       string  `json:"value"`
}

// ForensicsClient calls the on-chain forensics provider.
type ForensicsClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewForensicsClient creates the forensics provider client.
func NewForensicsClient(baseURL string, logger zerolog.Logger) *ForensicsClient {
	return &ForensicsClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		breaker: newBreaker("forensics"),
		log:     logger.With().Str("provider", "forensics").Logger(),
	}
}

type rawForensicsResponse struct {
	Rugged  bool            `json:"rugged"`
	Risks   []ForensicsRisk `json:"risks"`
	Markets []struct {
		LP struct {
			LPLockedPct float64 `json:"lpLockedPct"`
			Holders     []struct {
				Owner string  `json:"owner"`
				Pct   float64 `json:"pct"`
			} `json:"holders"`
		} `json:"lp"`
	} `json:"markets"`
	InsiderNetworks []struct {
		ID            string  `json:"id"`
		TokenAmount   float64 `json:"tokenAmount"`
		AccountCount  int     `json:"size"`
	} `json:"insiderNetworks"`
	TotalSupply   float64 `json:"totalSupply"`
	CreatorTokens []struct {
		Mint   string `json:"mint"`
		Rugged bool   `json:"rugged"`
	} `json:"creatorTokens"`
	Verification *struct {
		Jup bool `json:"jup_verified"`
	} `json:"verification"`
}

// TokenForensics fetches the forensics report for a mint.
func (c *ForensicsClient) TokenForensics(ctx context.Context, mint string) (*ForensicsReport, error) {
	url := fmt.Sprintf("%s/v1/tokens/%s/report", c.baseURL, mint)

	var raw rawForensicsResponse
	if err := getJSON(ctx, c.client, c.breaker, url, nil, &raw); err != nil {
		c.log.Debug().Err(err).Str("mint", mint).Msg("forensics fetch failed")
		return nil, err
	}

	report := &ForensicsReport{
		Rugged:          raw.Rugged,
		Risks:           raw.Risks,
		InsiderNetworks: len(raw.InsiderNetworks),
	}

	if len(raw.Markets) > 0 {
		lp := raw.Markets[0].LP
		report.LPLockedPct = lp.LPLockedPct
		for _, h := range lp.Holders {
			if isBurnAddress(h.Owner) {
				report.LPBurnedPct += h.Pct
			}
		}
	}

	if raw.TotalSupply > 0 {
		var insiderTokens float64
		for _, n := range raw.InsiderNetworks {
			insiderTokens += n.TokenAmount
		}
		report.InsiderHoldingPct = insiderTokens / raw.TotalSupply * 100
	}

	report.CreatorTokenCount = len(raw.CreatorTokens)
	for _, t := range raw.CreatorTokens {
		if t.Rugged {
			report.CreatorRugCount++
		}
	}

	if raw.Verification != nil {
		report.Verified = raw.Verification.Jup
	}

	return report, nil
}

// isBurnAddress reports whether an owner is a known burn sink.
func isBurnAddress(addr string) bool {
	switch addr {
	case "11111111111111111111111111111111",
		"1nc1nerator11111111111111111111111111111111":
		return true
	}
	return strings.HasPrefix(addr, "1nc1nerator")
}
