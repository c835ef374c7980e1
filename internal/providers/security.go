package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// SecurityReport is the token-security provider's view of a mint:
// authority flags, taxes, holder concentration, creator exposure.
type SecurityReport struct {
	Mintable      *bool   // nil = provider did not report
	Freezable     *bool
	BuyTaxBps     int
	SellTaxBps    int
	CreatorAddr   string
	CreatorPct    float64 // creator's share of supply, 0..100
	TopHolders    []HolderShare
	LPHolders     []LPHolderShare
	TotalSupply   float64
	HolderCount   int
	TrustedToken  bool // present on the provider's trust list
}

// HolderShare is one holder's slice of supply.
type HolderShare struct {
	Address string
	Pct     float64 // 0..100
	Tag     string  // provider label, e.g. "burn", "pool"
}

// LPHolderShare is one LP-token holder, with lock status.
type LPHolderShare struct {
	Address   string
	Pct       float64 // share of LP supply, 0..100
	Locked    bool
	Burned    bool
	UnlockAt  int64 // Unix seconds, zero when not locked
}

// SecurityClient calls the token-security provider.
type SecurityClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewSecurityClient creates the token-security provider client.
func NewSecurityClient(baseURL, apiKey string, logger zerolog.Logger) *SecurityClient {
	return &SecurityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		breaker: newBreaker("security"),
		log:     logger.With().Str("provider", "security").Logger(),
	}
}

// rawSecurityResponse mirrors the provider's wire format: flags as "0"/"1"
// strings, taxes as decimal fractions.
type rawSecurityResponse struct {
	Code   int `json:"code"`
	Result map[string]struct {
		Mintable        string `json:"mintable"`
		Freezable       string `json:"freezable"`
		BuyTax          string `json:"buy_tax"`
		SellTax         string `json:"sell_tax"`
		CreatorAddress  string `json:"creator_address"`
		CreatorPercent  string `json:"creator_percent"`
		TotalSupply     string `json:"total_supply"`
		HolderCount     string `json:"holder_count"`
		TrustList       string `json:"trust_list"`
		Holders         []rawHolder `json:"holders"`
		LPHolders       []rawLPHolder `json:"lp_holders"`
	} `json:"result"`
}

type rawHolder struct {
	Address string `json:"address"`
	Percent string `json:"percent"`
	Tag     string `json:"tag"`
}

type rawLPHolder struct {
	Address    string `json:"address"`
	Percent    string `json:"percent"`
	IsLocked   int    `json:"is_locked"`
	Tag        string `json:"tag"`
	LockedDetail []struct {
		EndTime string `json:"end_time"`
	} `json:"locked_detail"`
}

// TokenSecurity fetches the security report for a mint. Returns (nil, err)
// on any failure; absence of data for the mint is also a nil report.
func (c *SecurityClient) TokenSecurity(ctx context.Context, mint string) (*SecurityReport, error) {
	url := fmt.Sprintf("%s/token_security/solana?contract_addresses=%s", c.baseURL, mint)

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"X-API-KEY": c.apiKey}
	}

	var raw rawSecurityResponse
	if err := getJSON(ctx, c.client, c.breaker, url, headers, &raw); err != nil {
		c.log.Debug().Err(err).Str("mint", mint).Msg("token security fetch failed")
		return nil, err
	}

	entry, ok := raw.Result[mint]
	if !ok {
		return nil, nil
	}

	report := &SecurityReport{
		BuyTaxBps:    taxToBps(entry.BuyTax),
		SellTaxBps:   taxToBps(entry.SellTax),
		CreatorAddr:  entry.CreatorAddress,
		CreatorPct:   parsePct(entry.CreatorPercent),
		TotalSupply:  parseFloat(entry.TotalSupply),
		HolderCount:  int(parseFloat(entry.HolderCount)),
		TrustedToken: entry.TrustList == "1",
	}
	if entry.Mintable != "" {
		v := entry.Mintable == "1"
		report.Mintable = &v
	}
	if entry.Freezable != "" {
		v := entry.Freezable == "1"
		report.Freezable = &v
	}

	for _, h := range entry.Holders {
		report.TopHolders = append(report.TopHolders, HolderShare{
			Address: h.Address,
			Pct:     parsePct(h.Percent),
			Tag:     h.Tag,
		})
	}
	for _, h := range entry.LPHolders {
		share := LPHolderShare{
			Address: h.Address,
			Pct:     parsePct(h.Percent),
			Locked:  h.IsLocked == 1,
			Burned:  h.Tag == "burn" || h.Tag == "blackhole",
		}
		if len(h.LockedDetail) > 0 {
			if ts, err := time.Parse(time.RFC3339, h.LockedDetail[0].EndTime); err == nil {
				share.UnlockAt = ts.Unix()
			}
		}
		report.LPHolders = append(report.LPHolders, share)
	}

	return report, nil
}

// taxToBps converts the provider's decimal-fraction tax ("0.05") to basis points.
func taxToBps(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return int(f * 10000)
}

// parsePct parses the provider's fraction strings into 0..100 percentages.
func parsePct(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	// The provider reports shares as fractions of 1.
	if f <= 1 {
		return f * 100
	}
	return f
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
