package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"mintshield/internal/domain"
)

const testMint = "So11111111111111111111111111111111111111112"

func TestSecurityClientParsesReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"code": 1,
			"result": {
				"` + testMint + `": {
					"mintable": "0",
					"freezable": "1",
					"buy_tax": "0.05",
					"sell_tax": "0.25",
					"creator_address": "Creator1111111111111111111111111111111111111",
					"creator_percent": "0.12",
					"holder_count": "350",
					"trust_list": "1",
					"holders": [
						{"address": "H1", "percent": "0.08", "tag": ""},
						{"address": "H2", "percent": "0.05", "tag": "pool"}
					],
					"lp_holders": [
						{"address": "LP1", "percent": "0.95", "is_locked": 1, "tag": "",
						 "locked_detail": [{"end_time": "2027-01-01T00:00:00Z"}]},
						{"address": "LP2", "percent": "0.05", "is_locked": 0, "tag": "burn"}
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	c := NewSecurityClient(srv.URL, "", zerolog.Nop())
	report, err := c.TokenSecurity(context.Background(), testMint)
	if err != nil {
		t.Fatalf("TokenSecurity: %v", err)
	}
	if report.Mintable == nil || *report.Mintable {
		t.Error("expected mintable=false")
	}
	if report.Freezable == nil || !*report.Freezable {
		t.Error("expected freezable=true")
	}
	if report.BuyTaxBps != 500 || report.SellTaxBps != 2500 {
		t.Errorf("taxes = %d/%d, want 500/2500", report.BuyTaxBps, report.SellTaxBps)
	}
	if report.CreatorPct != 12 {
		t.Errorf("CreatorPct = %v, want 12", report.CreatorPct)
	}
	if !report.TrustedToken {
		t.Error("expected trust list hit")
	}
	if len(report.TopHolders) != 2 || report.TopHolders[0].Pct != 8 {
		t.Errorf("unexpected holders: %+v", report.TopHolders)
	}
	if len(report.LPHolders) != 2 {
		t.Fatalf("LPHolders = %d, want 2", len(report.LPHolders))
	}
	if !report.LPHolders[0].Locked || report.LPHolders[0].UnlockAt == 0 {
		t.Error("expected first LP holder locked with unlock time")
	}
	if !report.LPHolders[1].Burned {
		t.Error("expected burn-tagged LP holder marked burned")
	}
}

func TestSecurityClientUnknownMint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 1, "result": {}}`))
	}))
	defer srv.Close()

	c := NewSecurityClient(srv.URL, "", zerolog.Nop())
	report, err := c.TokenSecurity(context.Background(), testMint)
	if err != nil {
		t.Fatalf("TokenSecurity: %v", err)
	}
	if report != nil {
		t.Errorf("expected nil report for unknown mint, got %+v", report)
	}
}

func TestMarketClientPicksDeepestPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": [
			{"dexId": "raydium", "pairAddress": "shallow",
			 "baseToken": {"name": "Tok", "symbol": "TOK"},
			 "priceUsd": "0.001", "liquidity": {"usd": 500}, "marketCap": 10000,
			 "pairCreatedAt": 1756300000000},
			{"dexId": "pumpswap", "pairAddress": "deep",
			 "baseToken": {"name": "Tok", "symbol": "TOK"},
			 "priceUsd": "0.002", "liquidity": {"usd": 25000}, "marketCap": 50000,
			 "pairCreatedAt": 1756300000000,
			 "txns": {"m5": {"buys": 10, "sells": 3}, "h1": {"buys": 90, "sells": 40}, "h24": {"buys": 900, "sells": 400}},
			 "volume": {"m5": 100, "h1": 2000, "h24": 30000},
			 "priceChange": {"m5": 2.5, "h1": 15, "h24": 120},
			 "info": {"websites": [{"url": "https://tok.example"}],
			          "socials": [{"type": "twitter", "url": "https://x.com/tok"}]}}
		]}`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL, zerolog.Nop())
	data, err := c.TokenMarket(context.Background(), testMint, 1756303600)
	if err != nil {
		t.Fatalf("TokenMarket: %v", err)
	}
	if data.PairAddr != "deep" {
		t.Errorf("PairAddr = %q, want the deepest pair", data.PairAddr)
	}
	if data.Platform != domain.PlatformPump {
		t.Errorf("Platform = %q, want %q", data.Platform, domain.PlatformPump)
	}
	if data.Market.PriceUSD != 0.002 || data.Market.LiquidityUSD != 25000 {
		t.Errorf("unexpected market: %+v", data.Market)
	}
	if data.Market.Buys1h != 90 || data.Market.Sells24h != 400 {
		t.Errorf("unexpected txn counts: %+v", data.Market)
	}
	if data.Market.PairCreatedAt != 1756300000 {
		t.Errorf("PairCreatedAt = %d, want seconds", data.Market.PairCreatedAt)
	}
	if data.Market.PairAgeSeconds != 3600 {
		t.Errorf("PairAgeSeconds = %d, want 3600", data.Market.PairAgeSeconds)
	}
	if data.Socials.Website == "" || data.Socials.Twitter == "" {
		t.Errorf("expected socials populated: %+v", data.Socials)
	}
}

func TestMarketClientNoPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pairs": null}`))
	}))
	defer srv.Close()

	c := NewMarketClient(srv.URL, zerolog.Nop())
	data, err := c.TokenMarket(context.Background(), testMint, 1756303600)
	if err != nil {
		t.Fatalf("TokenMarket: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil for unlisted mint, got %+v", data)
	}
}

func TestForensicsClientAggregates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"rugged": false,
			"risks": [{"name": "Low liquidity", "level": "warn", "score": 500}],
			"markets": [{"lp": {"lpLockedPct": 40,
				"holders": [{"owner": "1nc1nerator11111111111111111111111111111111", "pct": 55},
				            {"owner": "SomeWallet", "pct": 5}]}}],
			"insiderNetworks": [{"id": "n1", "tokenAmount": 200, "size": 12}],
			"totalSupply": 1000,
			"creatorTokens": [{"mint": "a", "rugged": true}, {"mint": "b", "rugged": false}],
			"verification": {"jup_verified": true}
		}`))
	}))
	defer srv.Close()

	c := NewForensicsClient(srv.URL, zerolog.Nop())
	report, err := c.TokenForensics(context.Background(), testMint)
	if err != nil {
		t.Fatalf("TokenForensics: %v", err)
	}
	if report.Rugged {
		t.Error("expected rugged=false")
	}
	if report.LPLockedPct != 40 || report.LPBurnedPct != 55 {
		t.Errorf("LP lock/burn = %v/%v, want 40/55", report.LPLockedPct, report.LPBurnedPct)
	}
	if report.InsiderNetworks != 1 || report.InsiderHoldingPct != 20 {
		t.Errorf("insiders = %d nets, %v pct", report.InsiderNetworks, report.InsiderHoldingPct)
	}
	if report.CreatorTokenCount != 2 || report.CreatorRugCount != 1 {
		t.Errorf("creator history = %d/%d", report.CreatorTokenCount, report.CreatorRugCount)
	}
	if !report.Verified {
		t.Error("expected verified listing")
	}
}

func TestQuoteClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"inAmount": "1000000", "outAmount": "987000",
			"priceImpactPct": "0.0042",
			"routePlan": [{"swapInfo": {"ammKey": "amm1"}}]}`))
	}))
	defer srv.Close()

	c := NewQuoteClient(srv.URL, zerolog.Nop())
	q, err := c.Quote(context.Background(), testMint, "Out111", 1000000)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.OutAmount != 987000 {
		t.Errorf("OutAmount = %d, want 987000", q.OutAmount)
	}
	if q.PriceImpactPct != 0.42 {
		t.Errorf("PriceImpactPct = %v, want 0.42", q.PriceImpactPct)
	}
	if q.RouteHops != 1 {
		t.Errorf("RouteHops = %d, want 1", q.RouteHops)
	}
}

func TestQuoteClientNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errorCode": "COULD_NOT_FIND_ANY_ROUTE", "error": "no route"}`))
	}))
	defer srv.Close()

	c := NewQuoteClient(srv.URL, zerolog.Nop())
	_, err := c.Quote(context.Background(), testMint, "Out111", 1000000)
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("err = %v, want ErrNoRoute", err)
	}
}

func TestMetadataClientRewritesIPFS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ipfs/QmHash" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"name": "Tok", "symbol": "TOK", "image": "https://img",
			"extensions": {"telegram": "https://t.me/tok"}}`))
	}))
	defer srv.Close()

	c := NewMetadataClient(srv.URL+"/ipfs/", zerolog.Nop())
	meta, err := c.Fetch(context.Background(), "ipfs://QmHash")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if meta.Name != "Tok" || meta.Symbol != "TOK" {
		t.Errorf("identity = %q/%q", meta.Name, meta.Symbol)
	}
	if meta.Socials.Telegram != "https://t.me/tok" {
		t.Errorf("Telegram = %q", meta.Socials.Telegram)
	}
}

func TestGetJSONRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out struct{}
	err := getJSON(context.Background(), srv.Client(), newBreaker("test"), srv.URL, nil, &out)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
