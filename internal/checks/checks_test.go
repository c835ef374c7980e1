package checks

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mintshield/internal/decode"
	"mintshield/internal/domain"
	"mintshield/internal/providers"
	"mintshield/internal/solana"
	"mintshield/internal/solana/stub"
)

const testMint = "MintAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA1"

func testBattery() *Battery {
	return NewBattery(DefaultWeights(), zerolog.Nop())
}

func boolPtr(v bool) *bool { return &v }

func TestMintAuthorityLedger(t *testing.T) {
	b := testBattery()

	sc := &ScanContext{MintInfo: &decode.MintAccount{}}
	res := b.MintAuthority(sc)
	if res.Status != domain.StatusSafe || res.Score != 0 {
		t.Errorf("revoked: got %s/%d", res.Status, res.Score)
	}

	sc = &ScanContext{MintInfo: &decode.MintAccount{MintAuthority: "Auth1"}}
	res = b.MintAuthority(sc)
	if res.Status != domain.StatusDanger || res.Score != 100 {
		t.Errorf("active: got %s/%d", res.Status, res.Score)
	}
}

func TestMintAuthorityProviderFallback(t *testing.T) {
	b := testBattery()

	sc := &ScanContext{Security: &providers.SecurityReport{Mintable: boolPtr(true)}}
	res := b.MintAuthority(sc)
	if res.Status != domain.StatusDanger || res.Score != 100 {
		t.Errorf("mintable fallback: got %s/%d", res.Status, res.Score)
	}

	res = b.MintAuthority(&ScanContext{})
	if res.Status != domain.StatusUnknown {
		t.Errorf("no data: got %s", res.Status)
	}
}

func TestFreezeAuthorityScores(t *testing.T) {
	b := testBattery()

	res := b.FreezeAuthority(&ScanContext{MintInfo: &decode.MintAccount{FreezeAuthority: "F1"}})
	if res.Status != domain.StatusDanger || res.Score != 80 {
		t.Errorf("active freeze: got %s/%d", res.Status, res.Score)
	}
	if res.Weight != 0.8 {
		t.Errorf("weight = %v, want 0.8", res.Weight)
	}
}

func TestLiquidityBondingCurve(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{Curve: &decode.BondingCurve{TokenTotalSupply: 1000, RealTokenReserves: 500}}

	res := b.Liquidity(sc)
	if res.Status != domain.StatusSafe || res.Score != 10 {
		t.Errorf("live curve: got %s/%d", res.Status, res.Score)
	}
}

func TestLiquidityBurnedLPSupply(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Pool:     &decode.PoolAccount{LPMint: "LP1"},
		LPSupply: &solana.TokenAmount{Amount: 0},
		// Hostile provider data must not worsen a ledger-resolved verdict.
		Forensics: &providers.ForensicsReport{LPLockedPct: 0, LPBurnedPct: 0},
	}

	res := b.Liquidity(sc)
	if res.Status != domain.StatusSafe || res.Score != 0 {
		t.Errorf("burned supply: got %s/%d", res.Status, res.Score)
	}
}

func TestLiquidityUnlockedAndTightening(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Pool:      &decode.PoolAccount{LPMint: "LP1"},
		LPSupply:  &solana.TokenAmount{Amount: 1000},
		LPHolders: []solana.TokenAccountBalance{{Address: "Whale", Amount: 1000}},
	}

	res := b.Liquidity(sc)
	if res.Status != domain.StatusDanger || res.Score != 90 {
		t.Errorf("unlocked: got %s/%d", res.Status, res.Score)
	}

	// External lock data tightens the unlocked verdict.
	sc.Forensics = &providers.ForensicsReport{LPLockedPct: 100}
	res = b.Liquidity(sc)
	if res.Status != domain.StatusSafe || res.Score != 10 {
		t.Errorf("tightened: got %s/%d", res.Status, res.Score)
	}
}

func TestLiquidityNoPool(t *testing.T) {
	b := testBattery()
	res := b.Liquidity(&ScanContext{})
	if res.Status != domain.StatusUnknown || res.Score != 50 {
		t.Errorf("no pool: got %s/%d", res.Status, res.Score)
	}
}

func TestHoldersTiers(t *testing.T) {
	b := testBattery()
	cases := []struct {
		name   string
		top    []uint64
		status domain.CheckStatus
		score  int
	}{
		{"whale top1", []uint64{200, 10, 10}, domain.StatusDanger, 95},
		{"top10 heavy", []uint64{140, 140, 140, 140, 140, 60}, domain.StatusDanger, 90},
		{"top10 half", []uint64{140, 140, 140, 140}, domain.StatusWarning, 50},
		{"top10 third", []uint64{110, 110, 110}, domain.StatusWarning, 25},
		{"distributed", []uint64{50, 50, 50}, domain.StatusSafe, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			holders := make([]solana.TokenAccountBalance, len(tc.top))
			for i, amt := range tc.top {
				holders[i] = solana.TokenAccountBalance{Address: string(rune('A' + i)), Amount: amt}
			}
			sc := &ScanContext{
				Supply:  &solana.TokenAmount{Amount: 1000},
				Holders: holders,
			}
			res := b.Holders(sc)
			if res.Status != tc.status || res.Score != tc.score {
				t.Errorf("got %s/%d, want %s/%d", res.Status, res.Score, tc.status, tc.score)
			}
		})
	}
}

func TestHoldersExcludesProtocolAccounts(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Supply: &solana.TokenAmount{Amount: 1000},
		Holders: []solana.TokenAccountBalance{
			{Address: "Vault", Amount: 800}, // pool vault, excluded
			{Address: "H1", Amount: 10},
			{Address: "H2", Amount: 10},
		},
		ExcludedHolders: []string{"Vault"},
	}
	res := b.Holders(sc)
	// 20 of the 200 "real" supply = 10%, well distributed.
	if res.Status != domain.StatusSafe || res.Score != 0 {
		t.Errorf("got %s/%d, want safe/0", res.Status, res.Score)
	}
}

func TestHoneypotNoRoute(t *testing.T) {
	b := testBattery()
	res := b.Honeypot(&ScanContext{QuoteErr: providers.ErrNoRoute})
	if res.Status != domain.StatusDanger || res.Score != 100 {
		t.Errorf("no route: got %s/%d", res.Status, res.Score)
	}
}

func TestHoneypotImpactTiers(t *testing.T) {
	b := testBattery()
	cases := []struct {
		impact float64
		status domain.CheckStatus
		score  int
	}{
		{60, domain.StatusDanger, 80},
		{30, domain.StatusWarning, 60},
		{1, domain.StatusSafe, 1},
		{0.2, domain.StatusSafe, 0},
	}
	for _, tc := range cases {
		res := b.Honeypot(&ScanContext{Quote: &providers.SwapQuote{PriceImpactPct: tc.impact}})
		if res.Status != tc.status || res.Score != tc.score {
			t.Errorf("impact %.1f: got %s/%d, want %s/%d", tc.impact, res.Status, res.Score, tc.status, tc.score)
		}
	}
}

func TestHoneypotUnknownWithoutQuote(t *testing.T) {
	b := testBattery()
	res := b.Honeypot(&ScanContext{})
	if res.Status != domain.StatusUnknown {
		t.Errorf("got %s, want unknown", res.Status)
	}
}

func TestTransferTaxStandardToken(t *testing.T) {
	b := testBattery()
	res := b.TransferTax(&ScanContext{MintInfo: &decode.MintAccount{}})
	if res.Status != domain.StatusSafe || res.Score != 0 {
		t.Errorf("standard token: got %s/%d", res.Status, res.Score)
	}
}

func TestTransferTaxExtensionTiers(t *testing.T) {
	b := testBattery()
	cases := []struct {
		bps    int
		status domain.CheckStatus
		score  int
	}{
		{2500, domain.StatusDanger, 95},
		{600, domain.StatusDanger, 75},
		{150, domain.StatusWarning, 45},
		{50, domain.StatusSafe, 15},
		{0, domain.StatusSafe, 5},
	}
	for _, tc := range cases {
		sc := &ScanContext{Extensions: &decode.MintExtensions{HasTransferFee: true, FeeBasisPoints: tc.bps}}
		res := b.TransferTax(sc)
		if res.Status != tc.status || res.Score != tc.score {
			t.Errorf("bps %d: got %s/%d, want %s/%d", tc.bps, res.Status, res.Score, tc.status, tc.score)
		}
	}
}

func TestTransferTaxSecurityFallback(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{Security: &providers.SecurityReport{SellTaxBps: 2500}}
	res := b.TransferTax(sc)
	if res.Status != domain.StatusDanger || res.Score != 95 {
		t.Errorf("security fallback: got %s/%d", res.Status, res.Score)
	}
}

func TestSocialSignalCounts(t *testing.T) {
	b := testBattery()
	cases := []struct {
		name    string
		links   domain.SocialLinks
		status  domain.CheckStatus
		score   int
	}{
		{"all", domain.SocialLinks{Website: "w", Twitter: "t", Telegram: "g"}, domain.StatusSafe, 0},
		{"two", domain.SocialLinks{Website: "w", Twitter: "t"}, domain.StatusSafe, 15},
		{"one", domain.SocialLinks{Twitter: "t"}, domain.StatusWarning, 45},
		{"none", domain.SocialLinks{}, domain.StatusDanger, 70},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc := &ScanContext{Offchain: &providers.OffchainMetadata{Socials: tc.links}}
			res := b.Social(sc)
			if res.Status != tc.status || res.Score != tc.score {
				t.Errorf("got %s/%d, want %s/%d", res.Status, res.Score, tc.status, tc.score)
			}
		})
	}
}

func TestSocialVerifiedOverridesCount(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Offchain:  &providers.OffchainMetadata{},
		Forensics: &providers.ForensicsReport{Verified: true},
	}
	res := b.Social(sc)
	if res.Status != domain.StatusSafe || res.Score != 0 {
		t.Errorf("verified: got %s/%d", res.Status, res.Score)
	}
}

func TestRugPatternConfirmedRug(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{Forensics: &providers.ForensicsReport{Rugged: true}}
	res := b.RugPattern(sc)
	if res.Status != domain.StatusDanger || res.Score != 100 {
		t.Errorf("confirmed rug: got %s/%d", res.Status, res.Score)
	}
}

func TestRugPatternAccumulates(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Forensics: &providers.ForensicsReport{
			Risks:           []providers.ForensicsRisk{{Name: "Top holders", Level: "danger"}},
			InsiderNetworks: 1,
		},
		Market: &providers.MarketData{Identity: domain.TokenIdentity{Name: "Fine Token", Symbol: "FINE"}},
	}
	res := b.RugPattern(sc)
	// 15 (danger flag) + 10 (insider network) = 25, warning band.
	if res.Status != domain.StatusWarning || res.Score != 25 {
		t.Errorf("got %s/%d, want warning/25", res.Status, res.Score)
	}
}

func TestRugPatternCopycatSymbol(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Market: &providers.MarketData{Identity: domain.TokenIdentity{Name: "Solana", Symbol: "SOL"}},
	}
	res := b.RugPattern(sc)
	if res.Score < 15 {
		t.Errorf("copycat symbol score = %d, want >= 15", res.Score)
	}
}

// launchStub builds a ledger with a three-wallet bundled launch in slot 100.
func launchStub(t *testing.T) *stub.Client {
	t.Helper()
	rpc := stub.New()

	rpc.Supplies[testMint] = &solana.TokenAmount{Amount: 1_000_000}
	rpc.Signatures[testMint] = []solana.SignatureInfo{
		{Signature: "sig3", Slot: 101},
		{Signature: "sig2", Slot: 100},
		{Signature: "sig1", Slot: 100},
		{Signature: "sig0", Slot: 100},
	}
	buyTx := func(slot int64, sig, buyer string, amount uint64) *solana.Transaction {
		return &solana.Transaction{
			Slot:      slot,
			Signature: sig,
			Message:   &solana.TransactionMessage{AccountKeys: []string{buyer}},
			Meta: &solana.TransactionMeta{
				PostTokenBalances: []solana.TokenBalance{{Mint: testMint, Owner: buyer, Amount: amount}},
			},
		}
	}
	rpc.Transactions["sig0"] = buyTx(100, "sig0", "BuyerA", 100_000)
	rpc.Transactions["sig1"] = buyTx(100, "sig1", "BuyerB", 100_000)
	rpc.Transactions["sig2"] = buyTx(100, "sig2", "BuyerC", 100_000)
	rpc.Transactions["sig3"] = buyTx(101, "sig3", "BuyerD", 10_000)
	return rpc
}

func TestBundleDetectsLaunchSlotBuyers(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Mint:   testMint,
		Now:    time.Now(),
		Ledger: launchStub(t),
		Supply: &solana.TokenAmount{Amount: 1_000_000},
	}

	res := b.Bundle(context.Background(), sc)
	// BuyerA is the creator (first signer of the earliest tx); B and C
	// acquired 20% of supply in the launch slot.
	if res.Status != domain.StatusWarning || res.Score != 50 {
		t.Errorf("got %s/%d, want warning/50 (%s)", res.Status, res.Score, res.Message)
	}
}

func TestBundleUnknownWithoutLedger(t *testing.T) {
	b := testBattery()
	res := b.Bundle(context.Background(), &ScanContext{Mint: testMint})
	if res.Status != domain.StatusUnknown {
		t.Errorf("got %s, want unknown", res.Status)
	}
}

func TestSniperCoordinatedSameSlotBuyers(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Mint:   testMint,
		Now:    time.Now(),
		Ledger: launchStub(t),
		Supply: &solana.TokenAmount{Amount: 1_000_000},
	}

	res := b.Sniper(context.Background(), sc)
	// Three same-slot buyers trip the coordinated-timing heuristic; the two
	// non-creator buyers hold 20% > 15%.
	if res.Status != domain.StatusDanger || res.Score != 85 {
		t.Errorf("got %s/%d, want danger/85 (%s)", res.Status, res.Score, res.Message)
	}
}

func TestFundingCommonSource(t *testing.T) {
	b := testBattery()
	rpc := launchStub(t)

	fund := func(sig, buyer string) {
		rpc.Signatures[buyer] = []solana.SignatureInfo{{Signature: sig, Slot: 90}}
		rpc.Transactions[sig] = &solana.Transaction{
			Slot:      90,
			Signature: sig,
			Message:   &solana.TransactionMessage{AccountKeys: []string{"Funder1", buyer}},
			Meta: &solana.TransactionMeta{
				PreBalances:  []uint64{10_000_000, 0},
				PostBalances: []uint64{5_000_000, 5_000_000},
			},
		}
	}
	fund("fundB", "BuyerB")
	fund("fundC", "BuyerC")

	sc := &ScanContext{
		Mint:   testMint,
		Now:    time.Now(),
		Ledger: rpc,
		Supply: &solana.TokenAmount{Amount: 1_000_000},
	}
	res := b.Funding(context.Background(), sc)
	if res.Status != domain.StatusWarning || res.Score != 55 {
		t.Errorf("got %s/%d, want warning/55 (%s)", res.Status, res.Score, res.Message)
	}
}

func TestDevWalletSecurityFallback(t *testing.T) {
	b := testBattery()
	sc := &ScanContext{
		Mint:     testMint,
		Security: &providers.SecurityReport{CreatorAddr: "Dev1", CreatorPct: 7},
	}
	res := b.DevWallet(context.Background(), sc)
	if res.Status != domain.StatusDanger || res.Score != 80 {
		t.Errorf("got %s/%d, want danger/80", res.Status, res.Score)
	}
}

func TestDevWalletVerdictTiers(t *testing.T) {
	b := testBattery()
	cases := []struct {
		pct    float64
		sells  int
		status domain.CheckStatus
		score  int
	}{
		{7, 0, domain.StatusDanger, 80},
		{0.5, 3, domain.StatusDanger, 80},
		{2, 0, domain.StatusWarning, 40},
		{0.5, 1, domain.StatusWarning, 40},
		{0.5, 0, domain.StatusSafe, 0},
	}
	for _, tc := range cases {
		res := b.devWalletVerdict(tc.pct, tc.sells)
		if res.Status != tc.status || res.Score != tc.score {
			t.Errorf("pct=%v sells=%d: got %s/%d, want %s/%d", tc.pct, tc.sells, res.Status, res.Score, tc.status, tc.score)
		}
	}
}

func TestWeightsForEveryKind(t *testing.T) {
	w := DefaultWeights()
	kinds := []domain.CheckKind{
		domain.CheckMintAuthority, domain.CheckFreezeAuthority, domain.CheckLiquidity,
		domain.CheckHolders, domain.CheckHoneypot, domain.CheckDevWallet,
		domain.CheckBundle, domain.CheckFunding, domain.CheckSniper,
		domain.CheckTransferTax, domain.CheckSocial, domain.CheckRugPattern,
	}
	for _, k := range kinds {
		v := w.For(k)
		if v <= 0 || v > 1 {
			t.Errorf("weight for %s = %v, want (0,1]", k, v)
		}
	}
}
