package decode

// Raydium AMM v4 liquidity state layout. The first 256 bytes are u64
// parameters, followed by u128 swap accumulators, then the pubkey block.
const (
	poolStatusOffset    = 0
	poolOpenTimeOffset  = 224 // 28th u64 field
	poolBaseVaultOffset = 336
	poolQuoteVaultOffset = 368
	poolBaseMintOffset  = 400
	poolQuoteMintOffset = 432
	poolLPMintOffset    = 464
	poolLPReserveOffset = 720

	// PoolAccountLen is the size of a Raydium AMM v4 pool account.
	PoolAccountLen = 752
)

// PoolAccount is the decoded AMM pool state relevant to LP-risk checks.
type PoolAccount struct {
	Status     uint64
	OpenTime   int64 // Unix seconds; zero when not set
	BaseMint   string
	QuoteMint  string
	BaseVault  string
	QuoteVault string
	LPMint     string
	LPReserve  uint64
}

// DecodePool parses a Raydium AMM v4 pool account.
func DecodePool(data []byte) (*PoolAccount, bool) {
	if len(data) < PoolAccountLen {
		return nil, false
	}
	return &PoolAccount{
		Status:     readU64(data, poolStatusOffset),
		OpenTime:   int64(readU64(data, poolOpenTimeOffset)),
		BaseMint:   readPubkey(data, poolBaseMintOffset),
		QuoteMint:  readPubkey(data, poolQuoteMintOffset),
		BaseVault:  readPubkey(data, poolBaseVaultOffset),
		QuoteVault: readPubkey(data, poolQuoteVaultOffset),
		LPMint:     readPubkey(data, poolLPMintOffset),
		LPReserve:  readU64(data, poolLPReserveOffset),
	}, true
}
