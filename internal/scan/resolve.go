package scan

import (
	"context"

	"mintshield/internal/checks"
	"mintshield/internal/decode"
	"mintshield/internal/solana"
)

// Raydium AMM v4 byte offsets used as getProgramAccounts memcmp filters.
const (
	poolBaseMintOffset  = 400
	poolQuoteMintOffset = 432
)

// resolveLedger populates the context's ledger-derived state. Every read is
// best-effort: a failed or absent account leaves its field nil and the
// affected checks degrade to unknown.
func (s *Scanner) resolveLedger(ctx context.Context, sc *checks.ScanContext) {
	s.resolveMint(ctx, sc)
	s.resolveMetadata(ctx, sc)
	s.resolveCurve(ctx, sc)

	// Pool liquidity only matters once the curve has graduated (or the
	// token never had one).
	if sc.Curve == nil || sc.Curve.Complete {
		s.resolvePool(ctx, sc)
	}
	s.resolveHolders(ctx, sc)
}

// resolveMint reads the mint account and total supply. This is the single
// ledger round trip the instant pipeline is allowed.
func (s *Scanner) resolveMint(ctx context.Context, sc *checks.ScanContext) {
	acct, err := s.ledger.GetAccountInfo(ctx, sc.Mint)
	if err != nil {
		s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("mint account read failed")
		return
	}
	data := acct.DataBytes()
	if len(data) == 0 {
		return
	}

	if info, ok := decode.DecodeMint(data); ok {
		sc.MintInfo = info
	}
	if acct.Owner == solana.Token2022ProgramID {
		sc.Extensions = decode.DecodeMintExtensions(data)
	}

	supply, err := s.ledger.GetTokenSupply(ctx, sc.Mint)
	if err != nil {
		s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("token supply read failed")
		return
	}
	sc.Supply = supply
}

func (s *Scanner) resolveMetadata(ctx context.Context, sc *checks.ScanContext) {
	addr := solana.DeriveMetadataAddress(sc.Mint)
	if addr == "" {
		return
	}
	acct, err := s.ledger.GetAccountInfo(ctx, addr)
	if err != nil || acct == nil {
		return
	}
	if meta, ok := decode.DecodeMetadata(acct.DataBytes()); ok {
		sc.Metadata = meta
	}
}

func (s *Scanner) resolveCurve(ctx context.Context, sc *checks.ScanContext) {
	addr := solana.DeriveBondingCurveAddress(sc.Mint)
	if addr == "" {
		return
	}
	acct, err := s.ledger.GetAccountInfo(ctx, addr)
	if err != nil || acct == nil {
		return
	}
	curve, ok := decode.DecodeBondingCurve(acct.DataBytes())
	if !ok {
		return
	}
	sc.Curve = curve

	// The curve's token account holds protocol-managed supply, not a real
	// holder position.
	if vault := solana.DeriveAssociatedTokenAddress(addr, sc.Mint); vault != "" {
		sc.ExcludedHolders = append(sc.ExcludedHolders, vault)
	}
}

// resolvePool locates the AMM pool whose base or quote mint is the token,
// then reads LP-mint supply and its largest holders for the liquidity check.
func (s *Scanner) resolvePool(ctx context.Context, sc *checks.ScanContext) {
	for _, offset := range []int{poolBaseMintOffset, poolQuoteMintOffset} {
		accounts, err := s.ledger.GetProgramAccounts(ctx, solana.RaydiumAMMProgramID, []solana.MemcmpFilter{
			{Offset: offset, Bytes: sc.Mint},
		})
		if err != nil {
			s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("pool lookup failed")
			return
		}
		for _, ka := range accounts {
			pool, ok := decode.DecodePool(ka.Account.DataBytes())
			if !ok {
				continue
			}
			sc.Pool = pool
			sc.PoolAddr = ka.Pubkey
			sc.ExcludedHolders = append(sc.ExcludedHolders, pool.BaseVault, pool.QuoteVault)
			break
		}
		if sc.Pool != nil {
			break
		}
	}
	if sc.Pool == nil {
		return
	}

	lpSupply, err := s.ledger.GetTokenSupply(ctx, sc.Pool.LPMint)
	if err != nil {
		s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("lp supply read failed")
		return
	}
	sc.LPSupply = lpSupply

	if lpSupply != nil && lpSupply.Amount > 0 {
		holders, err := s.ledger.GetTokenLargestAccounts(ctx, sc.Pool.LPMint)
		if err != nil {
			s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("lp holders read failed")
			return
		}
		sc.LPHolders = holders
	}
}

func (s *Scanner) resolveHolders(ctx context.Context, sc *checks.ScanContext) {
	holders, err := s.ledger.GetTokenLargestAccounts(ctx, sc.Mint)
	if err != nil {
		s.log.Debug().Err(err).Str("mint", sc.Mint).Msg("holders read failed")
		return
	}
	sc.Holders = holders
}
