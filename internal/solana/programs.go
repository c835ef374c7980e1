package solana

import "github.com/mr-tron/base58"

// Launch-platform program ids.
const (
	PumpFunProgramID    = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	RaydiumAMMProgramID = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
)

// DeriveBondingCurveAddress derives the pump.fun bonding curve account for a
// mint. Returns "" when the mint is not a valid base58 32-byte key.
func DeriveBondingCurveAddress(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return ""
	}
	program, err := base58.Decode(PumpFunProgramID)
	if err != nil {
		return ""
	}
	return derivePDA([][]byte{[]byte("bonding-curve"), mintBytes}, program)
}

// DeriveMetadataAddress derives the Metaplex metadata account for a mint.
func DeriveMetadataAddress(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return ""
	}
	program, err := base58.Decode(MetadataProgramID)
	if err != nil {
		return ""
	}
	return derivePDA([][]byte{[]byte("metadata"), program, mintBytes}, program)
}
