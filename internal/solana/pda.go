package solana

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program and mint addresses.
const (
	TokenProgramID           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	Token2022ProgramID       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramID = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetadataProgramID        = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
	SystemProgramID          = "11111111111111111111111111111111"
	WSOLMint                 = "So11111111111111111111111111111111111111112"
)

// DeriveAssociatedTokenAddress returns the canonical token account address
// for (owner, mint) under the standard token program. Returns "" when the
// inputs are not valid base58 32-byte keys.
func DeriveAssociatedTokenAddress(owner, mint string) string {
	return DeriveAssociatedTokenAddressForProgram(owner, mint, TokenProgramID)
}

// DeriveAssociatedTokenAddressForProgram derives the associated token
// address for a specific token program (standard or Token-2022).
func DeriveAssociatedTokenAddressForProgram(owner, mint, tokenProgram string) string {
	ownerBytes, err := base58.Decode(owner)
	if err != nil || len(ownerBytes) != 32 {
		return ""
	}
	mintBytes, err := base58.Decode(mint)
	if err != nil || len(mintBytes) != 32 {
		return ""
	}
	programBytes, err := base58.Decode(tokenProgram)
	if err != nil || len(programBytes) != 32 {
		return ""
	}
	ataProgram, err := base58.Decode(AssociatedTokenProgramID)
	if err != nil {
		return ""
	}

	return derivePDA([][]byte{ownerBytes, programBytes, mintBytes}, ataProgram)
}

// derivePDA derives a Program Derived Address: SHA256 over seeds, bump,
// program id and the PDA marker, taking the first bump that lands
// off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !IsOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}
	return ""
}

// IsOnCurve reports whether a 32-byte point decodes onto the ed25519 curve.
func IsOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// ValidAddress reports whether s is a plausible Solana address: base58,
// decoding to exactly 32 bytes.
func ValidAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	decoded, err := base58.Decode(s)
	return err == nil && len(decoded) == 32
}
