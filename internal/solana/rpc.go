package solana

import "context"

// Client defines the ledger reads the scan engine depends on.
// All reads are best-effort: a missing account is (nil, nil), not an error.
type Client interface {
	// GetAccountInfo retrieves raw account bytes by public key.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenSupply retrieves the total supply of a mint.
	GetTokenSupply(ctx context.Context, mint string) (*TokenAmount, error)

	// GetTokenLargestAccounts retrieves the largest token accounts for a mint.
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenAccountBalance, error)

	// GetSignaturesForAddress retrieves signatures for an address, newest first.
	GetSignaturesForAddress(ctx context.Context, address string, opts *SignaturesOpts) ([]SignatureInfo, error)

	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetProgramAccounts retrieves accounts owned by a program, narrowed by
	// byte-offset memcmp filters.
	GetProgramAccounts(ctx context.Context, programID string, filters []MemcmpFilter) ([]KeyedAccount, error)
}
