// Package stub provides an in-memory solana.Client for tests.
package stub

import (
	"context"

	"mintshield/internal/solana"
)

// Client implements solana.Client backed by maps. Missing entries behave
// like absent accounts: (nil, nil), matching the real client.
type Client struct {
	Accounts        map[string]*solana.AccountInfo
	Supplies        map[string]*solana.TokenAmount
	LargestAccounts map[string][]solana.TokenAccountBalance
	Signatures      map[string][]solana.SignatureInfo
	Transactions    map[string]*solana.Transaction
	ProgramAccounts map[string][]solana.KeyedAccount // keyed by programID

	// Errs forces an error for a pubkey/signature, simulating source failure.
	Errs map[string]error
}

// New creates an empty stub client.
func New() *Client {
	return &Client{
		Accounts:        make(map[string]*solana.AccountInfo),
		Supplies:        make(map[string]*solana.TokenAmount),
		LargestAccounts: make(map[string][]solana.TokenAccountBalance),
		Signatures:      make(map[string][]solana.SignatureInfo),
		Transactions:    make(map[string]*solana.Transaction),
		ProgramAccounts: make(map[string][]solana.KeyedAccount),
		Errs:            make(map[string]error),
	}
}

var _ solana.Client = (*Client)(nil)

func (c *Client) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.Errs[pubkey]; err != nil {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

func (c *Client) GetTokenSupply(_ context.Context, mint string) (*solana.TokenAmount, error) {
	if err := c.Errs[mint]; err != nil {
		return nil, err
	}
	return c.Supplies[mint], nil
}

func (c *Client) GetTokenLargestAccounts(_ context.Context, mint string) ([]solana.TokenAccountBalance, error) {
	if err := c.Errs[mint]; err != nil {
		return nil, err
	}
	return c.LargestAccounts[mint], nil
}

func (c *Client) GetSignaturesForAddress(_ context.Context, address string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	if err := c.Errs[address]; err != nil {
		return nil, err
	}
	sigs := c.Signatures[address]
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}
	return sigs, nil
}

func (c *Client) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	if err := c.Errs[signature]; err != nil {
		return nil, err
	}
	return c.Transactions[signature], nil
}

func (c *Client) GetProgramAccounts(_ context.Context, programID string, _ []solana.MemcmpFilter) ([]solana.KeyedAccount, error) {
	if err := c.Errs[programID]; err != nil {
		return nil, err
	}
	return c.ProgramAccounts[programID], nil
}
