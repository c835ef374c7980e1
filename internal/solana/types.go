package solana

import "encoding/base64"

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       string // base64 encoded
	Executable bool
}

// DataBytes decodes the base64 account data. Returns nil on malformed data.
func (a *AccountInfo) DataBytes() []byte {
	if a == nil || a.Data == "" {
		return nil
	}
	decoded, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil
	}
	return decoded
}

// TokenAmount is an amount/decimals pair from token RPC methods.
type TokenAmount struct {
	Amount   uint64  // raw units
	Decimals int
	UIAmount float64 // decimal-adjusted
}

// TokenAccountBalance is one entry from getTokenLargestAccounts.
type TokenAccountBalance struct {
	Address  string
	Amount   uint64
	Decimals int
	UIAmount float64
}

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64 // Unix seconds, nil when unavailable
	Err       interface{}
}

// SignaturesOpts defines optional pagination parameters for getSignaturesForAddress.
type SignaturesOpts struct {
	Before string // start searching backwards from this signature
	Until  string // search until this signature
	Limit  int    // maximum number of signatures to return
}

// Transaction represents a Solana transaction with the metadata the
// risk checks trace: account keys, lamport balances, and token balances.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix seconds
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction execution metadata.
type TransactionMeta struct {
	Err               interface{}
	LogMessages       []string
	PreBalances       []uint64 // lamports per account key, before execution
	PostBalances      []uint64
	PreTokenBalances  []TokenBalance
	PostTokenBalances []TokenBalance
}

// TransactionMessage contains the parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}

// TokenBalance is a pre/post token balance entry on a transaction.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
	Amount       uint64 // raw units
	Decimals     int
	UIAmount     float64
}

// MemcmpFilter narrows getProgramAccounts to accounts whose bytes at
// Offset equal the base58-decoded Bytes.
type MemcmpFilter struct {
	Offset int
	Bytes  string // base58
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	Pubkey  string
	Account AccountInfo
}

// FirstSigner returns the fee payer (first account key), or "".
func (t *Transaction) FirstSigner() string {
	if t == nil || t.Message == nil || len(t.Message.AccountKeys) == 0 {
		return ""
	}
	return t.Message.AccountKeys[0]
}

// Failed reports whether the transaction errored on-chain.
func (t *Transaction) Failed() bool {
	return t != nil && t.Meta != nil && t.Meta.Err != nil
}
