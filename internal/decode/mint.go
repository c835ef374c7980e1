package decode

// SPL mint account layout offsets.
// COption<Pubkey> is a u32 tag (0|1) followed by 32 key bytes.
const (
	mintAuthorityTagOffset   = 0
	mintAuthorityKeyOffset   = 4
	mintSupplyOffset         = 36
	mintDecimalsOffset       = 44
	mintInitializedOffset    = 45
	freezeAuthorityTagOffset = 46
	freezeAuthorityKeyOffset = 50

	// MintAccountLen is the size of a standard SPL mint account.
	MintAccountLen = 82
)

// MintAccount is the decoded fungible-token mint state.
type MintAccount struct {
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	MintAuthority   string // "" when revoked
	FreezeAuthority string // "" when revoked
}

// MintRevoked reports whether new supply can no longer be issued.
func (m *MintAccount) MintRevoked() bool { return m.MintAuthority == "" }

// FreezeRevoked reports whether account freezing is permanently disabled.
func (m *MintAccount) FreezeRevoked() bool { return m.FreezeAuthority == "" }

// UISupply converts raw supply to a decimal-adjusted amount.
func (m *MintAccount) UISupply() float64 {
	supply := float64(m.Supply)
	for i := uint8(0); i < m.Decimals; i++ {
		supply /= 10
	}
	return supply
}

// DecodeMint parses a standard SPL mint account. Token-2022 mints carry the
// same base layout; extension records past byte 82 are handled separately
// by DecodeMintExtensions.
func DecodeMint(data []byte) (*MintAccount, bool) {
	if len(data) < MintAccountLen {
		return nil, false
	}

	m := &MintAccount{
		Supply:      readU64(data, mintSupplyOffset),
		Decimals:    data[mintDecimalsOffset],
		Initialized: data[mintInitializedOffset] == 1,
	}

	if readU32(data, mintAuthorityTagOffset) == 1 {
		m.MintAuthority = readPubkey(data, mintAuthorityKeyOffset)
	}
	if readU32(data, freezeAuthorityTagOffset) == 1 {
		m.FreezeAuthority = readPubkey(data, freezeAuthorityKeyOffset)
	}

	return m, true
}

// Token account layout: mint(32) | owner(32) | amount u64.
const (
	tokenAccountOwnerOffset  = 32
	tokenAccountAmountOffset = 64
	tokenAccountMinLen       = 72
)

// TokenAccount is the decoded SPL token holding account.
type TokenAccount struct {
	Mint   string
	Owner  string
	Amount uint64
}

// DecodeTokenAccount parses an SPL token account.
func DecodeTokenAccount(data []byte) (*TokenAccount, bool) {
	if len(data) < tokenAccountMinLen {
		return nil, false
	}
	return &TokenAccount{
		Mint:   readPubkey(data, 0),
		Owner:  readPubkey(data, tokenAccountOwnerOffset),
		Amount: readU64(data, tokenAccountAmountOffset),
	}, true
}
