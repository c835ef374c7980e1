package decode

// pump.fun bonding curve account: 8-byte anchor discriminator followed by
// five u64 reserve fields and the completion flag. Newer program versions
// append the creator pubkey.
const (
	curveVirtualTokenOffset = 8
	curveVirtualSolOffset   = 16
	curveRealTokenOffset    = 24
	curveRealSolOffset      = 32
	curveTotalSupplyOffset  = 40
	curveCompleteOffset     = 48
	curveCreatorOffset      = 49

	curveMinLen        = 49
	curveWithCreatorLen = 81
)

// BondingCurve is the decoded pump.fun curve state.
type BondingCurve struct {
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
	Creator              string // "" on older curve accounts without the field
}

// Progress returns curve completion in [0,1]: the share of the curve's
// sellable allocation already bought. A completed curve reports 1.
func (c *BondingCurve) Progress() float64 {
	if c.Complete {
		return 1
	}
	if c.TokenTotalSupply == 0 {
		return 0
	}
	// ~79.3% of total supply is allocated to the curve; the rest is reserved
	// for the graduation migration.
	curveAllocation := float64(c.TokenTotalSupply) * 0.793
	if curveAllocation <= 0 {
		return 0
	}
	sold := curveAllocation - float64(c.RealTokenReserves)
	if sold < 0 {
		return 0
	}
	p := sold / curveAllocation
	if p > 1 {
		p = 1
	}
	return p
}

// DecodeBondingCurve parses a pump.fun bonding curve account.
func DecodeBondingCurve(data []byte) (*BondingCurve, bool) {
	if len(data) < curveMinLen {
		return nil, false
	}

	c := &BondingCurve{
		VirtualTokenReserves: readU64(data, curveVirtualTokenOffset),
		VirtualSolReserves:   readU64(data, curveVirtualSolOffset),
		RealTokenReserves:    readU64(data, curveRealTokenOffset),
		RealSolReserves:      readU64(data, curveRealSolOffset),
		TokenTotalSupply:     readU64(data, curveTotalSupplyOffset),
		Complete:             data[curveCompleteOffset] == 1,
	}

	if len(data) >= curveWithCreatorLen {
		c.Creator = readPubkey(data, curveCreatorOffset)
	}

	return c, true
}
