package decode

import (
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
)

// testKey returns a deterministic 32-byte key filled with b.
func testKey(b byte) []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = b
	}
	return key
}

func buildMint(mintAuth, freezeAuth []byte, supply uint64, decimals uint8) []byte {
	data := make([]byte, MintAccountLen)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(data[0:], 1)
		copy(data[4:36], mintAuth)
	}
	binary.LittleEndian.PutUint64(data[36:], supply)
	data[44] = decimals
	data[45] = 1 // initialized
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(data[46:], 1)
		copy(data[50:82], freezeAuth)
	}
	return data
}

func TestDecodeMint_RevokedAuthorities(t *testing.T) {
	m, ok := DecodeMint(buildMint(nil, nil, 1_000_000_000, 6))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if !m.MintRevoked() {
		t.Error("expected mint authority revoked")
	}
	if !m.FreezeRevoked() {
		t.Error("expected freeze authority revoked")
	}
	if m.Supply != 1_000_000_000 {
		t.Errorf("supply mismatch: got %d", m.Supply)
	}
	if m.UISupply() != 1000 {
		t.Errorf("ui supply mismatch: got %f", m.UISupply())
	}
}

func TestDecodeMint_ActiveAuthorities(t *testing.T) {
	auth := testKey(7)
	m, ok := DecodeMint(buildMint(auth, auth, 5, 0))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if m.MintRevoked() {
		t.Error("expected active mint authority")
	}
	if m.MintAuthority != base58.Encode(auth) {
		t.Errorf("mint authority mismatch: got %s", m.MintAuthority)
	}
	if m.FreezeRevoked() {
		t.Error("expected active freeze authority")
	}
}

func TestDecodeMint_ShortBuffer(t *testing.T) {
	if _, ok := DecodeMint(make([]byte, MintAccountLen-1)); ok {
		t.Error("expected short buffer to fail")
	}
	if _, ok := DecodeMint(nil); ok {
		t.Error("expected nil buffer to fail")
	}
}

func TestDecodeTokenAccount(t *testing.T) {
	data := make([]byte, 165)
	copy(data[0:32], testKey(1))
	copy(data[32:64], testKey(2))
	binary.LittleEndian.PutUint64(data[64:], 42)

	acct, ok := DecodeTokenAccount(data)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if acct.Amount != 42 {
		t.Errorf("amount mismatch: got %d", acct.Amount)
	}
	if acct.Mint != base58.Encode(testKey(1)) {
		t.Errorf("mint mismatch: got %s", acct.Mint)
	}

	if _, ok := DecodeTokenAccount(make([]byte, 71)); ok {
		t.Error("expected short buffer to fail")
	}
}

func TestDecodePool(t *testing.T) {
	data := make([]byte, PoolAccountLen)
	binary.LittleEndian.PutUint64(data[0:], 6) // status
	copy(data[poolBaseMintOffset:], testKey(3))
	copy(data[poolLPMintOffset:], testKey(4))
	binary.LittleEndian.PutUint64(data[poolLPReserveOffset:], 999)

	p, ok := DecodePool(data)
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if p.Status != 6 {
		t.Errorf("status mismatch: got %d", p.Status)
	}
	if p.LPMint != base58.Encode(testKey(4)) {
		t.Errorf("lp mint mismatch: got %s", p.LPMint)
	}
	if p.LPReserve != 999 {
		t.Errorf("lp reserve mismatch: got %d", p.LPReserve)
	}

	if _, ok := DecodePool(make([]byte, PoolAccountLen-1)); ok {
		t.Error("expected short buffer to fail")
	}
}

func buildCurve(virtualSol, realToken, totalSupply uint64, complete bool, creator []byte) []byte {
	size := curveMinLen
	if creator != nil {
		size = curveWithCreatorLen
	}
	data := make([]byte, size)
	binary.LittleEndian.PutUint64(data[curveVirtualTokenOffset:], 1_073_000_000_000_000)
	binary.LittleEndian.PutUint64(data[curveVirtualSolOffset:], virtualSol)
	binary.LittleEndian.PutUint64(data[curveRealTokenOffset:], realToken)
	binary.LittleEndian.PutUint64(data[curveTotalSupplyOffset:], totalSupply)
	if complete {
		data[curveCompleteOffset] = 1
	}
	if creator != nil {
		copy(data[curveCreatorOffset:], creator)
	}
	return data
}

func TestDecodeBondingCurve(t *testing.T) {
	creator := testKey(9)
	c, ok := DecodeBondingCurve(buildCurve(30_000_000_000, 793_100_000_000_000, 1_000_000_000_000_000, false, creator))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if c.Complete {
		t.Error("expected incomplete curve")
	}
	if c.Creator != base58.Encode(creator) {
		t.Errorf("creator mismatch: got %s", c.Creator)
	}
	if p := c.Progress(); p < 0 || p > 0.01 {
		t.Errorf("expected ~0 progress for full reserves, got %f", p)
	}
}

func TestDecodeBondingCurve_NoCreatorField(t *testing.T) {
	c, ok := DecodeBondingCurve(buildCurve(0, 0, 1_000_000_000_000_000, true, nil))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if !c.Complete {
		t.Error("expected complete curve")
	}
	if c.Creator != "" {
		t.Errorf("expected empty creator, got %s", c.Creator)
	}
	if c.Progress() != 1 {
		t.Errorf("complete curve should report progress 1, got %f", c.Progress())
	}

	if _, ok := DecodeBondingCurve(make([]byte, curveMinLen-1)); ok {
		t.Error("expected short buffer to fail")
	}
}

// buildExtendedMint builds a Token-2022 mint with a TransferFeeConfig record.
func buildExtendedMint(feeBps uint16, maxFee uint64) []byte {
	data := make([]byte, tlvFirstRecordOffset+4+feeConfigValueLen+4)
	data[45] = 1 // initialized
	data[tlvAccountTypeOffset] = accountTypeMint

	binary.LittleEndian.PutUint16(data[tlvFirstRecordOffset:], extensionTransferFeeConfig)
	binary.LittleEndian.PutUint16(data[tlvFirstRecordOffset+2:], feeConfigValueLen)

	value := data[tlvFirstRecordOffset+4:]
	copy(value[feeConfigAuthorityOffset:], testKey(5))
	binary.LittleEndian.PutUint64(value[feeNewerMaxOffset:], maxFee)
	binary.LittleEndian.PutUint16(value[feeNewerBpsOffset:], feeBps)
	// Trailing zero type/length terminates the walk.
	return data
}

func TestDecodeMintExtensions_StandardMint(t *testing.T) {
	ext := DecodeMintExtensions(buildMint(nil, nil, 1, 6))
	if ext.HasTransferFee {
		t.Error("standard mint must not report a transfer fee")
	}
	if len(ext.Extensions) != 0 {
		t.Errorf("standard mint must have no extensions, got %v", ext.Extensions)
	}
}

func TestDecodeMintExtensions_TransferFee(t *testing.T) {
	ext := DecodeMintExtensions(buildExtendedMint(2500, 5_000_000))
	if !ext.HasTransferFee {
		t.Fatal("expected transfer fee extension")
	}
	if ext.FeeBasisPoints != 2500 {
		t.Errorf("fee bps mismatch: got %d", ext.FeeBasisPoints)
	}
	if ext.MaxFee != 5_000_000 {
		t.Errorf("max fee mismatch: got %d", ext.MaxFee)
	}
	if ext.FeeAuthority == "" {
		t.Error("expected fee authority set")
	}
	if len(ext.Extensions) != 1 || ext.Extensions[0] != "transferFeeConfig" {
		t.Errorf("extension list mismatch: %v", ext.Extensions)
	}
}

func TestDecodeMintExtensions_ZeroFee(t *testing.T) {
	ext := DecodeMintExtensions(buildExtendedMint(0, 0))
	if !ext.HasTransferFee {
		t.Fatal("fee config with zero bps is still a fee extension")
	}
	if ext.FeeBasisPoints != 0 {
		t.Errorf("fee bps mismatch: got %d", ext.FeeBasisPoints)
	}
}

func TestDecodeMintExtensions_TruncatedRecord(t *testing.T) {
	data := buildExtendedMint(100, 0)
	// Claim a value longer than the buffer; the walk must stop cleanly.
	binary.LittleEndian.PutUint16(data[tlvFirstRecordOffset+2:], 60000)
	ext := DecodeMintExtensions(data)
	if ext.HasTransferFee {
		t.Error("truncated record must not produce a fee config")
	}
}

func buildMetadata(name, symbol, uri string) []byte {
	data := make([]byte, 0, 256)
	data = append(data, 4) // key: MetadataV1
	data = append(data, testKey(1)...)
	data = append(data, testKey(2)...)
	for _, s := range []string{name, symbol, uri} {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(s)))
		data = append(data, lenBuf...)
		data = append(data, []byte(s)...)
	}
	return data
}

func TestDecodeMetadata(t *testing.T) {
	m, ok := DecodeMetadata(buildMetadata("My Token\x00\x00", "MTK\x00", "https://example.com/meta.json"))
	if !ok {
		t.Fatal("expected decode to succeed")
	}
	if m.Name != "My Token" {
		t.Errorf("name mismatch: got %q", m.Name)
	}
	if m.Symbol != "MTK" {
		t.Errorf("symbol mismatch: got %q", m.Symbol)
	}
	if m.URI != "https://example.com/meta.json" {
		t.Errorf("uri mismatch: got %q", m.URI)
	}
}

func TestDecodeMetadata_ShortBuffer(t *testing.T) {
	if _, ok := DecodeMetadata(make([]byte, 40)); ok {
		t.Error("expected short buffer to fail")
	}
}
