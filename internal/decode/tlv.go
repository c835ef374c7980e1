package decode

// Token-2022 extension account layout: the 82-byte base mint, padding up to
// the account-type byte at 165, then TLV records from 166 onward.
// Each record: extension type u16 LE, value length u16 LE, value bytes.
const (
	tlvAccountTypeOffset = 165
	tlvFirstRecordOffset = 166

	accountTypeMint = 1

	extensionTransferFeeConfig = 1
)

// Offsets inside the TransferFeeConfig extension value. The config carries
// two fee epochs; the newer one holds the currently effective fee.
const (
	feeConfigAuthorityOffset   = 0
	feeWithdrawAuthorityOffset = 32
	feeOlderEpochOffset        = 72
	feeNewerEpochOffset        = 90
	feeNewerMaxOffset          = 98
	feeNewerBpsOffset          = 106
	feeConfigValueLen          = 108
)

// extensionNames maps Token-2022 extension type ids to readable names.
var extensionNames = map[uint16]string{
	1:  "transferFeeConfig",
	2:  "transferFeeAmount",
	3:  "mintCloseAuthority",
	4:  "confidentialTransferMint",
	6:  "defaultAccountState",
	7:  "immutableOwner",
	8:  "memoTransfer",
	9:  "nonTransferable",
	10: "interestBearingConfig",
	11: "cpiGuard",
	12: "permanentDelegate",
	14: "transferHook",
	18: "metadataPointer",
	19: "tokenMetadata",
	20: "groupPointer",
	22: "groupMemberPointer",
}

// MintExtensions summarizes the Token-2022 extension records on a mint.
type MintExtensions struct {
	Extensions []string // readable names, in record order

	HasTransferFee  bool
	FeeBasisPoints  int    // currently effective fee, basis points
	MaxFee          uint64 // raw-unit cap per transfer; 0 = uncapped semantics not used
	FeeAuthority    string // "" when the fee can never be changed
	WithdrawAuthority string
}

// DecodeMintExtensions walks the TLV records of an extended mint account.
// A standard 82-byte mint (or anything shorter than the extension header)
// yields an empty summary: having no extensions is not a decode failure.
func DecodeMintExtensions(data []byte) *MintExtensions {
	ext := &MintExtensions{}

	if len(data) <= tlvAccountTypeOffset {
		return ext
	}
	if data[tlvAccountTypeOffset] != accountTypeMint {
		return ext
	}

	offset := tlvFirstRecordOffset
	for offset+4 <= len(data) {
		extType := readU16(data, offset)
		extLen := int(readU16(data, offset+2))

		// Zero type and length terminates the record list.
		if extType == 0 && extLen == 0 {
			break
		}

		if name, ok := extensionNames[extType]; ok {
			ext.Extensions = append(ext.Extensions, name)
		}

		valueStart := offset + 4
		if valueStart+extLen > len(data) {
			break
		}

		if extType == extensionTransferFeeConfig && !ext.HasTransferFee && extLen >= feeConfigValueLen {
			value := data[valueStart : valueStart+extLen]
			ext.HasTransferFee = true
			ext.FeeBasisPoints = int(readU16(value, feeNewerBpsOffset))
			ext.MaxFee = readU64(value, feeNewerMaxOffset)
			ext.FeeAuthority = nonZeroPubkey(value, feeConfigAuthorityOffset)
			ext.WithdrawAuthority = nonZeroPubkey(value, feeWithdrawAuthorityOffset)
		}

		offset = valueStart + extLen
	}

	return ext
}

// nonZeroPubkey reads a pubkey and maps the all-zero key to "".
func nonZeroPubkey(data []byte, offset int) string {
	if offset < 0 || offset+pubkeyLen > len(data) {
		return ""
	}
	allZero := true
	for _, b := range data[offset : offset+pubkeyLen] {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return ""
	}
	return readPubkey(data, offset)
}
