package decode

import "strings"

// Metaplex metadata account: key u8 | update authority 32 | mint 32,
// then borsh strings (u32 length prefix) for name, symbol, uri.
const (
	metaUpdateAuthorityOffset = 1
	metaMintOffset            = 33
	metaNameOffset            = 65

	metaMaxNameLen   = 32
	metaMaxSymbolLen = 20
	metaMaxURILen    = 200
)

// Metadata is the decoded on-chain token metadata.
type Metadata struct {
	UpdateAuthority string
	Mint            string
	Name            string
	Symbol          string
	URI             string
}

// DecodeMetadata parses a Metaplex token metadata account.
func DecodeMetadata(data []byte) (*Metadata, bool) {
	if len(data) < metaNameOffset+4 {
		return nil, false
	}

	m := &Metadata{
		UpdateAuthority: readPubkey(data, metaUpdateAuthorityOffset),
		Mint:            readPubkey(data, metaMintOffset),
	}

	offset := metaNameOffset

	name, next, ok := readBorshString(data, offset, metaMaxNameLen)
	if !ok {
		return nil, false
	}
	m.Name = name
	offset = next

	symbol, next, ok := readBorshString(data, offset, metaMaxSymbolLen)
	if !ok {
		// Name alone is still useful.
		return m, true
	}
	m.Symbol = symbol
	offset = next

	if uri, _, ok := readBorshString(data, offset, metaMaxURILen); ok {
		m.URI = uri
	}

	return m, true
}

// readBorshString reads a u32-length-prefixed string, trimming NUL padding.
// maxLen rejects obviously corrupt lengths before slicing.
func readBorshString(data []byte, offset, maxLen int) (string, int, bool) {
	if offset+4 > len(data) {
		return "", 0, false
	}
	strLen := int(readU32(data, offset))
	offset += 4

	if strLen > maxLen || offset+strLen > len(data) {
		return "", 0, false
	}
	s := strings.TrimRight(string(data[offset:offset+strLen]), "\x00")
	return s, offset + strLen, true
}
