// Package decode parses raw Solana account bytes into typed summaries.
// All decoders are pure: callers fetch the bytes, decoders never do I/O.
// Short or structurally inconsistent buffers yield (nil, false), never a panic.
package decode

import (
	"encoding/binary"

	"github.com/mr-tron/base58"
)

const pubkeyLen = 32

// readPubkey base58-encodes the 32-byte public key at offset.
// Returns "" when the buffer is too short.
func readPubkey(data []byte, offset int) string {
	if offset < 0 || offset+pubkeyLen > len(data) {
		return ""
	}
	return base58.Encode(data[offset : offset+pubkeyLen])
}

// readU64 reads a little-endian uint64 at offset, zero when out of range.
func readU64(data []byte, offset int) uint64 {
	if offset < 0 || offset+8 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint64(data[offset : offset+8])
}

// readU32 reads a little-endian uint32 at offset, zero when out of range.
func readU32(data []byte, offset int) uint32 {
	if offset < 0 || offset+4 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint32(data[offset : offset+4])
}

// readU16 reads a little-endian uint16 at offset, zero when out of range.
func readU16(data []byte, offset int) uint16 {
	if offset < 0 || offset+2 > len(data) {
		return 0
	}
	return binary.LittleEndian.Uint16(data[offset : offset+2])
}
