package ledger

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte identifier: record addresses, program ids,
// ed25519 public keys and transaction hashes share this shape.
type Hash [32]byte

// addressMarker ends every derived-address preimage so that a derived
// address can never equal a blake3 digest computed for another purpose.
var addressMarker = []byte("MintGate/DerivedAddress")

// String returns the full hex encoding.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 8 bytes in hex, for logs.
func (h Hash) Short() string {
	return hex.EncodeToString(h[:8])
}

// IsZero reports whether h is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// HashFromBytes copies a 32-byte slice into a Hash.
func HashFromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != len(h) {
		return h, fmt.Errorf("invalid hash length: got %d, want %d", len(b), len(h))
	}

	copy(h[:], b)

	return h, nil
}

// ParseHash decodes a 64-character hex string.
func ParseHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("decode hex:\n%w", err)
	}

	return HashFromBytes(b)
}

// ProgramID returns the fixed id of a built-in program.
func ProgramID(name string) Hash {
	return blake3.Sum256([]byte("MintGate/Program/" + name))
}

// DeriveAddress computes the deterministic address for seeds under program.
// Each seed is length-prefixed so ("ab","c") and ("a","bc") never collide.
func DeriveAddress(program Hash, seeds ...[]byte) Hash {
	hasher := blake3.New()

	var lenBuf [4]byte
	for _, seed := range seeds {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(seed)))
		hasher.Write(lenBuf[:])
		hasher.Write(seed)
	}

	hasher.Write(program[:])
	hasher.Write(addressMarker)

	var addr Hash
	hasher.Sum(addr[:0])

	return addr
}
