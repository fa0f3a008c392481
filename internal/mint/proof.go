package mint

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"MintGate/internal/ledger"
)

// MessageSize is the length of an attestation message:
// minter (32) + collateral u64 LE + timestamp u64 LE.
const MessageSize = 48

// Proof is a validator's attestation that Minter deposited
// CollateralAmount on the collateral chain at Timestamp.
type Proof struct {
	Minter           ledger.Hash // Minter is the identity entitled to mint
	CollateralAmount uint64      // CollateralAmount is the attested deposit
	Timestamp        uint64      // Timestamp is the attestation's unix time
	SignatureHash    ledger.Hash // SignatureHash is Keccak-256 of the validator signature
	ValidatorIndex   uint32      // ValidatorIndex selects the signer in the registry
}

// Message returns the bytes the validator signs.
func (p *Proof) Message() []byte {
	return AttestationMessage(p.Minter, p.CollateralAmount, p.Timestamp)
}

// AttestationMessage encodes minter, collateral and timestamp as signed by validators.
func AttestationMessage(minter ledger.Hash, collateral, timestamp uint64) []byte {
	msg := make([]byte, MessageSize)
	copy(msg, minter[:])
	binary.LittleEndian.PutUint64(msg[32:], collateral)
	binary.LittleEndian.PutUint64(msg[40:], timestamp)

	return msg
}

// SignatureHash returns the Keccak-256 digest of a validator signature.
// It identifies the attestation for replay protection.
func SignatureHash(sig []byte) ledger.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(sig)

	var out ledger.Hash
	h.Sum(out[:0])

	return out
}
