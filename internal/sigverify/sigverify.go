// Package sigverify is the host's ed25519 signature-check program.
//
// A sigverify instruction carries one or more (public key, message,
// signature) triples. If any signature is invalid the enclosing transaction
// fails, so later instructions in the same transaction may rely on the
// check having passed. Programs that depend on it must still inspect the
// instruction with ParseOffsets and Resolve to confirm it covers the key and
// message they expect.
//
// Instruction data layout (little-endian):
//
//	count u8 | padding u8 | count x Offsets (7 x u16) | payload
//
// An instruction index of SelfInstruction refers to the sigverify
// instruction's own data.
package sigverify

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"MintGate/internal/ledger"
)

const (
	// SelfInstruction marks an offset as pointing into the same instruction.
	SelfInstruction = 0xFFFF

	// MaxSignatures bounds the entries in one instruction.
	MaxSignatures = 8

	// offsetsStart is where the first Offsets entry begins.
	offsetsStart = 2

	// offsetsSize is the encoded size of one Offsets entry.
	offsetsSize = 14
)

var (
	// ErrInvalidData is returned when instruction data does not follow the layout.
	ErrInvalidData = errors.New("invalid signature-check data")

	// ErrInvalidSignature is returned when a signature does not verify.
	ErrInvalidSignature = errors.New("signature verification failed")
)

// ProgramID is the id under which the signature-check program is registered.
var ProgramID = ledger.ProgramID("ed25519-sigverify")

// Offsets locates one signature, public key and message.
type Offsets struct {
	SignatureOffset      uint16 // SignatureOffset is the start of the 64-byte signature
	SignatureInstruction uint16 // SignatureInstruction is the instruction holding the signature
	PublicKeyOffset      uint16 // PublicKeyOffset is the start of the 32-byte public key
	PublicKeyInstruction uint16 // PublicKeyInstruction is the instruction holding the key
	MessageOffset        uint16 // MessageOffset is the start of the message
	MessageSize          uint16 // MessageSize is the message length
	MessageInstruction   uint16 // MessageInstruction is the instruction holding the message
}

// SelfContained reports whether every field points into the same instruction.
func (o Offsets) SelfContained() bool {
	return o.SignatureInstruction == SelfInstruction &&
		o.PublicKeyInstruction == SelfInstruction &&
		o.MessageInstruction == SelfInstruction
}

// NewInstructionData builds a single self-contained entry.
// Payload: public key at 16, signature at 48, message at 112.
func NewInstructionData(pub ed25519.PublicKey, msg, sig []byte) []byte {
	pubOffset := offsetsStart + offsetsSize
	sigOffset := pubOffset + ed25519.PublicKeySize
	msgOffset := sigOffset + ed25519.SignatureSize

	data := make([]byte, msgOffset+len(msg))
	data[0] = 1

	putOffsets(data[offsetsStart:], Offsets{
		SignatureOffset:      uint16(sigOffset),
		SignatureInstruction: SelfInstruction,
		PublicKeyOffset:      uint16(pubOffset),
		PublicKeyInstruction: SelfInstruction,
		MessageOffset:        uint16(msgOffset),
		MessageSize:          uint16(len(msg)),
		MessageInstruction:   SelfInstruction,
	})

	copy(data[pubOffset:], pub)
	copy(data[sigOffset:], sig)
	copy(data[msgOffset:], msg)

	return data
}

// NewInstruction wraps NewInstructionData in a ledger instruction.
func NewInstruction(pub ed25519.PublicKey, msg, sig []byte) ledger.Instruction {
	return ledger.Instruction{
		Program: ProgramID,
		Data:    NewInstructionData(pub, msg, sig),
	}
}

// putOffsets writes o into b (at least offsetsSize bytes).
func putOffsets(b []byte, o Offsets) {
	binary.LittleEndian.PutUint16(b[0:], o.SignatureOffset)
	binary.LittleEndian.PutUint16(b[2:], o.SignatureInstruction)
	binary.LittleEndian.PutUint16(b[4:], o.PublicKeyOffset)
	binary.LittleEndian.PutUint16(b[6:], o.PublicKeyInstruction)
	binary.LittleEndian.PutUint16(b[8:], o.MessageOffset)
	binary.LittleEndian.PutUint16(b[10:], o.MessageSize)
	binary.LittleEndian.PutUint16(b[12:], o.MessageInstruction)
}

// ParseOffsets reads the entry table of a sigverify instruction.
func ParseOffsets(data []byte) ([]Offsets, error) {
	if len(data) < offsetsStart {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidData, len(data))
	}

	count := int(data[0])
	if count == 0 || count > MaxSignatures {
		return nil, fmt.Errorf("%w: %d signatures", ErrInvalidData, count)
	}

	if len(data) < offsetsStart+count*offsetsSize {
		return nil, fmt.Errorf("%w: truncated offsets", ErrInvalidData)
	}

	entries := make([]Offsets, count)
	for i := range entries {
		b := data[offsetsStart+i*offsetsSize:]
		entries[i] = Offsets{
			SignatureOffset:      binary.LittleEndian.Uint16(b[0:]),
			SignatureInstruction: binary.LittleEndian.Uint16(b[2:]),
			PublicKeyOffset:      binary.LittleEndian.Uint16(b[4:]),
			PublicKeyInstruction: binary.LittleEndian.Uint16(b[6:]),
			MessageOffset:        binary.LittleEndian.Uint16(b[8:]),
			MessageSize:          binary.LittleEndian.Uint16(b[10:]),
			MessageInstruction:   binary.LittleEndian.Uint16(b[12:]),
		}
	}

	return entries, nil
}

// FetchFunc returns the data of the instruction at index.
type FetchFunc func(index uint16) ([]byte, error)

// Resolve returns the public key, signature and message an entry points at.
// self is the sigverify instruction's own data; fetch is consulted for other
// instructions and may be nil when only self-contained entries are accepted.
func Resolve(self []byte, o Offsets, fetch FetchFunc) (pub, sig, msg []byte, err error) {
	if pub, err = locate(self, o.PublicKeyInstruction, o.PublicKeyOffset, ed25519.PublicKeySize, fetch); err != nil {
		return nil, nil, nil, fmt.Errorf("public key:\n%w", err)
	}

	if sig, err = locate(self, o.SignatureInstruction, o.SignatureOffset, ed25519.SignatureSize, fetch); err != nil {
		return nil, nil, nil, fmt.Errorf("signature:\n%w", err)
	}

	if msg, err = locate(self, o.MessageInstruction, o.MessageOffset, int(o.MessageSize), fetch); err != nil {
		return nil, nil, nil, fmt.Errorf("message:\n%w", err)
	}

	return pub, sig, msg, nil
}

// locate slices size bytes at offset from the instruction at index.
func locate(self []byte, index, offset uint16, size int, fetch FetchFunc) ([]byte, error) {
	data := self

	if index != SelfInstruction {
		if fetch == nil {
			return nil, fmt.Errorf("%w: cross-instruction reference %d", ErrInvalidData, index)
		}

		var err error
		if data, err = fetch(index); err != nil {
			return nil, err
		}
	}

	end := int(offset) + size
	if end > len(data) {
		return nil, fmt.Errorf("%w: range %d..%d exceeds %d bytes", ErrInvalidData, offset, end, len(data))
	}

	return data[offset:end], nil
}

// Program verifies every entry of a sigverify instruction.
type Program struct{}

// Process fails with ErrInvalidSignature if any entry does not verify.
func (Program) Process(ctx *ledger.Context, data []byte) error {
	entries, err := ParseOffsets(data)
	if err != nil {
		return err
	}

	fetch := func(index uint16) ([]byte, error) {
		ins, err := ctx.Instruction(int(index))
		if err != nil {
			return nil, err
		}
		return ins.Data, nil
	}

	for i, entry := range entries {
		pub, sig, msg, err := Resolve(data, entry, fetch)
		if err != nil {
			return fmt.Errorf("entry %d:\n%w", i, err)
		}

		if !ed25519.Verify(pub, msg, sig) {
			return fmt.Errorf("%w: entry %d", ErrInvalidSignature, i)
		}
	}

	return nil
}

// Code maps sigverify errors to receipt codes.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		return "SignatureCheckFailed"
	case errors.Is(err, ErrInvalidData):
		return "SignatureCheckMalformed"
	default:
		return ""
	}
}
