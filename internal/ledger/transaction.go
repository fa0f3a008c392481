package ledger

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/zeebo/blake3"

	"MintGate/internal/types"
)

const (
	// MaxInstructions bounds the number of instructions in one transaction.
	MaxInstructions = 16

	// MaxInstructionData bounds a single instruction's payload.
	MaxInstructionData = 4096
)

// Instruction is one step of a transaction, dispatched to Program.
type Instruction struct {
	Program Hash   // Program is the id of the program that processes Data
	Data    []byte // Data is the program-specific payload
}

// Transaction is a signed, ordered batch of instructions executed atomically.
type Transaction struct {
	Hash         Hash          // Hash is the blake3 digest of the unsigned encoding
	Signer       Hash          // Signer is the ed25519 public key of the caller
	Signature    []byte        // Signature is the signer's signature over Hash
	Nonce        uint64        // Nonce distinguishes otherwise identical transactions
	Instructions []Instruction // Instructions run in order
}

// BuildTransaction signs instructions with priv and returns the encoded transaction.
func BuildTransaction(priv ed25519.PrivateKey, nonce uint64, instructions []Instruction) []byte {
	var signer Hash
	copy(signer[:], priv.Public().(ed25519.PublicKey))

	hash := hashUnsigned(signer, nonce, instructions)
	sig := ed25519.Sign(priv, hash[:])

	return encodeTransaction(&Transaction{
		Hash:         hash,
		Signer:       signer,
		Signature:    sig,
		Nonce:        nonce,
		Instructions: instructions,
	})
}

// hashUnsigned computes the canonical transaction hash.
// Format: signer (32) + nonce u64 LE + u32 count + per instruction: program (32) + u32 len + data
func hashUnsigned(signer Hash, nonce uint64, instructions []Instruction) Hash {
	hasher := blake3.New()

	var buf [8]byte
	hasher.Write(signer[:])

	binary.LittleEndian.PutUint64(buf[:], nonce)
	hasher.Write(buf[:])

	binary.LittleEndian.PutUint32(buf[:4], uint32(len(instructions)))
	hasher.Write(buf[:4])

	for _, ins := range instructions {
		hasher.Write(ins.Program[:])
		binary.LittleEndian.PutUint32(buf[:4], uint32(len(ins.Data)))
		hasher.Write(buf[:4])
		hasher.Write(ins.Data)
	}

	var hash Hash
	hasher.Sum(hash[:0])

	return hash
}

// encodeTransaction serializes tx as a FlatBuffers Transaction table.
func encodeTransaction(tx *Transaction) []byte {
	builder := flatbuffers.NewBuilder(512)

	insOffsets := make([]flatbuffers.UOffsetT, len(tx.Instructions))
	for i, ins := range tx.Instructions {
		programVec := builder.CreateByteVector(ins.Program[:])
		dataVec := builder.CreateByteVector(ins.Data)

		types.InstructionStart(builder)
		types.InstructionAddProgram(builder, programVec)
		types.InstructionAddData(builder, dataVec)
		insOffsets[i] = types.InstructionEnd(builder)
	}

	types.TransactionStartInstructionsVector(builder, len(insOffsets))
	for i := len(insOffsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(insOffsets[i])
	}
	insVec := builder.EndVector(len(insOffsets))

	hashVec := builder.CreateByteVector(tx.Hash[:])
	signerVec := builder.CreateByteVector(tx.Signer[:])
	sigVec := builder.CreateByteVector(tx.Signature)

	types.TransactionStart(builder)
	types.TransactionAddHash(builder, hashVec)
	types.TransactionAddSigner(builder, signerVec)
	types.TransactionAddSignature(builder, sigVec)
	types.TransactionAddNonce(builder, tx.Nonce)
	types.TransactionAddInstructions(builder, insVec)
	builder.Finish(types.TransactionEnd(builder))

	return builder.FinishedBytes()
}

// DecodeTransaction parses and authenticates an encoded transaction.
// The hash is recomputed from the decoded fields and the signature verified
// against the signer; malformed input never panics.
func DecodeTransaction(data []byte) (*Transaction, error) {
	tx, err := parseTransaction(data)
	if err != nil {
		return nil, err
	}

	if expected := hashUnsigned(tx.Signer, tx.Nonce, tx.Instructions); expected != tx.Hash {
		return nil, fmt.Errorf("%w: hash mismatch", ErrMalformedTransaction)
	}

	if !ed25519.Verify(tx.Signer[:], tx.Hash[:], tx.Signature) {
		return nil, ErrInvalidSignature
	}

	return tx, nil
}

// parseTransaction extracts fields from FlatBuffers bytes and checks their shapes.
func parseTransaction(data []byte) (tx *Transaction, err error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedTransaction, len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			tx, err = nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, r)
		}
	}()

	fb := types.GetRootAsTransaction(data, 0)
	tx = &Transaction{Nonce: fb.Nonce()}

	if tx.Hash, err = HashFromBytes(fb.HashBytes()); err != nil {
		return nil, fmt.Errorf("%w: hash:\n%v", ErrMalformedTransaction, err)
	}

	if tx.Signer, err = HashFromBytes(fb.SignerBytes()); err != nil {
		return nil, fmt.Errorf("%w: signer:\n%v", ErrMalformedTransaction, err)
	}

	sig := fb.SignatureBytes()
	if len(sig) != ed25519.SignatureSize {
		return nil, fmt.Errorf("%w: signature size %d", ErrMalformedTransaction, len(sig))
	}
	tx.Signature = append([]byte(nil), sig...)

	count := fb.InstructionsLength()
	if count == 0 || count > MaxInstructions {
		return nil, fmt.Errorf("%w: %d instructions", ErrMalformedTransaction, count)
	}

	tx.Instructions = make([]Instruction, count)

	var ins types.Instruction
	for i := 0; i < count; i++ {
		if !fb.Instructions(&ins, i) {
			return nil, fmt.Errorf("%w: read instruction %d", ErrMalformedTransaction, i)
		}

		program, err := HashFromBytes(ins.ProgramBytes())
		if err != nil {
			return nil, fmt.Errorf("%w: instruction %d program:\n%v", ErrMalformedTransaction, i, err)
		}

		payload := ins.DataBytes()
		if len(payload) > MaxInstructionData {
			return nil, fmt.Errorf("%w: instruction %d data %d bytes", ErrMalformedTransaction, i, len(payload))
		}

		tx.Instructions[i] = Instruction{
			Program: program,
			Data:    append([]byte(nil), payload...),
		}
	}

	return tx, nil
}
