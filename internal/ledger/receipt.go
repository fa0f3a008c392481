package ledger

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"MintGate/internal/types"
)

// receiptKeyPrefix is the storage prefix for transaction receipts.
var receiptKeyPrefix = []byte("x:")

// Receipt records the outcome of one executed transaction.
type Receipt struct {
	Hash       Hash   // Hash is the transaction hash
	OK         bool   // OK is true if every instruction succeeded and effects were committed
	Code       string // Code is the failure kind, empty on success
	Message    string // Message is the full failure description
	ExecutedAt uint64 // ExecutedAt is the unix time of execution
}

// makeReceiptKey builds the storage key for a receipt: "x:" + hash.
func makeReceiptKey(hash Hash) []byte {
	key := make([]byte, len(receiptKeyPrefix)+len(hash))
	copy(key, receiptKeyPrefix)
	copy(key[len(receiptKeyPrefix):], hash[:])

	return key
}

// encodeReceipt serializes a receipt as a FlatBuffers Receipt table.
func encodeReceipt(r *Receipt) []byte {
	builder := flatbuffers.NewBuilder(128)

	hashVec := builder.CreateByteVector(r.Hash[:])
	codeOff := builder.CreateString(r.Code)
	msgOff := builder.CreateString(r.Message)

	types.ReceiptStart(builder)
	types.ReceiptAddHash(builder, hashVec)
	types.ReceiptAddOk(builder, r.OK)
	types.ReceiptAddCode(builder, codeOff)
	types.ReceiptAddMessage(builder, msgOff)
	types.ReceiptAddExecutedAt(builder, r.ExecutedAt)
	builder.Finish(types.ReceiptEnd(builder))

	return builder.FinishedBytes()
}

// decodeReceipt parses a FlatBuffers Receipt.
func decodeReceipt(data []byte) (rec *Receipt, err error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("receipt too short: %d bytes", len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("malformed receipt: %v", r)
		}
	}()

	fb := types.GetRootAsReceipt(data, 0)

	hash, err := HashFromBytes(fb.HashBytes())
	if err != nil {
		return nil, fmt.Errorf("receipt hash:\n%w", err)
	}

	return &Receipt{
		Hash:       hash,
		OK:         fb.Ok(),
		Code:       string(fb.Code()),
		Message:    string(fb.Message()),
		ExecutedAt: fb.ExecutedAt(),
	}, nil
}
