package ledger

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"

	"MintGate/internal/types"
)

// Record is a durable ledger entry stored at a deterministic address.
type Record struct {
	Address Hash   // Address is the record's storage key
	Owner   Hash   // Owner is the program allowed to update the record
	Kind    uint8  // Kind is a program-defined tag
	Version uint64 // Version starts at 1 and is bumped on every update
	Data    []byte // Data is the program-defined payload
}

// encodeRecord serializes a record as a FlatBuffers Record table.
func encodeRecord(r *Record) []byte {
	builder := flatbuffers.NewBuilder(64 + len(r.Data))

	idVec := builder.CreateByteVector(r.Address[:])
	ownerVec := builder.CreateByteVector(r.Owner[:])
	dataVec := builder.CreateByteVector(r.Data)

	types.RecordStart(builder)
	types.RecordAddId(builder, idVec)
	types.RecordAddOwner(builder, ownerVec)
	types.RecordAddVersion(builder, r.Version)
	types.RecordAddKind(builder, r.Kind)
	types.RecordAddData(builder, dataVec)
	builder.Finish(types.RecordEnd(builder))

	return builder.FinishedBytes()
}

// decodeRecord parses a FlatBuffers Record. Malformed input returns an error.
func decodeRecord(data []byte) (rec *Record, err error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("record too short: %d bytes", len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("malformed record: %v", r)
		}
	}()

	fb := types.GetRootAsRecord(data, 0)

	addr, err := HashFromBytes(fb.IdBytes())
	if err != nil {
		return nil, fmt.Errorf("record id:\n%w", err)
	}

	owner, err := HashFromBytes(fb.OwnerBytes())
	if err != nil {
		return nil, fmt.Errorf("record owner:\n%w", err)
	}

	payload := fb.DataBytes()
	dataCopy := make([]byte, len(payload))
	copy(dataCopy, payload)

	return &Record{
		Address: addr,
		Owner:   owner,
		Kind:    fb.Kind(),
		Version: fb.Version(),
		Data:    dataCopy,
	}, nil
}
