// Package snapshot exports and restores the ledger's record state.
//
// A snapshot holds every record (32-byte key) sorted by address, plus a
// blake3 checksum over the canonical encoding. Receipts are not included:
// replay protection lives in lock records, which are.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"MintGate/internal/storage"
	"MintGate/internal/types"
)

const (
	// snapshotVersion is the current snapshot format version.
	snapshotVersion = 1

	// recordKeySize is the size of record keys.
	recordKeySize = 32
)

// entry holds a record's address and encoded bytes.
type entry struct {
	id   []byte
	data []byte
}

// Info summarizes an applied snapshot.
type Info struct {
	Version  uint32   // Version is the snapshot format version
	Records  int      // Records is the number of records restored
	Checksum [32]byte // Checksum is the verified blake3 checksum
}

// Create builds a snapshot of every record in db.
func Create(db *storage.Storage) ([]byte, error) {
	entries, err := collectRecords(db)
	if err != nil {
		return nil, fmt.Errorf("collect records:\n%w", err)
	}

	return build(entries), nil
}

// collectRecords iterates storage and returns all records, skipping receipts.
func collectRecords(db *storage.Storage) ([]entry, error) {
	var entries []entry

	err := db.Iterate(func(key, value []byte) error {
		if len(key) != recordKeySize {
			return nil
		}

		// Copy key and value to avoid iterator invalidation
		entries = append(entries, entry{
			id:   append([]byte(nil), key...),
			data: append([]byte(nil), value...),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// build creates the FlatBuffers snapshot with checksum.
func build(entries []entry) []byte {
	sortEntries(entries)
	checksum := computeChecksum(snapshotVersion, entries)

	builder := flatbuffers.NewBuilder(1024)

	offsets := make([]flatbuffers.UOffsetT, len(entries))
	for i, e := range entries {
		idOffset := builder.CreateByteVector(e.id)
		dataOffset := builder.CreateByteVector(e.data)

		types.SnapshotRecordStart(builder)
		types.SnapshotRecordAddId(builder, idOffset)
		types.SnapshotRecordAddData(builder, dataOffset)
		offsets[i] = types.SnapshotRecordEnd(builder)
	}

	types.SnapshotStartRecordsVector(builder, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	recordsVector := builder.EndVector(len(offsets))

	checksumOffset := builder.CreateByteVector(checksum[:])

	types.SnapshotStart(builder)
	types.SnapshotAddVersion(builder, snapshotVersion)
	types.SnapshotAddRecords(builder, recordsVector)
	types.SnapshotAddChecksum(builder, checksumOffset)
	builder.Finish(types.SnapshotEnd(builder))

	return builder.FinishedBytes()
}

// sortEntries sorts entries by address for deterministic ordering.
func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].id, entries[j].id) < 0
	})
}

// computeChecksum computes a blake3 checksum over canonical snapshot data.
// Format: version (4 bytes) + for each record: id + u32 len + data
func computeChecksum(version uint32, entries []entry) [32]byte {
	hasher := blake3.New()

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], version)
	hasher.Write(buf[:])

	for _, e := range entries {
		hasher.Write(e.id)
		binary.BigEndian.PutUint32(buf[:], uint32(len(e.data)))
		hasher.Write(buf[:])
		hasher.Write(e.data)
	}

	var checksum [32]byte
	hasher.Sum(checksum[:0])

	return checksum
}

// Compress compresses snapshot data using zstd.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed snapshot data.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// Apply verifies a snapshot and writes its records to db in one batch.
func Apply(db *storage.Storage, data []byte) (*Info, error) {
	version, entries, checksum, err := parse(data)
	if err != nil {
		return nil, err
	}

	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	sortEntries(entries)
	if computed := computeChecksum(version, entries); computed != checksum {
		return nil, fmt.Errorf("checksum mismatch")
	}

	pairs := make([]storage.KeyValue, len(entries))
	for i, e := range entries {
		pairs[i] = storage.KeyValue{Key: e.id, Value: e.data}
	}

	if err := db.SetBatch(pairs); err != nil {
		return nil, fmt.Errorf("write records:\n%w", err)
	}

	return &Info{Version: version, Records: len(entries), Checksum: checksum}, nil
}

// parse extracts and copies the snapshot's contents. Malformed input returns an error.
func parse(data []byte) (version uint32, entries []entry, checksum [32]byte, err error) {
	if len(data) < 8 {
		return 0, nil, checksum, fmt.Errorf("snapshot too short: %d bytes", len(data))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed snapshot: %v", r)
		}
	}()

	snap := types.GetRootAsSnapshot(data, 0)

	stored := snap.ChecksumBytes()
	if len(stored) != len(checksum) {
		return 0, nil, checksum, fmt.Errorf("invalid checksum length: %d", len(stored))
	}
	copy(checksum[:], stored)

	entries = make([]entry, snap.RecordsLength())

	var rec types.SnapshotRecord
	for i := range entries {
		if !snap.Records(&rec, i) {
			return 0, nil, checksum, fmt.Errorf("read record %d", i)
		}

		if rec.IdLength() != recordKeySize {
			return 0, nil, checksum, fmt.Errorf("record %d: key size %d", i, rec.IdLength())
		}

		// Copy bytes as FlatBuffers reuses the buffer
		entries[i] = entry{
			id:   append([]byte(nil), rec.IdBytes()...),
			data: append([]byte(nil), rec.DataBytes()...),
		}
	}

	return snap.Version(), entries, checksum, nil
}
