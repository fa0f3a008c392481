package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"MintGate/internal/storage"
	"MintGate/internal/types"
)

// createTestStorage creates a temporary storage for testing.
func createTestStorage(t *testing.T) (*storage.Storage, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "snapshot_test_*")
	if err != nil {
		t.Fatalf("create temp dir: %v", err)
	}

	db, err := storage.New(filepath.Join(dir, "db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("create storage: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(dir)
	}

	return db, cleanup
}

// recordKey returns a 32-byte key starting with b.
func recordKey(b byte) []byte {
	key := make([]byte, recordKeySize)
	key[0] = b

	return key
}

func seed(t *testing.T, db *storage.Storage) {
	t.Helper()

	pairs := []storage.KeyValue{
		{Key: recordKey(3), Value: []byte("three")},
		{Key: recordKey(1), Value: []byte("one")},
		{Key: recordKey(2), Value: []byte("two")},
		{Key: []byte("x:receipt"), Value: []byte("skipped")},
	}

	if err := db.SetBatch(pairs); err != nil {
		t.Fatalf("SetBatch: %v", err)
	}
}

func TestCreateEmpty(t *testing.T) {
	db, cleanup := createTestStorage(t)
	defer cleanup()

	data, err := Create(db)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	snap := types.GetRootAsSnapshot(data, 0)

	if snap.Version() != snapshotVersion {
		t.Errorf("version = %d, want %d", snap.Version(), snapshotVersion)
	}

	if snap.RecordsLength() != 0 {
		t.Errorf("records = %d, want 0", snap.RecordsLength())
	}

	if snap.ChecksumLength() != 32 {
		t.Errorf("checksum length = %d, want 32", snap.ChecksumLength())
	}
}

func TestCreateSortedAndFiltered(t *testing.T) {
	db, cleanup := createTestStorage(t)
	defer cleanup()

	seed(t, db)

	data, err := Create(db)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	snap := types.GetRootAsSnapshot(data, 0)
	if snap.RecordsLength() != 3 {
		t.Fatalf("records = %d, want 3", snap.RecordsLength())
	}

	var rec types.SnapshotRecord
	for i, want := range []string{"one", "two", "three"} {
		snap.Records(&rec, i)
		if string(rec.DataBytes()) != want {
			t.Errorf("record %d = %q, want %q", i, rec.DataBytes(), want)
		}
	}
}

func TestDeterministic(t *testing.T) {
	db1, cleanup1 := createTestStorage(t)
	defer cleanup1()
	db2, cleanup2 := createTestStorage(t)
	defer cleanup2()

	seed(t, db1)
	seed(t, db2)

	a, _ := Create(db1)
	b, _ := Create(db2)

	if !bytes.Equal(a, b) {
		t.Error("snapshots of identical state differ")
	}
}

func TestRoundTrip(t *testing.T) {
	src, cleanupSrc := createTestStorage(t)
	defer cleanupSrc()
	dst, cleanupDst := createTestStorage(t)
	defer cleanupDst()

	seed(t, src)

	data, err := Create(src)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	decompressed, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}

	if !bytes.Equal(decompressed, data) {
		t.Fatal("decompressed data differs")
	}

	info, err := Apply(dst, decompressed)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if info.Records != 3 || info.Version != snapshotVersion {
		t.Errorf("unexpected info: %+v", info)
	}

	got, err := dst.Get(recordKey(2))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if string(got) != "two" {
		t.Errorf("record = %q, want two", got)
	}

	if receipt, _ := dst.Get([]byte("x:receipt")); receipt != nil {
		t.Error("receipt key restored")
	}
}

func TestApplyRejectsTampering(t *testing.T) {
	src, cleanupSrc := createTestStorage(t)
	defer cleanupSrc()
	dst, cleanupDst := createTestStorage(t)
	defer cleanupDst()

	seed(t, src)

	data, _ := Create(src)

	tampered := append([]byte(nil), data...)
	idx := bytes.Index(tampered, []byte("three"))
	if idx < 0 {
		t.Fatal("record bytes not found")
	}
	tampered[idx] = 'T'

	if _, err := Apply(dst, tampered); err == nil {
		t.Fatal("expected checksum error")
	}

	if got, _ := dst.Get(recordKey(1)); got != nil {
		t.Error("records written despite checksum failure")
	}
}

func TestApplyGarbage(t *testing.T) {
	db, cleanup := createTestStorage(t)
	defer cleanup()

	for _, data := range [][]byte{nil, {1, 2, 3}, bytes.Repeat([]byte{0xFF}, 64)} {
		if _, err := Apply(db, data); err == nil {
			t.Errorf("expected error for %x", data)
		}
	}
}
