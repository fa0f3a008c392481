package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// newTestStorage creates a temporary storage for testing.
func newTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "storage-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	s, err := New(filepath.Join(dir, "db"))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatalf("failed to create storage: %v", err)
	}

	cleanup := func() {
		s.Close()
		os.RemoveAll(dir)
	}

	return s, cleanup
}

// addr returns a 32-byte record key starting with b.
func addr(b byte) []byte {
	key := make([]byte, 32)
	key[0] = b

	return key
}

func TestRecordLifecycle(t *testing.T) {
	s, cleanup := newTestStorage(t)
	defer cleanup()

	key := addr(1)

	if ok, err := s.Has(key); err != nil || ok {
		t.Fatalf("Has on empty store = %v, %v", ok, err)
	}

	got, err := s.Get(key)
	if err != nil || got != nil {
		t.Fatalf("Get on empty store = %q, %v; want nil", got, err)
	}

	if err := s.Set(key, []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(key, []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err = s.Get(key)
	if err != nil || !bytes.Equal(got, []byte("v2")) {
		t.Fatalf("Get = %q, %v; want v2", got, err)
	}

	if ok, _ := s.Has(key); !ok {
		t.Error("Has should report the stored key")
	}

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got, _ := s.Get(key); got != nil {
		t.Errorf("Get after Delete = %q, want nil", got)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s, cleanup := newTestStorage(t)
	defer cleanup()

	if err := s.Set(addr(1), []byte("balance")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, _ := s.Get(addr(1))
	got[0] = 'X'

	again, _ := s.Get(addr(1))
	if !bytes.Equal(again, []byte("balance")) {
		t.Errorf("stored value mutated through Get result: %q", again)
	}
}

func TestSetBatchAndIterate(t *testing.T) {
	s, cleanup := newTestStorage(t)
	defer cleanup()

	pairs := []KeyValue{
		{Key: addr(3), Value: []byte("three")},
		{Key: addr(1), Value: []byte("one")},
		{Key: []byte("x:receipt-a"), Value: []byte("ra")},
		{Key: []byte("x:receipt-b"), Value: []byte("rb")},
	}

	if err := s.SetBatch(pairs); err != nil {
		t.Fatalf("SetBatch failed: %v", err)
	}

	var all [][]byte
	err := s.Iterate(func(key, value []byte) error {
		all = append(all, append([]byte(nil), key...))
		return nil
	})
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}

	if len(all) != 4 {
		t.Fatalf("Iterate visited %d keys, want 4", len(all))
	}

	for i := 1; i < len(all); i++ {
		if bytes.Compare(all[i-1], all[i]) >= 0 {
			t.Errorf("keys out of order at %d", i)
		}
	}

	var receipts []string
	err = s.IteratePrefix([]byte("x:"), func(key, value []byte) error {
		receipts = append(receipts, string(value))
		return nil
	})
	if err != nil {
		t.Fatalf("IteratePrefix failed: %v", err)
	}

	if len(receipts) != 2 || receipts[0] != "ra" || receipts[1] != "rb" {
		t.Errorf("IteratePrefix = %v, want [ra rb]", receipts)
	}
}

func TestIterateStopsOnError(t *testing.T) {
	s, cleanup := newTestStorage(t)
	defer cleanup()

	for i := byte(1); i <= 3; i++ {
		if err := s.Set(addr(i), []byte{i}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	visited := 0
	stop := os.ErrClosed

	err := s.Iterate(func(key, value []byte) error {
		visited++
		return stop
	})

	if err != stop {
		t.Errorf("Iterate returned %v, want callback error", err)
	}
	if visited != 1 {
		t.Errorf("visited %d keys after stop, want 1", visited)
	}
}

func TestIsEmpty(t *testing.T) {
	s, cleanup := newTestStorage(t)
	defer cleanup()

	empty, err := s.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("expected empty store, got %v, %v", empty, err)
	}

	if err := s.Set([]byte("x:only-a-receipt"), []byte("r")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if empty, _ := s.IsEmpty(); empty {
		t.Error("expected non-empty store")
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := s.SetBatch([]KeyValue{{Key: addr(7), Value: []byte("registry")}}); err != nil {
		t.Fatalf("SetBatch failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	got, err := s.Get(addr(7))
	if err != nil || !bytes.Equal(got, []byte("registry")) {
		t.Errorf("after reopen Get = %q, %v; want registry", got, err)
	}
}
