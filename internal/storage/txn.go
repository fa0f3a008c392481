package storage

import (
	"errors"

	"github.com/cockroachdb/pebble"
)

// ErrTxnClosed is returned when a committed or discarded Txn is used again.
var ErrTxnClosed = errors.New("transaction closed")

// Txn is an atomic unit of work over Storage.
// Reads observe the Txn's own pending writes; nothing is visible to other
// readers until Commit. Txn is not safe for concurrent use, and callers must
// serialize Txns that touch the same keys.
type Txn struct {
	batch  *pebble.Batch // batch is an indexed batch (read-your-writes)
	closed bool          // closed is set after Commit or Discard
}

// NewTxn opens a new atomic unit of work.
func (s *Storage) NewTxn() *Txn {
	return &Txn{batch: s.db.NewIndexedBatch()}
}

// Get retrieves the value for key, including pending writes.
// Returns nil if the key does not exist.
func (t *Txn) Get(key []byte) ([]byte, error) {
	if t.closed {
		return nil, ErrTxnClosed
	}

	return getCopy(t.batch, key)
}

// Set stages a write.
func (t *Txn) Set(key, value []byte) error {
	if t.closed {
		return ErrTxnClosed
	}

	return t.batch.Set(key, value, nil)
}

// Insert stages a write only if key is absent.
// Returns ErrKeyExists if the key is present in the store or staged.
func (t *Txn) Insert(key, value []byte) error {
	existing, err := t.Get(key)
	if err != nil {
		return err
	}

	if existing != nil {
		return ErrKeyExists
	}

	return t.batch.Set(key, value, nil)
}

// Len returns the number of staged operations.
func (t *Txn) Len() int {
	return int(t.batch.Count())
}

// Commit atomically applies every staged write.
func (t *Txn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}

	t.closed = true
	defer t.batch.Close()

	return t.batch.Commit(pebble.NoSync)
}

// Discard drops every staged write. Safe to call after Commit.
func (t *Txn) Discard() {
	if t.closed {
		return
	}

	t.closed = true
	_ = t.batch.Close()
}
