package ledger

import (
	"errors"
	"fmt"
	"time"

	"MintGate/internal/storage"
)

// Reader loads records by address.
// Implemented by Context (inside a transaction) and Ledger (committed state).
type Reader interface {
	Load(addr Hash) (*Record, error)
}

// Context is the view a Program gets while processing one instruction.
// Every write goes to the enclosing transaction's storage Txn and becomes
// visible only if the whole transaction succeeds.
type Context struct {
	txn   *storage.Txn // txn stages the transaction's writes
	tx    *Transaction // tx is the transaction being executed
	index int          // index is the position of the current instruction
	now   time.Time    // now is the execution time shared by all instructions
}

// Signer returns the public key that signed the transaction.
func (c *Context) Signer() Hash {
	return c.tx.Signer
}

// Index returns the position of the current instruction.
func (c *Context) Index() int {
	return c.index
}

// Len returns the number of instructions in the transaction.
func (c *Context) Len() int {
	return len(c.tx.Instructions)
}

// Instruction returns the instruction at position i of the transaction.
func (c *Context) Instruction(i int) (Instruction, error) {
	if i < 0 || i >= len(c.tx.Instructions) {
		return Instruction{}, fmt.Errorf("%w: %d of %d", ErrInstructionIndex, i, len(c.tx.Instructions))
	}

	return c.tx.Instructions[i], nil
}

// Now returns the transaction's execution time.
func (c *Context) Now() time.Time {
	return c.now
}

// Load returns the record at addr, including writes staged by earlier
// instructions. Returns ErrNotFound if the address is empty.
func (c *Context) Load(addr Hash) (*Record, error) {
	data, err := c.txn.Get(addr[:])
	if err != nil {
		return nil, fmt.Errorf("load %s:\n%w", addr.Short(), err)
	}

	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr.Short())
	}

	return decodeRecord(data)
}

// Create stores a new record owned by owner at addr.
// Existence check and insertion are one step: if addr is occupied,
// ErrOccupied is returned and nothing is written.
func (c *Context) Create(addr, owner Hash, kind uint8, data []byte) (*Record, error) {
	rec := &Record{
		Address: addr,
		Owner:   owner,
		Kind:    kind,
		Version: 1,
		Data:    data,
	}

	if err := c.txn.Insert(addr[:], encodeRecord(rec)); err != nil {
		if errors.Is(err, storage.ErrKeyExists) {
			return nil, fmt.Errorf("%w: %s", ErrOccupied, addr.Short())
		}
		return nil, fmt.Errorf("create %s:\n%w", addr.Short(), err)
	}

	return rec, nil
}

// Update replaces rec's payload. owner is the program performing the write
// and must own the stored record; rec.Version must match the stored version.
// On success rec.Version is bumped.
func (c *Context) Update(owner Hash, rec *Record) error {
	stored, err := c.Load(rec.Address)
	if err != nil {
		return err
	}

	if stored.Owner != owner {
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, rec.Address.Short())
	}

	if stored.Version != rec.Version {
		return fmt.Errorf("%w: %s at %d, have %d", ErrVersionConflict, rec.Address.Short(), stored.Version, rec.Version)
	}

	next := *rec
	next.Owner = stored.Owner
	next.Kind = stored.Kind
	next.Version = stored.Version + 1

	if err := c.txn.Set(rec.Address[:], encodeRecord(&next)); err != nil {
		return fmt.Errorf("update %s:\n%w", rec.Address.Short(), err)
	}

	rec.Version = next.Version

	return nil
}
