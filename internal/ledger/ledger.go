package ledger

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"MintGate/internal/logger"
	"MintGate/internal/storage"
)

// Program processes instructions addressed to its id.
// Returning an error aborts the whole transaction.
type Program interface {
	Process(ctx *Context, data []byte) error
}

// Ledger executes transactions against durable storage.
// Transactions run one at a time; each is all-or-nothing.
type Ledger struct {
	db        *storage.Storage   // db holds records and receipts
	mu        sync.Mutex         // mu serializes transaction execution
	programs  map[Hash]Program   // programs maps program id to implementation
	now       func() time.Time   // now is the execution clock
	coder     func(error) string // coder maps program errors to receipt codes
	committed atomic.Uint64      // committed counts successful transactions since start
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithProgram registers p under id.
func WithProgram(id Hash, p Program) Option {
	return func(l *Ledger) {
		l.programs[id] = p
	}
}

// WithClock overrides the execution clock.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithErrorCodes installs a mapping from program errors to receipt codes.
// fn returns "" for errors it does not know.
func WithErrorCodes(fn func(error) string) Option {
	return func(l *Ledger) {
		l.coder = fn
	}
}

// New creates a Ledger over db.
func New(db *storage.Storage, opts ...Option) *Ledger {
	l := &Ledger{
		db:       db,
		programs: make(map[Hash]Program),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Storage returns the underlying store.
func (l *Ledger) Storage() *storage.Storage {
	return l.db
}

// Execute decodes, authenticates and executes an encoded transaction.
// See ExecuteTx for the result contract.
func (l *Ledger) Execute(txData []byte) (*Receipt, error) {
	tx, err := DecodeTransaction(txData)
	if err != nil {
		return nil, err
	}

	return l.ExecuteTx(tx)
}

// ExecuteTx runs every instruction of tx in order inside one storage Txn.
//
// A nil receipt with an error means the transaction was not processed
// (duplicate or storage failure). A non-nil receipt means it was processed:
// if an instruction failed, no effect is committed, receipt.OK is false and
// the instruction's error is returned alongside.
func (l *Ledger) ExecuteTx(tx *Transaction) (*Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()
	receiptKey := makeReceiptKey(tx.Hash)

	seen, err := l.db.Has(receiptKey)
	if err != nil {
		return nil, fmt.Errorf("check receipt:\n%w", err)
	}
	if seen {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.Hash.Short())
	}

	now := l.now()
	receipt := &Receipt{Hash: tx.Hash, ExecutedAt: uint64(now.Unix())}

	txn := l.db.NewTxn()
	defer txn.Discard()

	if execErr := l.run(txn, tx, now); execErr != nil {
		txn.Discard()

		receipt.Code = l.code(execErr)
		receipt.Message = execErr.Error()

		if err := l.db.Set(receiptKey, encodeReceipt(receipt)); err != nil {
			return nil, fmt.Errorf("store receipt:\n%w", err)
		}

		logger.Info("tx rejected",
			"hash", tx.Hash.Short(),
			"signer", tx.Signer.Short(),
			"code", receipt.Code,
		)
		logger.Debug("tx rejection detail", "hash", tx.Hash.Short(), "error", execErr)

		return receipt, execErr
	}

	receipt.OK = true

	if err := txn.Set(receiptKey, encodeReceipt(receipt)); err != nil {
		return nil, fmt.Errorf("stage receipt:\n%w", err)
	}

	if err := txn.Commit(); err != nil {
		return nil, fmt.Errorf("commit:\n%w", err)
	}

	l.committed.Add(1)

	logger.Info("tx committed",
		"hash", tx.Hash.Short(),
		"signer", tx.Signer.Short(),
		"instructions", len(tx.Instructions),
		logger.Timed(start),
	)

	return receipt, nil
}

// run dispatches each instruction to its program, stopping at the first error.
func (l *Ledger) run(txn *storage.Txn, tx *Transaction, now time.Time) error {
	for i, ins := range tx.Instructions {
		prog, ok := l.programs[ins.Program]
		if !ok {
			return fmt.Errorf("instruction %d:\n%w: %s", i, ErrUnknownProgram, ins.Program.Short())
		}

		ctx := &Context{txn: txn, tx: tx, index: i, now: now}

		if err := process(prog, ctx, ins.Data); err != nil {
			return fmt.Errorf("instruction %d:\n%w", i, err)
		}
	}

	return nil
}

// process calls prog and converts a panic into ErrProgramPanic.
func process(prog Program, ctx *Context, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrProgramPanic, r)
		}
	}()

	return prog.Process(ctx, data)
}

// code returns the receipt code for an execution error.
func (l *Ledger) code(err error) string {
	if l.coder != nil {
		if c := l.coder(err); c != "" {
			return c
		}
	}

	if c := codeOf(err); c != "" {
		return c
	}

	return "ExecutionFailed"
}

// Committed returns the number of transactions committed since the ledger was created.
func (l *Ledger) Committed() uint64 {
	return l.committed.Load()
}

// Load returns the committed record at addr, or ErrNotFound.
func (l *Ledger) Load(addr Hash) (*Record, error) {
	data, err := l.db.Get(addr[:])
	if err != nil {
		return nil, fmt.Errorf("load %s:\n%w", addr.Short(), err)
	}

	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, addr.Short())
	}

	return decodeRecord(data)
}

// Receipt returns the stored receipt for a transaction hash, or ErrNotFound.
func (l *Ledger) Receipt(hash Hash) (*Receipt, error) {
	data, err := l.db.Get(makeReceiptKey(hash))
	if err != nil {
		return nil, fmt.Errorf("load receipt:\n%w", err)
	}

	if data == nil {
		return nil, fmt.Errorf("%w: receipt %s", ErrNotFound, hash.Short())
	}

	return decodeReceipt(data)
}

// IsNotFound reports whether err means an empty address.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
