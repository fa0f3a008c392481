package mint

import (
	"fmt"

	"MintGate/internal/codec"
	"MintGate/internal/ledger"
)

// Lock marks one attestation as consumed.
type Lock struct {
	SignatureHash ledger.Hash // SignatureHash identifies the attestation
	Minter        ledger.Hash // Minter is who consumed it
	ConsumedAt    uint64      // ConsumedAt is the unix time of the mint
}

// lockData is the Borsh payload of a lock record.
type lockData struct {
	Minter     ledger.Hash
	ConsumedAt uint64
}

// LockAddress returns the replay-lock address for a signature hash.
func LockAddress(sigHash ledger.Hash) ledger.Hash {
	return ledger.DeriveAddress(ProgramID, []byte("mint_lock"), sigHash[:])
}

// acquireLock creates the lock for proof's signature hash.
// Fails with ErrReplay if it already exists.
func acquireLock(ctx *ledger.Context, proof *Proof) error {
	payload, err := codec.Marshal(lockData{
		Minter:     proof.Minter,
		ConsumedAt: uint64(ctx.Now().Unix()),
	})
	if err != nil {
		return err
	}

	if _, err := ctx.Create(LockAddress(proof.SignatureHash), ProgramID, KindLock, payload); err != nil {
		if isOccupied(err) {
			return fmt.Errorf("%w: %s", ErrReplay, proof.SignatureHash.Short())
		}
		return err
	}

	return nil
}

// LoadLock reads the lock for sigHash. Returns ledger.ErrNotFound (wrapped)
// if the attestation was never consumed.
func LoadLock(r ledger.Reader, sigHash ledger.Hash) (*Lock, error) {
	rec, err := r.Load(LockAddress(sigHash))
	if err != nil {
		return nil, err
	}

	if rec.Owner != ProgramID || rec.Kind != KindLock {
		return nil, fmt.Errorf("lock %s: unexpected record kind %d", sigHash.Short(), rec.Kind)
	}

	var d lockData
	if err := codec.Unmarshal(rec.Data, &d); err != nil {
		return nil, fmt.Errorf("decode lock:\n%w", err)
	}

	return &Lock{SignatureHash: sigHash, Minter: d.Minter, ConsumedAt: d.ConsumedAt}, nil
}
