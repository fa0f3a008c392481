package mint

import (
	"bytes"
	"fmt"

	"MintGate/internal/ledger"
	"MintGate/internal/sigverify"
)

// verifyProof checks that the instruction immediately before the current one
// is a signature check, by the registry validator the proof names, over
// exactly the proof's message, with a signature whose digest is the proof's
// SignatureHash. The signature itself was verified when that instruction ran.
func verifyProof(ctx *ledger.Context, reg *Registry, proof *Proof) error {
	validator, err := reg.Validator(proof.ValidatorIndex)
	if err != nil {
		return err
	}

	if ctx.Index() == 0 {
		return fmt.Errorf("%w: no signature check precedes the mint", ErrProofSignatureMismatch)
	}

	prev, err := ctx.Instruction(ctx.Index() - 1)
	if err != nil {
		return fmt.Errorf("%w:\n%v", ErrProofSignatureMismatch, err)
	}

	if prev.Program != sigverify.ProgramID {
		return fmt.Errorf("%w: preceding instruction targets %s", ErrProofSignatureMismatch, prev.Program.Short())
	}

	entries, err := sigverify.ParseOffsets(prev.Data)
	if err != nil {
		return fmt.Errorf("%w:\n%v", ErrProofSignatureMismatch, err)
	}

	if len(entries) != 1 || !entries[0].SelfContained() {
		return fmt.Errorf("%w: signature check must hold one self-contained entry", ErrProofSignatureMismatch)
	}

	pub, sig, msg, err := sigverify.Resolve(prev.Data, entries[0], nil)
	if err != nil {
		return fmt.Errorf("%w:\n%v", ErrProofSignatureMismatch, err)
	}

	if !bytes.Equal(pub, validator[:]) {
		return fmt.Errorf("%w: signature check key is not validator %d", ErrProofSignatureMismatch, proof.ValidatorIndex)
	}

	if !bytes.Equal(msg, proof.Message()) {
		return fmt.Errorf("%w: signed message differs from proof", ErrProofSignatureMismatch)
	}

	if SignatureHash(sig) != proof.SignatureHash {
		return fmt.Errorf("%w: signature digest differs from proof", ErrProofSignatureMismatch)
	}

	return nil
}
