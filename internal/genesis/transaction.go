package genesis

import (
	"crypto/ed25519"
	"errors"

	"MintGate/internal/ledger"
	"MintGate/internal/mint"
)

// BuildTransactions packs instructions into signed transactions of at most
// ledger.MaxInstructions each. Consecutive transactions use consecutive nonces.
func BuildTransactions(priv ed25519.PrivateKey, nonce uint64, ins []ledger.Instruction) [][]byte {
	var txs [][]byte

	for start := 0; start < len(ins); start += ledger.MaxInstructions {
		end := min(start+ledger.MaxInstructions, len(ins))

		txs = append(txs, ledger.BuildTransaction(priv, nonce, ins[start:end]))
		nonce++
	}

	return txs
}

// signer returns the public key of priv as a ledger hash.
func signer(priv ed25519.PrivateKey) ledger.Hash {
	var h ledger.Hash
	copy(h[:], priv.Public().(ed25519.PublicKey))

	return h
}

// isNotInitialized reports whether err is a missing mint singleton.
func isNotInitialized(err error) bool {
	return errors.Is(err, mint.ErrNotInitialized)
}
